package catalog

import "sort"

// RefundPolicy decides whether a failed item is compensated. Codes in the
// forfeiture set keep the debited price.
type RefundPolicy struct {
	version    string
	forfeiture map[string]struct{}
}

func NewRefundPolicy(version string, nonRefundable []string) RefundPolicy {
	set := make(map[string]struct{}, len(nonRefundable))
	for _, c := range nonRefundable {
		set[NormalizeCode(c)] = struct{}{}
	}
	return RefundPolicy{version: version, forfeiture: set}
}

func (p RefundPolicy) Refundable(code string) bool {
	_, forfeit := p.forfeiture[NormalizeCode(code)]
	return !forfeit
}

func (p RefundPolicy) Version() string { return p.version }

func (p RefundPolicy) NonRefundable() []string {
	out := make([]string, 0, len(p.forfeiture))
	for c := range p.forfeiture {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
