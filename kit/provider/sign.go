package provider

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

const signField = "sign"

// CanonicalString sorts params by key (sign excluded), joins them as k=v with
// "&" and appends "&"+key. Values are used verbatim, without URL encoding.
func CanonicalString(params map[string]string, key string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == signField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	b.WriteByte('&')
	b.WriteString(key)
	return b.String()
}

// Sign returns hex(md5(hex(md5(canonical)))).
func Sign(params map[string]string, key string) string {
	first := md5.Sum([]byte(CanonicalString(params, key)))
	second := md5.Sum([]byte(hex.EncodeToString(first[:])))
	return hex.EncodeToString(second[:])
}
