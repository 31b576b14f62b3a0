package readmodels

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"topup/internal/events"
	"topup/kit/broker"
	"topup/kit/db"
)

type BatchStatus string

const (
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchRejected  BatchStatus = "rejected"
)

// BatchView summarises one batch from its events.
type BatchView struct {
	BatchID     string      `json:"batch_id"`
	CustomerID  string      `json:"customer_id"`
	Region      string      `json:"region"`
	Items       int         `json:"items"`
	Status      BatchStatus `json:"status"`
	Reason      string      `json:"reason,omitempty"`
	Committed   int         `json:"committed"`
	Failed      int         `json:"failed"`
	Compensated int         `json:"compensated"`
	Forfeited   int         `json:"forfeited"`
	// Net amount the batch took from the customer.
	Charged   int64     `json:"charged"`
	OrderIDs  []string  `json:"order_ids,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerView tracks the last balance observed per bucket and order totals.
type CustomerView struct {
	CustomerID string           `json:"customer_id"`
	Balances   map[string]int64 `json:"balances"`
	Orders     int              `json:"orders"`
	Spent      int64            `json:"spent"`
	Refunded   int64            `json:"refunded"`
	Forfeited  int64            `json:"forfeited"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type Projector struct {
	mu        sync.RWMutex
	batches   map[string]BatchView
	customers map[string]CustomerView
}

func NewProjector() *Projector {
	return &Projector{
		batches:   make(map[string]BatchView),
		customers: make(map[string]CustomerView),
	}
}

// Replay rebuilds the views from the journal. Call it before subscribing
// Apply to the bus.
func (p *Projector) Replay(ctx context.Context, store *db.Store) error {
	for _, rec := range store.All(ctx) {
		if err := p.ApplyRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (p *Projector) Apply(ctx context.Context, evt broker.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch e := evt.(type) {
	case events.BatchSubmitted:
		p.applyBatchSubmitted(e)
	case events.BatchRejected:
		p.applyBatchRejected(e)
	case events.ItemDebited:
		p.applyItemDebited(e)
	case events.ItemCompensated:
		p.applyItemCompensated(e)
	case events.ItemForfeited:
		p.applyItemForfeited(e)
	case events.ItemFailed:
		p.applyItemFailed(e)
	case events.OrderCommitted:
		p.applyOrderCommitted(e)
	case events.CustomerRegistered:
		p.applyCustomerRegistered(e)
	case events.BalanceAdjusted:
		p.applyBalanceAdjusted(e)
	}
	return nil
}

func (p *Projector) ApplyRecord(ctx context.Context, rec db.Entry) error {
	var evt broker.Event
	var err error
	switch rec.EventName {
	case (events.BatchSubmitted{}).Name():
		evt, err = decode[events.BatchSubmitted](rec)
	case (events.BatchRejected{}).Name():
		evt, err = decode[events.BatchRejected](rec)
	case (events.ItemDebited{}).Name():
		evt, err = decode[events.ItemDebited](rec)
	case (events.ItemCompensated{}).Name():
		evt, err = decode[events.ItemCompensated](rec)
	case (events.ItemForfeited{}).Name():
		evt, err = decode[events.ItemForfeited](rec)
	case (events.ItemFailed{}).Name():
		evt, err = decode[events.ItemFailed](rec)
	case (events.OrderCommitted{}).Name():
		evt, err = decode[events.OrderCommitted](rec)
	case (events.CustomerRegistered{}).Name():
		evt, err = decode[events.CustomerRegistered](rec)
	case (events.BalanceAdjusted{}).Name():
		evt, err = decode[events.BalanceAdjusted](rec)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	return p.Apply(ctx, evt)
}

func decode[T broker.Event](rec db.Entry) (broker.Event, error) {
	var e T
	if err := json.Unmarshal(rec.Payload, &e); err != nil {
		return nil, errors.Join(db.ErrInternal, err)
	}
	return e, nil
}

func (p *Projector) GetBatch(batchID string) (BatchView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.batches[batchID]
	if ok {
		v.OrderIDs = append([]string(nil), v.OrderIDs...)
	}
	return v, ok
}

func (p *Projector) GetCustomer(customerID string) (CustomerView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.customers[customerID]
	if ok {
		bals := make(map[string]int64, len(v.Balances))
		for k, b := range v.Balances {
			bals[k] = b
		}
		v.Balances = bals
	}
	return v, ok
}

// The apply helpers run with p.mu held.

func (p *Projector) batch(id string, at time.Time) BatchView {
	cur := p.batches[id]
	cur.BatchID = id
	if cur.Status == "" {
		cur.Status = BatchRunning
	}
	cur.UpdatedAt = at
	return cur
}

func (p *Projector) customer(id string, at time.Time) CustomerView {
	cur := p.customers[id]
	cur.CustomerID = id
	if cur.Balances == nil {
		cur.Balances = map[string]int64{}
	}
	cur.UpdatedAt = at
	return cur
}

func (p *Projector) finishItem(v *BatchView) {
	if v.Status == BatchRunning && v.Items > 0 && v.Committed+v.Failed >= v.Items {
		v.Status = BatchCompleted
	}
}

func (p *Projector) applyBatchSubmitted(e events.BatchSubmitted) {
	cur := p.batch(e.BatchID, e.At)
	cur.CustomerID = e.CustomerID
	cur.Region = e.Region
	cur.Items = e.Items
	p.batches[e.BatchID] = cur
}

func (p *Projector) applyBatchRejected(e events.BatchRejected) {
	cur := p.batch(e.BatchID, e.At)
	cur.CustomerID = e.CustomerID
	cur.Status = BatchRejected
	cur.Reason = e.Reason
	p.batches[e.BatchID] = cur
}

func (p *Projector) applyItemDebited(e events.ItemDebited) {
	cur := p.batch(e.BatchID, e.At)
	cur.Charged += e.Amount
	p.batches[e.BatchID] = cur

	c := p.customer(e.CustomerID, e.At)
	c.Balances[e.Bucket] = e.Balance
	p.customers[e.CustomerID] = c
}

func (p *Projector) applyItemCompensated(e events.ItemCompensated) {
	cur := p.batch(e.BatchID, e.At)
	cur.Compensated++
	cur.Charged -= e.Amount
	p.batches[e.BatchID] = cur

	c := p.customer(e.CustomerID, e.At)
	c.Balances[e.Bucket] += e.Amount
	c.Refunded += e.Amount
	p.customers[e.CustomerID] = c
}

func (p *Projector) applyItemForfeited(e events.ItemForfeited) {
	cur := p.batch(e.BatchID, e.At)
	cur.Forfeited++
	p.batches[e.BatchID] = cur

	c := p.customer(e.CustomerID, e.At)
	c.Forfeited += e.Amount
	p.customers[e.CustomerID] = c
}

func (p *Projector) applyItemFailed(e events.ItemFailed) {
	cur := p.batch(e.BatchID, e.At)
	cur.Failed++
	p.finishItem(&cur)
	p.batches[e.BatchID] = cur
}

func (p *Projector) applyOrderCommitted(e events.OrderCommitted) {
	cur := p.batch(e.BatchID, e.At)
	cur.Committed++
	cur.OrderIDs = append(cur.OrderIDs, e.OrderIDs...)
	p.finishItem(&cur)
	p.batches[e.BatchID] = cur

	c := p.customer(e.CustomerID, e.At)
	c.Orders++
	c.Spent += e.Price
	p.customers[e.CustomerID] = c
}

func (p *Projector) applyCustomerRegistered(e events.CustomerRegistered) {
	p.customers[e.CustomerID] = p.customer(e.CustomerID, e.At)
}

func (p *Projector) applyBalanceAdjusted(e events.BalanceAdjusted) {
	c := p.customer(e.CustomerID, e.At)
	c.Balances[e.Bucket] = e.Balance
	p.customers[e.CustomerID] = c
}
