package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"topup/internal/catalog"
	"topup/internal/ledger"
	"topup/kit/broker"
	"topup/kit/observability"
	"topup/kit/provider"
)

type Deps struct {
	Catalog  *catalog.Catalog
	Ledger   LedgerContract
	Provider ProviderContract
	Txlog    TxlogContract
	Recovery RecoveryContract
	Bus      PublisherContract
	Store    StoreContract
	Metrics  *observability.Metrics
}

// Service drives each accepted item through debit, provider fulfilment and
// commit, compensating per the catalog's refund policy. Items of a batch run
// one after another; batches are independent of each other.
type Service struct {
	catalog   *catalog.Catalog
	validator *Validator
	ledger    LedgerContract
	provider  ProviderContract
	txlog     TxlogContract
	recovery  RecoveryContract
	bus       PublisherContract
	store     StoreContract
	metrics   *observability.Metrics

	newID func() string
	now   func() time.Time
}

func NewService(d Deps) *Service {
	return &Service{
		catalog:   d.Catalog,
		validator: NewValidator(d.Catalog, d.Ledger),
		ledger:    d.Ledger,
		provider:  d.Provider,
		txlog:     d.Txlog,
		recovery:  d.Recovery,
		bus:       d.Bus,
		store:     d.Store,
		metrics:   d.Metrics,
		newID:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit screens the batch and then runs every accepted item to a terminal
// state. A batch-level rejection returns a non-nil result carrying whatever
// per-item rejections were found, together with the error.
func (s *Service) Submit(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	res := &BatchResult{BatchID: s.newID(), CustomerID: req.CustomerID, Region: req.Region}
	if s.metrics != nil {
		s.metrics.BatchesSubmitted.Add(1)
	}
	s.emit(ctx, res.BatchID, ToBatchSubmittedEvent(res.BatchID, req, s.now()))

	v, err := s.validator.Validate(ctx, req)
	if v != nil {
		res.Bucket = v.Region.Bucket
		res.Items = make([]ItemResult, len(req.Items))
		for _, r := range v.Rejected {
			res.Items[r.Index] = r
		}
	}
	if err != nil {
		var short *InsufficientBalanceError
		if errors.As(err, &short) {
			res.Required, res.Available = short.Required, short.Available
			for _, pi := range v.Accepted {
				res.Items[pi.Index] = ItemResult{
					Index: pi.Index, Request: pi.Request, Price: pi.Entry.Price,
					State: StateFailed, Kind: KindInsufficientBalance, Reason: ReasonInsufficientBalance,
				}
			}
		}
		observability.L().Info("batch rejected", "layer", "service", "component", "order", "method", "Submit", "batch_id", res.BatchID, "customer_id", req.CustomerID, "err", err)
		if s.metrics != nil {
			s.metrics.BatchesRejected.Add(1)
		}
		s.emit(ctx, res.BatchID, ToBatchRejectedEvent(res, err.Error(), s.now()))
		return res, err
	}

	for _, r := range v.Rejected {
		s.emit(ctx, res.BatchID, ToItemFailedEvent(res.BatchID, req.CustomerID, r, s.now()))
	}
	for _, pi := range v.Accepted {
		res.Items[pi.Index] = s.process(ctx, res.BatchID, req.CustomerID, v.Region, pi)
	}

	observability.L().Info("batch done", "layer", "service", "component", "order", "method", "Submit", "batch_id", res.BatchID, "customer_id", req.CustomerID, "items", len(res.Items), "committed", res.CommittedCount())
	return res, nil
}

func (s *Service) process(ctx context.Context, batchID, customerID string, region catalog.Region, pi PricedItem) ItemResult {
	r := ItemResult{Index: pi.Index, Request: pi.Request, Price: pi.Entry.Price, State: StatePending}
	bucket := region.Bucket

	// An earlier item of this batch, or a concurrent batch, may have drained
	// the bucket since validation.
	bal, err := s.ledger.Balance(ctx, customerID, bucket)
	if err != nil {
		return s.fail(ctx, batchID, customerID, r, KindDebitFailed, ReasonDebitFailed)
	}
	if bal < r.Price {
		return s.fail(ctx, batchID, customerID, r, KindInsufficientBalance, ReasonInsufficientBalance)
	}
	after, err := s.ledger.Debit(ctx, customerID, bucket, r.Price)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return s.fail(ctx, batchID, customerID, r, KindInsufficientBalance, ReasonInsufficientBalance)
		}
		return s.fail(ctx, batchID, customerID, r, KindDebitFailed, ReasonDebitFailed)
	}
	s.move(batchID, &r, StateDebited)
	r.RemainingBalance = after
	s.emit(ctx, batchID, ToItemDebitedEvent(batchID, customerID, bucket, r, after, s.now()))

	s.move(batchID, &r, StateSKULoop)
	for _, sku := range pi.Entry.SKUs {
		orderID, err := s.provider.CreateOrder(ctx, r.Request.RecipientID, r.Request.RecipientZone, sku)
		s.countProviderCall(err)
		if err != nil {
			observability.L().Warn("provider order failed", "layer", "service", "component", "order", "method", "process", "batch_id", batchID, "item", r.Index, "sku", sku, "placed", len(r.OrderIDs), "err", err)
			return s.compensate(ctx, batchID, customerID, bucket, r, KindProviderOrderFailed, provider.ReasonOf(err))
		}
		r.OrderIDs = append(r.OrderIDs, orderID)
	}

	role, err := s.provider.LookupRole(ctx, r.Request.RecipientID, r.Request.RecipientZone)
	s.countProviderCall(err)
	if err != nil {
		observability.L().Warn("recipient lookup failed", "layer", "service", "component", "order", "method", "process", "batch_id", batchID, "item", r.Index, "recipient_id", r.Request.RecipientID, "err", err)
		return s.compensate(ctx, batchID, customerID, bucket, r, KindRecipientNotFound, ReasonRecipientNotFound)
	}
	s.move(batchID, &r, StateRecipientVerified)
	r.RecipientName = role.DisplayName

	if cur, err := s.ledger.Balance(ctx, customerID, bucket); err == nil {
		r.RemainingBalance = cur
	}
	at := s.now()
	rec := ToRecord(s.newID(), batchID, customerID, region.Name, bucket, r, at)
	r.RecordID = rec.ID
	s.move(batchID, &r, StateCommitted)

	// The customer has been charged and served; losing the record does not
	// undo either.
	if err := s.txlog.Append(ctx, rec); err != nil {
		observability.L().Error("order record not written", "layer", "service", "component", "order", "method", "process", "batch_id", batchID, "record_id", rec.ID, "err", err)
		if s.recovery != nil {
			s.recovery.RecordLost(ctx, rec, err)
		}
	}
	s.emit(ctx, batchID, ToOrderCommittedEvent(rec))
	return r
}

// compensate applies the refund policy to a debited item and fails it.
func (s *Service) compensate(ctx context.Context, batchID, customerID, bucket string, r ItemResult, kind FailureKind, reason string) ItemResult {
	s.move(batchID, &r, StateCompensating)
	r.Kind, r.Reason = kind, reason

	if !s.catalog.Policy().Refundable(r.Request.ProductCode) {
		r.Forfeited = true
		s.emit(ctx, batchID, ToItemForfeitedEvent(batchID, customerID, bucket, r, s.now()))
	} else if bal, err := s.ledger.Credit(ctx, customerID, bucket, r.Price); err != nil {
		r.Kind = KindCompensationFailed
		observability.L().Error("compensation failed", "layer", "service", "component", "order", "method", "compensate", "batch_id", batchID, "item", r.Index, "customer_id", customerID, "bucket", bucket, "amount", r.Price, "err", err)
		if s.recovery != nil {
			s.recovery.CompensationFailed(ctx, ToCompensationAlert(batchID, customerID, bucket, r, err, s.now()))
		}
		s.emit(ctx, batchID, ToCompensationFailedEvent(batchID, customerID, bucket, r, err, s.now()))
	} else {
		r.Compensated = true
		r.RemainingBalance = bal
		s.emit(ctx, batchID, ToItemCompensatedEvent(batchID, customerID, bucket, r, s.now()))
	}

	s.move(batchID, &r, StateFailed)
	s.emit(ctx, batchID, ToItemFailedEvent(batchID, customerID, r, s.now()))
	return r
}

// fail ends an item that was never debited.
func (s *Service) fail(ctx context.Context, batchID, customerID string, r ItemResult, kind FailureKind, reason string) ItemResult {
	r.Kind, r.Reason = kind, reason
	s.move(batchID, &r, StateFailed)
	s.emit(ctx, batchID, ToItemFailedEvent(batchID, customerID, r, s.now()))
	return r
}

func (s *Service) move(batchID string, r *ItemResult, to State) {
	from := r.State
	if err := r.advance(to); err != nil {
		observability.L().Error("state transition rejected", "layer", "service", "component", "order", "method", "move", "batch_id", batchID, "item", r.Index, "from", from, "to", to, "err", err)
		return
	}
	observability.L().Debug("state", "layer", "service", "component", "order", "batch_id", batchID, "item", r.Index, "from", from, "to", to)
}

func (s *Service) countProviderCall(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ProviderCalls.Add(1)
	if err != nil {
		s.metrics.ProviderFailures.Add(1)
	}
}

func (s *Service) emit(ctx context.Context, streamID string, evt broker.Event) {
	if s.store != nil {
		if err := s.store.Append(ctx, streamID, evt); err != nil {
			observability.L().Error("journal append failed", "layer", "service", "component", "order", "method", "emit", "event", evt.Name(), "batch_id", streamID, "err", err)
		}
	}
	if s.bus == nil {
		return
	}
	if errs := s.bus.Publish(ctx, evt); len(errs) > 0 && s.recovery != nil {
		s.recovery.SendToDLQ(ctx, evt.Name(), errors.Join(errs...).Error(), evt)
	}
}
