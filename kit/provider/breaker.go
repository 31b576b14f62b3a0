package provider

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"topup/kit/observability"
)

type BreakerConfig struct {
	Name                string
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	HalfOpenRequests    uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:                "provider",
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenRequests:    1,
	}
}

// CircuitBreakerClient stops calling the provider after repeated transport
// failures. Business rejections count as successes, so a run of "invalid
// recipient" answers never opens the breaker.
type CircuitBreakerClient struct {
	next    Client
	breaker *gobreaker.CircuitBreaker
}

func NewCircuitBreakerClient(next Client, cfg BreakerConfig, logger *observability.Logger) *CircuitBreakerClient {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = def.ConsecutiveFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = def.HalfOpenRequests
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrTransport)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("provider breaker state changed", "layer", "client", "component", "provider", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &CircuitBreakerClient{next: next, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (c *CircuitBreakerClient) State() string {
	return c.breaker.State().String()
}

func (c *CircuitBreakerClient) CreateOrder(ctx context.Context, recipientID, zone, skuID string) (string, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.next.CreateOrder(ctx, recipientID, zone, skuID)
	})
	if err != nil {
		return "", c.mapErr(OpCreateOrder, err)
	}
	return out.(string), nil
}

func (c *CircuitBreakerClient) LookupRole(ctx context.Context, recipientID, zone string) (Role, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.next.LookupRole(ctx, recipientID, zone)
	})
	if err != nil {
		return Role{}, c.mapErr(OpLookupRole, err)
	}
	return out.(Role), nil
}

func (c *CircuitBreakerClient) QueryPoints(ctx context.Context) (decimal.Decimal, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.next.QueryPoints(ctx)
	})
	if err != nil {
		return decimal.Zero, c.mapErr(OpQueryPoints, err)
	}
	return out.(decimal.Decimal), nil
}

func (c *CircuitBreakerClient) mapErr(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Failure{Op: op, Reason: "provider unavailable", Err: errors.Join(ErrUnavailable, err)}
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return transport(op, err)
}
