package provider

import (
	"context"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

// FakeClient answers from a script. Order ids are ORD1, ORD2, ... in call
// order; unscripted recipients resolve to "player-<id>".
type FakeClient struct {
	mu sync.Mutex

	orderCalls   []string
	roleCalls    int
	callFailures map[int]string
	skuFailures  map[string]string
	roles        map[string]string
	missing      map[string]bool
	points       decimal.Decimal
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		callFailures: make(map[int]string),
		skuFailures:  make(map[string]string),
		roles:        make(map[string]string),
		missing:      make(map[string]bool),
		points:       decimal.NewFromInt(100000),
	}
}

// FailCall makes the n-th CreateOrder call (1-based) fail with message.
func (f *FakeClient) FailCall(n int, message string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callFailures[n] = message
	return f
}

func (f *FakeClient) FailSKU(skuID, message string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skuFailures[skuID] = message
	return f
}

func (f *FakeClient) SetRole(recipientID, zone, name string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[recipientID+"|"+zone] = name
	return f
}

func (f *FakeClient) RemoveRecipient(recipientID, zone string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[recipientID+"|"+zone] = true
	return f
}

func (f *FakeClient) SetPoints(p decimal.Decimal) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = p
	return f
}

// OrderCalls returns the SKUs passed to CreateOrder, in call order.
func (f *FakeClient) OrderCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.orderCalls...)
}

func (f *FakeClient) RoleCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roleCalls
}

func (f *FakeClient) CreateOrder(ctx context.Context, recipientID, zone, skuID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", transport(OpCreateOrder, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls = append(f.orderCalls, skuID)
	n := len(f.orderCalls)
	if msg, ok := f.callFailures[n]; ok {
		return "", rejected(OpCreateOrder, msg)
	}
	if msg, ok := f.skuFailures[skuID]; ok {
		return "", rejected(OpCreateOrder, msg)
	}
	return "ORD" + strconv.Itoa(n), nil
}

func (f *FakeClient) LookupRole(ctx context.Context, recipientID, zone string) (Role, error) {
	if err := ctx.Err(); err != nil {
		return Role{}, transport(OpLookupRole, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	key := recipientID + "|" + zone
	if f.missing[key] {
		return Role{}, rejected(OpLookupRole, "user not found")
	}
	name, ok := f.roles[key]
	if !ok {
		name = "player-" + recipientID
	}
	return Role{RecipientID: recipientID, Zone: zone, DisplayName: name}, nil
}

func (f *FakeClient) QueryPoints(ctx context.Context) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.points, nil
}
