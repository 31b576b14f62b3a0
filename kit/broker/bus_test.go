package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type evt struct{ name string }

func (e evt) Name() string { return e.name }

func TestBus_Publish(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	var tests = []struct {
		name         string
		setup        func(b *Bus, calls *[]string)
		expectedErrs int
		expected     []string
	}{
		{
			name:     "no subscribers",
			setup:    func(b *Bus, calls *[]string) {},
			expected: nil,
		},
		{
			name: "handlers run in subscription order",
			setup: func(b *Bus, calls *[]string) {
				b.Subscribe("order.committed", func(ctx context.Context, e Event) error { *calls = append(*calls, "audit"); return nil })
				b.Subscribe("order.committed", func(ctx context.Context, e Event) error { *calls = append(*calls, "notify"); return nil })
				b.Subscribe("item.failed", func(ctx context.Context, e Event) error { *calls = append(*calls, "other"); return nil })
			},
			expected: []string{"audit", "notify"},
		},
		{
			name: "error and panic are collected, delivery continues",
			setup: func(b *Bus, calls *[]string) {
				b.Subscribe("order.committed", func(ctx context.Context, e Event) error { return boom })
				b.Subscribe("order.committed", func(ctx context.Context, e Event) error { panic("bad handler") })
				b.Subscribe("order.committed", func(ctx context.Context, e Event) error { *calls = append(*calls, "last"); return nil })
			},
			expectedErrs: 2,
			expected:     []string{"last"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := New()
			var calls []string
			tt.setup(b, &calls)
			errs := b.Publish(ctx, evt{name: "order.committed"})
			require.Len(t, errs, tt.expectedErrs)
			require.Equal(t, tt.expected, calls)
		})
	}
}

func TestBus_Close(t *testing.T) {
	b := New()
	b.Subscribe("x", func(ctx context.Context, e Event) error { return nil })
	b.Close()
	errs := b.Publish(context.Background(), evt{name: "x"})
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrClosed)
}
