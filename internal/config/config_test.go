package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	var tests = []struct {
		name        string
		env         map[string]string
		assert      func(t *testing.T, c Config)
		expectedErr error
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			assert: func(t *testing.T, c Config) {
				require.Equal(t, ":8080", c.HTTPAddr)
				require.Equal(t, BackendMemory, c.LedgerBackend)
				require.Equal(t, BackendBolt, c.TxlogBackend)
				require.Equal(t, "out/orders.db", c.BoltPath)
				require.Equal(t, ProviderFake, c.ProviderMode)
				require.Equal(t, 10*time.Second, c.ProviderTimeout)
				require.Empty(t, c.OperatorIDs)
				require.False(t, c.UsesMongo())
			},
		},
		{
			name: "mongo ledger with operators",
			env: map[string]string{
				"LEDGER_BACKEND":   "Mongo",
				"TXLOG_BACKEND":    "mongo",
				"PROVIDER_MODE":    "fake",
				"OPERATOR_IDS":     "5671920054, 42,,",
				"PROVIDER_TIMEOUT": "3s",
			},
			assert: func(t *testing.T, c Config) {
				require.Equal(t, BackendMongo, c.LedgerBackend)
				require.True(t, c.UsesMongo())
				require.Equal(t, []string{"5671920054", "42"}, c.OperatorIDs)
				require.Equal(t, 3*time.Second, c.ProviderTimeout)
			},
		},
		{
			name:        "durable ledger without provider mode",
			env:         map[string]string{"LEDGER_BACKEND": "postgres", "POSTGRES_DSN": "postgres://localhost/topup"},
			expectedErr: ErrInvalidConfig,
		},
		{
			name: "durable ledger with explicit fake provider",
			env:  map[string]string{"LEDGER_BACKEND": "postgres", "POSTGRES_DSN": "postgres://localhost/topup", "PROVIDER_MODE": "FAKE"},
			assert: func(t *testing.T, c Config) {
				require.Equal(t, BackendPostgres, c.LedgerBackend)
				require.Equal(t, ProviderFake, c.ProviderMode)
			},
		},
		{
			name:        "postgres without dsn",
			env:         map[string]string{"LEDGER_BACKEND": "postgres"},
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "unknown txlog backend",
			env:         map[string]string{"TXLOG_BACKEND": "redis"},
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "http provider without credentials",
			env:         map[string]string{"PROVIDER_MODE": "http"},
			expectedErr: ErrInvalidConfig,
		},
		{
			name:        "bad timeout",
			env:         map[string]string{"PROVIDER_TIMEOUT": "soon"},
			expectedErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := load(func(k string) string { return tt.env[k] })
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			tt.assert(t, c)
		})
	}
}
