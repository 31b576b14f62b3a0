package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"topup/internal/audit"
	"topup/internal/catalog"
	"topup/internal/config"
	"topup/internal/events"
	"topup/internal/health"
	"topup/internal/ledger"
	"topup/internal/metrics"
	"topup/internal/notification"
	"topup/internal/order"
	"topup/internal/readmodels"
	"topup/internal/recovery"
	"topup/internal/subscribers"
	"topup/internal/txlog"
	"topup/kit/broker"
	"topup/kit/db"
	"topup/kit/observability"
	"topup/kit/provider"
)

var ErrForbidden = errors.New("operator only")

// App holds every long-lived component of one process. Build it once with
// New and share it between the HTTP server and the CLI commands.
type App struct {
	Config   config.Config
	Logger   *observability.Logger
	Metrics  *observability.Metrics
	Catalog  *catalog.Catalog
	Bus      *broker.Bus
	Journal  *db.Store
	Ledger   *ledger.Service
	Txlog    txlog.RepositoryContract
	Provider provider.Client
	Orders   *order.Service
	Recovery *recovery.Service
	Notifier *notification.Service
	Counters *metrics.Service
	Health   *health.Service
	Views    *readmodels.Projector

	operators map[string]struct{}
	closers   []func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := observability.NewLoggerWithConfig(observability.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	observability.ReplaceGlobal(logger)

	a := &App{Config: cfg, Logger: logger, Metrics: observability.NewMetrics(), operators: map[string]struct{}{}}
	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	a.Catalog = cat
	for _, id := range append(cat.Operators(), cfg.OperatorIDs...) {
		a.operators[id] = struct{}{}
	}

	checks := map[string]health.CheckFunc{}

	var mdb *mongo.Database
	if cfg.UsesMongo() {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return errors.Join(db.ErrUnavailable, err)
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return errors.Join(db.ErrUnavailable, err)
		}
		mdb = client.Database(cfg.MongoDatabase)
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	}

	repo, err := a.ledgerRepository(ctx, mdb, checks)
	if err != nil {
		return err
	}
	a.Ledger = ledger.NewServiceWithRepo(repo, a.Metrics)

	if a.Txlog, err = a.txlogRepository(ctx, mdb); err != nil {
		return err
	}

	a.Provider = a.providerClient(checks)

	journal, err := db.NewWithFile(filepath.Join(cfg.DataDir, "events.jsonl"))
	if err != nil {
		return err
	}
	a.Journal = journal
	a.closers = append(a.closers, journal.Close)

	auditSvc, err := audit.NewServiceWithFile(a.Logger, filepath.Join(cfg.DataDir, "audit.jsonl"))
	if err != nil {
		return err
	}
	a.closers = append(a.closers, auditSvc.Close)

	a.Bus = broker.NewWithLogger(a.Logger)
	a.closers = append(a.closers, func() error { a.Bus.Close(); return nil })
	a.Recovery = recovery.NewService(a.Logger)
	a.Notifier = notification.NewService(a.Logger)
	a.Counters = metrics.NewService(a.Metrics)
	subscribers.Register(a.Bus,
		subscribers.NewAuditEvent(auditSvc),
		subscribers.NewNotificationEvent(a.Notifier),
		subscribers.NewMetricsEvent(a.Counters),
	)

	a.Views = readmodels.NewProjector()
	if err := a.Views.Replay(ctx, journal); err != nil {
		return err
	}
	for _, name := range events.Names() {
		a.Bus.Subscribe(name, a.Views.Apply)
	}

	a.Orders = order.NewService(order.Deps{
		Catalog:  cat,
		Ledger:   a.Ledger,
		Provider: a.Provider,
		Txlog:    a.Txlog,
		Recovery: a.Recovery,
		Bus:      a.Bus,
		Store:    a.Journal,
		Metrics:  a.Metrics,
	})
	a.Health = health.NewService(5*time.Second, checks)

	if cfg.ProviderMode == config.ProviderFake {
		a.Logger.Warn("provider is fake: orders succeed without reaching the provider", "layer", "app", "ledger", cfg.LedgerBackend)
	}
	a.Logger.Info("app ready", "layer", "app", "ledger", cfg.LedgerBackend, "txlog", cfg.TxlogBackend, "provider", cfg.ProviderMode, "catalog", cat.Version(), "operators", len(a.operators))
	return nil
}

func (a *App) ledgerRepository(ctx context.Context, mdb *mongo.Database, checks map[string]health.CheckFunc) (ledger.RepositoryContract, error) {
	cfg := a.Config
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		client, err := db.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		checks["postgres"] = client.Ping
		repo := ledger.NewSQLRepository(client)
		if err := repo.Migrate(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendMongo:
		return ledger.NewMongoRepository(mdb), nil
	default:
		path := filepath.Join(cfg.DataDir, "ledger.json")
		client, err := db.NewMockClient(db.WithLedgerJSONPersistence(path), db.WithLedgerJSONFile(path))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		checks["ledger"] = client.Ping
		return ledger.NewSQLRepository(client), nil
	}
}

func (a *App) txlogRepository(ctx context.Context, mdb *mongo.Database) (txlog.RepositoryContract, error) {
	switch a.Config.TxlogBackend {
	case config.BackendMongo:
		if err := txlog.EnsureIndexes(ctx, mdb); err != nil {
			return nil, err
		}
		return txlog.NewMongoRepository(mdb), nil
	case config.BackendBolt:
		repo, err := txlog.NewBoltRepository(a.Config.BoltPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	default:
		return txlog.NewInMemoryRepository(), nil
	}
}

func (a *App) providerClient(checks map[string]health.CheckFunc) provider.Client {
	cfg := a.Config
	if cfg.ProviderMode != config.ProviderHTTP {
		return provider.NewFakeClient()
	}
	pcfg := provider.DefaultConfig()
	pcfg.BaseURL = cfg.ProviderBaseURL
	pcfg.UID = cfg.ProviderUID
	pcfg.Email = cfg.ProviderEmail
	pcfg.Key = cfg.ProviderKey
	pcfg.Product = cfg.ProviderProduct
	pcfg.Timeout = cfg.ProviderTimeout

	cb := provider.NewCircuitBreakerClient(provider.NewHTTPClient(pcfg, a.Logger), provider.DefaultBreakerConfig(), a.Logger)
	checks["provider"] = func(ctx context.Context) error {
		if st := cb.State(); st == "open" {
			return fmt.Errorf("circuit %s", st)
		}
		return nil
	}
	return cb
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.Logger.Sync()
	return errors.Join(errs...)
}

func (a *App) IsOperator(id string) bool {
	_, ok := a.operators[id]
	return id != "" && ok
}

// RegisterCustomer is idempotent.
func (a *App) RegisterCustomer(ctx context.Context, customerID string) error {
	if err := a.Ledger.Register(ctx, customerID); err != nil {
		return err
	}
	a.publish(ctx, customerID, events.CustomerRegistered{CustomerID: customerID, At: time.Now().UTC()})
	return nil
}

// CreditBalance is an operator top-up of a customer's bucket.
func (a *App) CreditBalance(ctx context.Context, operatorID, customerID, bucket string, amount int64) (int64, error) {
	if !a.IsOperator(operatorID) {
		return 0, ErrForbidden
	}
	bal, err := a.Ledger.Credit(ctx, customerID, bucket, amount)
	if err != nil {
		return 0, err
	}
	a.publish(ctx, customerID, events.BalanceAdjusted{CustomerID: customerID, Bucket: bucket, Amount: amount, Balance: bal, OperatorID: operatorID, At: time.Now().UTC()})
	return bal, nil
}

// DebitBalance is an operator deduction; it never takes a bucket below zero.
func (a *App) DebitBalance(ctx context.Context, operatorID, customerID, bucket string, amount int64) (int64, error) {
	if !a.IsOperator(operatorID) {
		return 0, ErrForbidden
	}
	bal, err := a.Ledger.Debit(ctx, customerID, bucket, amount)
	if err != nil {
		return 0, err
	}
	a.publish(ctx, customerID, events.BalanceAdjusted{CustomerID: customerID, Bucket: bucket, Amount: -amount, Balance: bal, OperatorID: operatorID, At: time.Now().UTC()})
	return bal, nil
}

func (a *App) publish(ctx context.Context, streamID string, evt broker.Event) {
	if err := a.Journal.Append(ctx, streamID, evt); err != nil {
		a.Logger.Error("journal append failed", "layer", "app", "event", evt.Name(), "err", err)
	}
	if errs := a.Bus.Publish(ctx, evt); len(errs) > 0 {
		a.Recovery.SendToDLQ(ctx, evt.Name(), errors.Join(errs...).Error(), evt)
	}
}
