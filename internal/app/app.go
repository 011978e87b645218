package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"postboard/config"
	"postboard/internal/adapter/in/rest"
	"postboard/internal/adapter/out/pubsub/inmemory"
	"postboard/internal/model"
	"postboard/internal/service"
	"postboard/pkg/logger"
	"postboard/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg     config.Config
	srv     *http.Server
	store   *backend
	bus     *inmemory.EventBus[model.LogEntry]
	audit   *service.AuditLog
	metrics *metrics.Metrics
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	opts := service.Options{OnAuditFailure: m.AuditFailed}

	creds, err := service.NewCredentialService([]byte(cfg.Auth.Secret), cfg.Auth.TokenTTL, opts)
	if err != nil {
		store.close()
		return nil, fmt.Errorf("credentials: %w", err)
	}

	bus := inmemory.NewEventBus[model.LogEntry](cfg.AuditBuffer)
	audit := service.NewAuditLog(store, opts)

	router := rest.NewRouter(&rest.Deps{
		Accounts:    service.NewAccountService(store, audit, opts),
		Posts:       service.NewPostService(store, opts),
		Credentials: creds,
		Events:      bus,
		Metrics:     m,
		Logger:      log,
	})

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType)
	return &App{
		cfg:     cfg,
		srv:     srv,
		store:   store,
		bus:     bus,
		audit:   audit,
		metrics: m,
	}, nil
}

// Run serves until ctx is cancelled or the listener fails. Request log
// entries still queued when the server stops are written before Run returns.
func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	// the subscription outlives ctx so the queue can drain after shutdown
	events, err := a.bus.Subscribe(context.WithoutCancel(ctx), rest.TopicRequests)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", rest.TopicRequests, err)
	}
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		a.audit.Consume(ctx, events)
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			log.Warn("http server shutdown", "error", err)
		}

	case runErr = <-errCh:
	}

	a.bus.Close()
	<-consumed
	a.store.close()
	return runErr
}
