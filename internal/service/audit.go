package service

import (
	"context"
	"postboard/internal/adapter/out/storage"
	"postboard/internal/model"
	"postboard/pkg/logger"

	"github.com/google/uuid"
)

const EventUserRegistered = "User Registered"

// AuditLog appends entries to the logs collection. Writes are best-effort:
// a failure is logged and reported to Options.OnAuditFailure, never to the
// request that caused it.
type AuditLog struct {
	entries *Collection[[]model.LogEntry]
	opts    Options
}

func NewAuditLog(store DocumentStore, opts Options) *AuditLog {
	return &AuditLog{
		entries: NewCollection(store, storage.CollectionLogs, func() []model.LogEntry {
			return []model.LogEntry{}
		}),
		opts: opts.withDefaults(),
	}
}

func (l *AuditLog) Record(ctx context.Context, entry model.LogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.opts.Now()
	}

	err := l.entries.Update(ctx, func(doc *[]model.LogEntry) error {
		*doc = append(*doc, entry)
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Warn("audit log write failed",
			"error", err,
			"event", entry.Event,
			"method", entry.Method,
			"url", entry.URL,
		)
		if l.opts.OnAuditFailure != nil {
			l.opts.OnAuditFailure(err)
		}
	}
	return err
}

func (l *AuditLog) Entries(ctx context.Context) ([]model.LogEntry, error) {
	entries, err := l.entries.Load(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return entries, nil
}

// Consume records every entry received from events until the channel is
// closed. Entries still buffered when ctx is cancelled are written anyway.
func (l *AuditLog) Consume(ctx context.Context, events <-chan model.LogEntry) {
	ctx = context.WithoutCancel(ctx)
	for entry := range events {
		_ = l.Record(ctx, entry)
	}
}
