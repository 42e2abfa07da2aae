package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// UseCaseEvent describes one finished engine write: which use case ran, how
// long it took and the identifiers it touched.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
}

// UseCaseObserver receives an event after every session or assignment write.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// NewLogUseCaseObserver writes events as logfmt lines to w.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// NewSlogUseCaseObserver records events on an existing logger. Failures are
// logged at error level except for expected rejections, which log at warn.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

type logUseCaseObserver struct {
	logger *slog.Logger
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 10+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	// Sorted so repeated events produce identical lines.
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, k, event.Fields[k])
	}
	if event.Err == nil {
		o.logger.InfoContext(ctx, "service_use_case", attrs...)
		return
	}

	kind := errorKind(event.Err)
	attrs = append(attrs, "error_kind", kind, "error", event.Err.Error())
	if kind == "persistence" || kind == "internal" {
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.WarnContext(ctx, "service_use_case", attrs...)
}

// errorKind classifies a use-case error by the domain error it matches.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyActive):
		return "already_active"
	case errors.Is(err, domain.ErrSessionClosed):
		return "session_closed"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence"
	}
	return "internal"
}

func useCaseObserverOrNoop(observer UseCaseObserver) UseCaseObserver {
	if observer == nil {
		return NoopUseCaseObserver{}
	}
	return observer
}

// useCase times one service call. Callers defer finish with their named
// error result.
type useCase struct {
	observer UseCaseObserver
	name     string
	started  time.Time
	fields   map[string]any
}

func (o options) begin(name string, fields map[string]any) *useCase {
	if fields == nil {
		fields = map[string]any{}
	}
	return &useCase{observer: o.observer, name: name, started: time.Now(), fields: fields}
}

func (u *useCase) set(key string, value any) {
	u.fields[key] = value
}

func (u *useCase) finish(ctx context.Context, err error) {
	u.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      u.name,
		StartedAt: u.started,
		Duration:  time.Since(u.started),
		Success:   err == nil,
		Err:       err,
		Fields:    u.fields,
	})
}
