package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler forwards each record to every child handler that wants
// it, so stdout and the database sink see the same stream. A failing
// child does not block delivery to the others.
type MultiHandler struct {
	children []slog.Handler
}

func NewMultiHandler(children ...slog.Handler) *MultiHandler {
	return &MultiHandler{children: children}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.children {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.children {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	children := make([]slog.Handler, len(m.children))
	for i, h := range m.children {
		children[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{children: children}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	children := make([]slog.Handler, len(m.children))
	for i, h := range m.children {
		children[i] = h.WithGroup(name)
	}
	return &MultiHandler{children: children}
}
