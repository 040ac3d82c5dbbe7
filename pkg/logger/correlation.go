package logger

import (
	"context"
	"log/slog"
	"strings"

	"PinGateway/pkg/correlation"
)

const redacted = "[REDACTED]"

// sensitiveKeys never reach the log output with their values.
var sensitiveKeys = map[string]struct{}{
	"authorization": {},
	"secret_key":    {},
	"card_number":   {},
	"number":        {},
	"cvc":           {},
	"card[number]":  {},
	"card[cvc]":     {},
}

// CorrelationHandler tags records with the request correlation ID and masks
// card and credential attributes before they are written. correlation_id is
// always a top-level key, even for loggers derived with WithGroup.
type CorrelationHandler struct {
	root  slog.Handler
	inner slog.Handler
	// ops replays With/WithGroup calls on root when a record needs a
	// top-level correlation_id under an open group.
	ops       []handlerOp
	hasGroups bool
}

type handlerOp struct {
	group string
	attrs []slog.Attr
}

func NewCorrelationHandler(inner slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{root: inner, inner: inner}
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})

	id := correlation.FromContext(ctx)
	if id == "" {
		return h.inner.Handle(ctx, out)
	}
	if !h.hasGroups {
		out.AddAttrs(slog.String("correlation_id", id))
		return h.inner.Handle(ctx, out)
	}

	target := h.root.WithAttrs([]slog.Attr{slog.String("correlation_id", id)})
	for _, op := range h.ops {
		if op.group != "" {
			target = target.WithGroup(op.group)
		} else {
			target = target.WithAttrs(op.attrs)
		}
	}
	return target.Handle(ctx, out)
}

func (h *CorrelationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = redact(a)
	}
	return h.with(handlerOp{attrs: masked}, h.inner.WithAttrs(masked))
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerOp{group: name}, h.inner.WithGroup(name))
}

func (h *CorrelationHandler) with(op handlerOp, inner slog.Handler) *CorrelationHandler {
	ops := make([]handlerOp, len(h.ops), len(h.ops)+1)
	copy(ops, h.ops)
	return &CorrelationHandler{
		root:      h.root,
		inner:     inner,
		ops:       append(ops, op),
		hasGroups: h.hasGroups || op.group != "",
	}
}

func redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]any, len(group))
		for i, g := range group {
			masked[i] = redact(g)
		}
		return slog.Group(a.Key, masked...)
	}
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}
