// Package health exposes liveness and readiness endpoints for the gateway service.
package health

import (
	"context"
	"time"
)

const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker checks one upstream dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a plain function into a named Checker.
type CheckerFunc struct {
	ID string
	Fn func(ctx context.Context) Result
}

func (f CheckerFunc) Name() string { return f.ID }

func (f CheckerFunc) Check(ctx context.Context) Result { return f.Fn(ctx) }
