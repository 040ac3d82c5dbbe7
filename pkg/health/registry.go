package health

import (
	"context"
	"sync"
)

// Registry holds the readiness checkers.
type Registry struct {
	checkers []Checker
}

func NewRegistry(checkers ...Checker) *Registry {
	return &Registry{checkers: checkers}
}

// CheckResult is the result of a single named check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReadinessResponse aggregates all checks; it is down if any check is down.
type ReadinessResponse struct {
	Status Status        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// CheckAll runs all registered checkers in parallel.
func (r *Registry) CheckAll(ctx context.Context) ReadinessResponse {
	results := make([]CheckResult, len(r.checkers))

	var wg sync.WaitGroup
	for i, c := range r.checkers {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := c.Check(ctx)
			results[i] = CheckResult{Name: c.Name(), Status: res.Status, Message: res.Message}
		}()
	}
	wg.Wait()

	overall := StatusUp
	for _, res := range results {
		if res.Status == StatusDown {
			overall = StatusDown
			break
		}
	}

	return ReadinessResponse{Status: overall, Checks: results}
}
