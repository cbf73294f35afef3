// Package metrics constructs the metrics the application will track.
package metrics

import (
	"context"
	"expvar"
	"runtime"
)

// This holds the single instance of the metrics value needed for
// collecting metrics. The expvar package is already based on a singleton
// for the different metrics that are registered with the package so there
// isn't much choice here.
var m *metrics

// metrics represents the set of metrics we gather. These fields are
// safe to be accessed concurrently thanks to expvar.
type metrics struct {
	goroutines     *expvar.Int
	requests       *expvar.Int
	errors         *expvar.Int
	panics         *expvar.Int
	verifications  *expvar.Int
	validSolutions *expvar.Int
	budgetExceeded *expvar.Int
	headersHashed  *expvar.Int
}

// init constructs the metrics value that will be used to capture metrics.
// The metrics value is stored in a package level variable since everything
// inside of expvar is registered as a singleton.
func init() {
	m = &metrics{
		goroutines:     expvar.NewInt("goroutines"),
		requests:       expvar.NewInt("requests"),
		errors:         expvar.NewInt("errors"),
		panics:         expvar.NewInt("panics"),
		verifications:  expvar.NewInt("verifications"),
		validSolutions: expvar.NewInt("valid_solutions"),
		budgetExceeded: expvar.NewInt("budget_exceeded"),
		headersHashed:  expvar.NewInt("headers_hashed"),
	}
}

// =============================================================================

// Metrics will be supported through the context.

// ctxKey represents the type of value for the context key.
type ctxKey int

// key is how metric values are stored/retrieved.
const key ctxKey = 1

// Set sets the metrics data into the context.
func Set(ctx context.Context) context.Context {
	return context.WithValue(ctx, key, m)
}

// AddGoroutines refreshes the goroutine metric every 100 requests.
func AddGoroutines(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		if v.requests.Value()%100 == 0 {
			v.goroutines.Set(int64(runtime.NumGoroutine()))
		}
	}
}

// AddRequests increments the request metric by 1.
func AddRequests(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.requests.Add(1)
	}
}

// AddErrors increments the errors metric by 1.
func AddErrors(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.errors.Add(1)
	}
}

// AddPanics increments the panics metric by 1.
func AddPanics(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.panics.Add(1)
	}
}

// AddVerification records a completed verification and its verdict.
func AddVerification(ctx context.Context, valid bool) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.verifications.Add(1)
		if valid {
			v.validSolutions.Add(1)
		}
	}
}

// AddBudgetExceeded increments the budget exceeded metric by 1.
func AddBudgetExceeded(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.budgetExceeded.Add(1)
	}
}

// AddHeadersHashed increments the headers hashed metric by 1.
func AddHeadersHashed(ctx context.Context) {
	if v, ok := ctx.Value(key).(*metrics); ok {
		v.headersHashed.Add(1)
	}
}
