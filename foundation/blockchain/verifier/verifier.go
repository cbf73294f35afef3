// Package verifier checks subset-sum solutions under a bounded operation
// budget. Verification is total over adversarial input: a wrong answer is
// a verdict, never an error, and the work performed never exceeds the
// budget's operation ceiling.
package verifier

import (
	"errors"
	"fmt"
	"math"
)

// Set of error variables for verification.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrBudgetExceeded = errors.New("budget exceeded")
)

// Problem represents a subset-sum puzzle. It is constructed from untrusted
// data and its shape is checked on every verification.
type Problem struct {
	Type      ProblemType  `json:"problem_type"`
	Tier      HardwareTier `json:"tier"`
	Elements  []int64      `json:"elements"`
	Target    int64        `json:"target"`
	Timestamp int64        `json:"timestamp"`
}

// Solution represents a claimed answer to a problem: the positions of the
// elements that sum to the target.
type Solution struct {
	Indices   []uint32 `json:"indices"`
	Timestamp int64    `json:"timestamp"`
}

// Budget represents the resources a verification may use. Only MaxOps is
// enforced, the duration and memory fields are advisory.
type Budget struct {
	MaxOps         uint64 `json:"max_ops"`
	MaxDurationMs  uint64 `json:"max_duration_ms"`
	MaxMemoryBytes uint64 `json:"max_memory_bytes"`
}

// Result represents the verdict of a verification.
type Result struct {
	Valid   bool   `json:"valid"`
	OpsUsed uint64 `json:"ops_used"`
}

// =============================================================================

// Verify determines whether the solution answers the problem. An error is
// returned only for malformed problems (ErrInvalidInput) or when the number
// of operations would exceed the budget (ErrBudgetExceeded). Out of range
// indices, duplicate indices and arithmetic overflow produce an invalid
// result.
func Verify(p Problem, s Solution, b Budget) (Result, error) {
	if !p.Type.IsValid() {
		return Result{}, fmt.Errorf("%w: unknown problem type %d", ErrInvalidInput, uint8(p.Type))
	}

	if !p.Tier.IsValid() {
		return Result{}, fmt.Errorf("%w: unknown tier %d", ErrInvalidInput, uint8(p.Tier))
	}

	n := len(p.Elements)
	if n == 0 {
		return Result{}, fmt.Errorf("%w: problem has no elements", ErrInvalidInput)
	}

	lo, hi := p.Tier.ElementRange()
	if n < lo || n > hi {
		return Result{}, fmt.Errorf("%w: %d elements outside %s range [%d, %d]", ErrInvalidInput, n, p.Tier, lo, hi)
	}

	var (
		seen  = newBitmap(n)
		ops   uint64
		sum   int64
		valid = true
	)

	for _, idx := range s.Indices {
		ops++
		if ops > b.MaxOps {
			return Result{}, fmt.Errorf("%w: more than %d operations", ErrBudgetExceeded, b.MaxOps)
		}

		// Bad indices mark the answer wrong. Every index is still walked.
		if uint64(idx) >= uint64(n) {
			valid = false
			continue
		}

		if seen.testAndSet(idx) {
			valid = false
			continue
		}

		next, ok := addInt64(sum, p.Elements[idx])
		if !ok {
			valid = false
			continue
		}
		sum = next
	}

	res := Result{
		Valid:   valid && sum == p.Target,
		OpsUsed: ops,
	}

	return res, nil
}

// VerifyForTier verifies the solution using the budget derived from the
// problem's tier.
func VerifyForTier(p Problem, s Solution) (Result, error) {
	b, err := BudgetForTier(p.Tier)
	if err != nil {
		return Result{}, err
	}

	return Verify(p, s, b)
}

// =============================================================================

// addInt64 returns a+b and false if the addition overflows.
func addInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}

	return a + b, true
}

// bitmap records which element positions have been used.
type bitmap []uint64

func newBitmap(n int) bitmap {
	return make(bitmap, (n+63)/64)
}

// testAndSet marks the position and reports whether it was already marked.
func (bm bitmap) testAndSet(i uint32) bool {
	word, bit := i/64, uint64(1)<<(i%64)
	if bm[word]&bit != 0 {
		return true
	}

	bm[word] |= bit
	return false
}
