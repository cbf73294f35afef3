package verifier

import (
	"fmt"
	"strings"
)

// HardwareTier is the closed set of device classes a problem can target.
// Tiers are ordered: a larger value is a more capable class.
type HardwareTier uint8

// Set of hardware tiers.
const (
	Mobile HardwareTier = iota
	Desktop
	Workstation
	Server
	Cluster
)

// tierParams carries the derivation tables for a tier.
type tierParams struct {
	name        string
	minElements int
	maxElements int
	budget      Budget
}

const mib = 1 << 20

// tiers is indexed by HardwareTier. Element ranges overlap so a problem
// sized for a tier boundary is accepted by both neighbours. Every budget
// field grows with the tier.
var tiers = [...]tierParams{
	Mobile:      {name: "MOBILE", minElements: 1, maxElements: 12, budget: Budget{MaxOps: 100_000, MaxDurationMs: 60_000, MaxMemoryBytes: 256 * mib}},
	Desktop:     {name: "DESKTOP", minElements: 8, maxElements: 16, budget: Budget{MaxOps: 1_000_000, MaxDurationMs: 300_000, MaxMemoryBytes: 512 * mib}},
	Workstation: {name: "WORKSTATION", minElements: 12, maxElements: 20, budget: Budget{MaxOps: 10_000_000, MaxDurationMs: 900_000, MaxMemoryBytes: 1024 * mib}},
	Server:      {name: "SERVER", minElements: 16, maxElements: 24, budget: Budget{MaxOps: 100_000_000, MaxDurationMs: 1_800_000, MaxMemoryBytes: 2048 * mib}},
	Cluster:     {name: "CLUSTER", minElements: 20, maxElements: 32, budget: Budget{MaxOps: 1_000_000_000, MaxDurationMs: 3_600_000, MaxMemoryBytes: 4096 * mib}},
}

// MaxElements is the largest element count any tier accepts.
const MaxElements = 32

// Tiers returns every hardware tier in order.
func Tiers() []HardwareTier {
	return []HardwareTier{Mobile, Desktop, Workstation, Server, Cluster}
}

// IsValid reports whether the tier is a member of the closed set.
func (t HardwareTier) IsValid() bool {
	return int(t) < len(tiers)
}

// ElementRange returns the inclusive bounds on the number of elements a
// problem of this tier may carry. The bounds are zero for an unknown tier.
func (t HardwareTier) ElementRange() (lo int, hi int) {
	if !t.IsValid() {
		return 0, 0
	}

	return tiers[t].minElements, tiers[t].maxElements
}

// String implements the fmt.Stringer interface.
func (t HardwareTier) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("TIER(%d)", uint8(t))
	}

	return tiers[t].name
}

// MarshalText implements the encoding.TextMarshaler interface.
func (t HardwareTier) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: unknown tier %d", ErrInvalidInput, uint8(t))
	}

	return []byte(t.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (t *HardwareTier) UnmarshalText(text []byte) error {
	v, err := ParseTier(string(text))
	if err != nil {
		return err
	}

	*t = v
	return nil
}

// ParseTier converts a tier name into a tier. The match is case insensitive.
func ParseTier(s string) (HardwareTier, error) {
	for i, ts := range tiers {
		if strings.EqualFold(s, ts.name) {
			return HardwareTier(i), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown tier %q", ErrInvalidInput, s)
}

// BudgetForTier returns the verification budget for the tier. Every field
// is monotonically non-decreasing in tier order.
func BudgetForTier(t HardwareTier) (Budget, error) {
	if !t.IsValid() {
		return Budget{}, fmt.Errorf("%w: unknown tier %d", ErrInvalidInput, uint8(t))
	}

	return tiers[t].budget, nil
}

// =============================================================================

// ProblemType is the closed set of puzzle kinds.
type ProblemType uint8

// Set of problem types.
const (
	SubsetSum ProblemType = 0
)

// IsValid reports whether the problem type is a member of the closed set.
func (pt ProblemType) IsValid() bool {
	return pt == SubsetSum
}

// String implements the fmt.Stringer interface.
func (pt ProblemType) String() string {
	if pt == SubsetSum {
		return "SUBSET_SUM"
	}

	return fmt.Sprintf("PROBLEM(%d)", uint8(pt))
}

// MarshalText implements the encoding.TextMarshaler interface.
func (pt ProblemType) MarshalText() ([]byte, error) {
	if !pt.IsValid() {
		return nil, fmt.Errorf("%w: unknown problem type %d", ErrInvalidInput, uint8(pt))
	}

	return []byte(pt.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (pt *ProblemType) UnmarshalText(text []byte) error {
	v, err := ParseProblemType(string(text))
	if err != nil {
		return err
	}

	*pt = v
	return nil
}

// ParseProblemType converts a problem type name into a problem type.
func ParseProblemType(s string) (ProblemType, error) {
	switch strings.ToUpper(s) {
	case "SUBSET_SUM", "SUBSETSUM":
		return SubsetSum, nil
	}

	return 0, fmt.Errorf("%w: unknown problem type %q", ErrInvalidInput, s)
}
