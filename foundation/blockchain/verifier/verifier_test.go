package verifier_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/coinjecture/core/foundation/blockchain/verifier"
	"github.com/stretchr/testify/require"
)

// Success and failed markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func mobileBudget(t *testing.T) verifier.Budget {
	b, err := verifier.BudgetForTier(verifier.Mobile)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to get the mobile budget: %v", failed, err)
	}
	return b
}

// =============================================================================

func Test_Verdicts(t *testing.T) {
	problem := verifier.Problem{
		Type:     verifier.SubsetSum,
		Tier:     verifier.Mobile,
		Elements: []int64{3, 7, 11},
		Target:   18,
	}

	type table struct {
		name    string
		indices []uint32
		valid   bool
		ops     uint64
	}

	tt := []table{
		{name: "correct", indices: []uint32{1, 2}, valid: true, ops: 2},
		{name: "reordered", indices: []uint32{2, 1}, valid: true, ops: 2},
		{name: "wrongsum", indices: []uint32{0, 1}, valid: false, ops: 2},
		{name: "firstandlast", indices: []uint32{0, 2}, valid: false, ops: 2},
		{name: "duplicate", indices: []uint32{0, 0}, valid: false, ops: 2},
		{name: "duplicatepadded", indices: []uint32{1, 2, 1}, valid: false, ops: 3},
		{name: "outofrange", indices: []uint32{0, 3}, valid: false, ops: 2},
		{name: "maxindex", indices: []uint32{math.MaxUint32}, valid: false, ops: 1},
		{name: "empty", indices: nil, valid: false, ops: 0},
	}

	t.Log("Given the need to verify subset-sum solutions.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				res, err := verifier.Verify(problem, verifier.Solution{Indices: tst.indices}, mobileBudget(t))
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to verify: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to verify.", success, testID)

				if res.Valid != tst.valid {
					t.Fatalf("\t%s\tTest %d:\tShould get valid %t, got %t.", failed, testID, tst.valid, res.Valid)
				}
				t.Logf("\t%s\tTest %d:\tShould get valid %t.", success, testID, tst.valid)

				if res.OpsUsed != tst.ops {
					t.Fatalf("\t%s\tTest %d:\tShould use %d ops, got %d.", failed, testID, tst.ops, res.OpsUsed)
				}
				t.Logf("\t%s\tTest %d:\tShould use %d ops.", success, testID, tst.ops)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_EmptySolutionZeroTarget(t *testing.T) {
	problem := verifier.Problem{
		Type:     verifier.SubsetSum,
		Tier:     verifier.Mobile,
		Elements: []int64{5, -5},
		Target:   0,
	}

	res, err := verifier.Verify(problem, verifier.Solution{}, mobileBudget(t))
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Zero(t, res.OpsUsed)

	res, err = verifier.Verify(problem, verifier.Solution{Indices: []uint32{0, 1}}, mobileBudget(t))
	require.NoError(t, err)
	require.True(t, res.Valid)
}

func Test_Overflow(t *testing.T) {
	problem := verifier.Problem{
		Type:     verifier.SubsetSum,
		Tier:     verifier.Mobile,
		Elements: []int64{math.MaxInt64, 1, math.MinInt64, -1},
		Target:   math.MaxInt64,
	}

	tt := map[string][]uint32{
		"positive": {0, 1},
		"negative": {2, 3},
	}

	for name, indices := range tt {
		t.Run(name, func(t *testing.T) {
			res, err := verifier.Verify(problem, verifier.Solution{Indices: indices}, mobileBudget(t))
			require.NoError(t, err)
			require.False(t, res.Valid)
		})
	}

	res, err := verifier.Verify(problem, verifier.Solution{Indices: []uint32{0}}, mobileBudget(t))
	require.NoError(t, err)
	require.True(t, res.Valid)
}

func Test_BudgetExceeded(t *testing.T) {
	problem := verifier.Problem{
		Type:     verifier.SubsetSum,
		Tier:     verifier.Mobile,
		Elements: []int64{3, 7, 11},
		Target:   18,
	}

	t.Log("Given the need to bound the work of a verification.")
	{
		_, err := verifier.Verify(problem, verifier.Solution{Indices: []uint32{1, 2}}, verifier.Budget{MaxOps: 1})
		if !errors.Is(err, verifier.ErrBudgetExceeded) {
			t.Fatalf("\t%s\tShould get a budget exceeded error, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould get a budget exceeded error.", success)

		if errors.Is(err, verifier.ErrInvalidInput) {
			t.Fatalf("\t%s\tShould not report budget exhaustion as invalid input.", failed)
		}
		t.Logf("\t%s\tShould not report budget exhaustion as invalid input.", success)

		res, err := verifier.Verify(problem, verifier.Solution{Indices: []uint32{1, 2}}, verifier.Budget{MaxOps: 2})
		if err != nil || !res.Valid {
			t.Fatalf("\t%s\tShould verify with a budget equal to the index count: %v", failed, err)
		}
		t.Logf("\t%s\tShould verify with a budget equal to the index count.", success)
	}
}

func Test_InvalidInput(t *testing.T) {
	elements := func(n int) []int64 {
		e := make([]int64, n)
		for i := range e {
			e[i] = int64(i)
		}
		return e
	}

	tt := map[string]verifier.Problem{
		"problemtype": {Type: 7, Tier: verifier.Mobile, Elements: elements(3)},
		"tier":        {Type: verifier.SubsetSum, Tier: 9, Elements: elements(3)},
		"noelements":  {Type: verifier.SubsetSum, Tier: verifier.Mobile},
		"toomany":     {Type: verifier.SubsetSum, Tier: verifier.Mobile, Elements: elements(13)},
		"toofew":      {Type: verifier.SubsetSum, Tier: verifier.Cluster, Elements: elements(19)},
		"overmax":     {Type: verifier.SubsetSum, Tier: verifier.Cluster, Elements: elements(verifier.MaxElements + 1)},
	}

	for name, p := range tt {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(p, verifier.Solution{Indices: []uint32{0}}, verifier.Budget{MaxOps: 100})
			require.ErrorIs(t, err, verifier.ErrInvalidInput)
		})
	}
}

func Test_Tiers(t *testing.T) {
	var prev verifier.Budget
	for i, tier := range verifier.Tiers() {
		b, err := verifier.BudgetForTier(tier)
		require.NoError(t, err)

		if i > 0 {
			require.Greater(t, b.MaxOps, prev.MaxOps, tier.String())
			require.Greater(t, b.MaxDurationMs, prev.MaxDurationMs, tier.String())
			require.Greater(t, b.MaxMemoryBytes, prev.MaxMemoryBytes, tier.String())
		}
		prev = b

		lo, hi := tier.ElementRange()
		require.LessOrEqual(t, 1, lo)
		require.LessOrEqual(t, lo, hi)
		require.LessOrEqual(t, hi, verifier.MaxElements)

		got, err := verifier.ParseTier(tier.String())
		require.NoError(t, err)
		require.Equal(t, tier, got)
	}

	got, err := verifier.ParseTier("desktop")
	require.NoError(t, err)
	require.Equal(t, verifier.Desktop, got)

	_, err = verifier.ParseTier("laptop")
	require.ErrorIs(t, err, verifier.ErrInvalidInput)

	_, err = verifier.BudgetForTier(verifier.HardwareTier(5))
	require.ErrorIs(t, err, verifier.ErrInvalidInput)

	pt, err := verifier.ParseProblemType("subset_sum")
	require.NoError(t, err)
	require.Equal(t, verifier.SubsetSum, pt)

	_, err = verifier.ParseProblemType("factoring")
	require.ErrorIs(t, err, verifier.ErrInvalidInput)
}

func Test_VerifyForTier(t *testing.T) {
	problem := verifier.Problem{
		Type:     verifier.SubsetSum,
		Tier:     verifier.Desktop,
		Elements: []int64{1, 2, 3, 4, 5, 6, 7, 8},
		Target:   15,
	}

	res, err := verifier.VerifyForTier(problem, verifier.Solution{Indices: []uint32{0, 1, 2, 3, 4}})
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, uint64(5), res.OpsUsed)
}

func Test_ProblemJSON(t *testing.T) {
	full := func() map[string]any {
		return map[string]any{
			"problem_type": "SUBSET_SUM",
			"tier":         "MOBILE",
			"elements":     []int64{3, 7, 11},
			"target":       18,
		}
	}

	t.Log("Given the need to reject problems with absent fields.")
	{
		data, err := json.Marshal(full())
		require.NoError(t, err)

		var p verifier.Problem
		if err := json.Unmarshal(data, &p); err != nil {
			t.Fatalf("\t%s\tShould accept a complete problem: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a complete problem.", success)

		exp := verifier.Problem{Type: verifier.SubsetSum, Tier: verifier.Mobile, Elements: []int64{3, 7, 11}, Target: 18}
		require.Equal(t, exp, p)

		for field := range full() {
			f := func(t *testing.T) {
				doc := full()
				delete(doc, field)

				data, err := json.Marshal(doc)
				require.NoError(t, err)

				var p verifier.Problem
				err = json.Unmarshal(data, &p)
				if !errors.Is(err, verifier.ErrInvalidInput) {
					t.Fatalf("\t%s\tShould reject a problem without %s: %v", failed, field, err)
				}
				t.Logf("\t%s\tShould reject a problem without %s.", success, field)
			}

			t.Run(field, f)
		}

		doc := full()
		doc["difficulty"] = 1

		data, err = json.Marshal(doc)
		require.NoError(t, err)

		err = json.Unmarshal(data, &p)
		if !errors.Is(err, verifier.ErrInvalidInput) {
			t.Fatalf("\t%s\tShould reject an unknown field: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject an unknown field.", success)
	}
}

func Test_ProblemJSONRoundTrip(t *testing.T) {
	p := verifier.Problem{Type: verifier.SubsetSum, Tier: verifier.Desktop, Elements: []int64{-4, 0, 9, 1, 2, 3, 4, 5}, Target: 0, Timestamp: 1704067202}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got verifier.Problem
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, p, got)
}
