package verifier_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/coinjecture/core/foundation/blockchain/verifier"
	"pgregory.net/rapid"
)

func drawProblem(t *rapid.T) verifier.Problem {
	tier := verifier.HardwareTier(rapid.IntRange(0, len(verifier.Tiers())-1).Draw(t, "tier"))
	lo, hi := tier.ElementRange()

	return verifier.Problem{
		Type:     verifier.SubsetSum,
		Tier:     tier,
		Elements: rapid.SliceOfN(rapid.Int64(), lo, hi).Draw(t, "elements"),
		Target:   rapid.Int64().Draw(t, "target"),
	}
}

func TestVerifyTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := drawProblem(t)
		s := verifier.Solution{
			Indices: rapid.SliceOfN(rapid.Uint32Range(0, verifier.MaxElements+4), 0, 64).Draw(t, "indices"),
		}
		b := verifier.Budget{MaxOps: rapid.Uint64Range(0, 80).Draw(t, "maxops")}

		res, err := verifier.Verify(p, s, b)
		switch {
		case err == nil:
			if res.OpsUsed > b.MaxOps {
				t.Fatalf("used %d ops with a budget of %d", res.OpsUsed, b.MaxOps)
			}
			if res.OpsUsed != uint64(len(s.Indices)) {
				t.Fatalf("used %d ops for %d indices", res.OpsUsed, len(s.Indices))
			}

		case errors.Is(err, verifier.ErrBudgetExceeded):
			if uint64(len(s.Indices)) <= b.MaxOps {
				t.Fatalf("budget exceeded with %d indices and %d ops", len(s.Indices), b.MaxOps)
			}

		default:
			t.Fatalf("unexpected error for a well formed problem: %v", err)
		}
	})
}

func TestVerifyDuplicatesInvalid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := drawProblem(t)

		idx := rapid.Uint32Range(0, uint32(len(p.Elements)-1)).Draw(t, "idx")
		rest := rapid.SliceOfN(rapid.Uint32Range(0, uint32(len(p.Elements)-1)), 0, 8).Draw(t, "rest")
		indices := append([]uint32{idx, idx}, rest...)

		res, err := verifier.VerifyForTier(p, verifier.Solution{Indices: indices})
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if res.Valid {
			t.Fatalf("duplicate index %d accepted", idx)
		}
	})
}

func TestVerifyAcceptsConstructedSolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tier := verifier.HardwareTier(rapid.IntRange(0, len(verifier.Tiers())-1).Draw(t, "tier"))
		lo, hi := tier.ElementRange()

		elements := rapid.SliceOfN(rapid.Int64Range(-1<<40, 1<<40), lo, hi).Draw(t, "elements")
		picks := rapid.SliceOfNDistinct(rapid.IntRange(0, len(elements)-1), 0, len(elements), rapid.ID[int]).Draw(t, "picks")

		var target int64
		indices := make([]uint32, len(picks))
		for i, pick := range picks {
			indices[i] = uint32(pick)
			target += elements[pick]
		}

		p := verifier.Problem{Type: verifier.SubsetSum, Tier: tier, Elements: elements, Target: target}

		res, err := verifier.VerifyForTier(p, verifier.Solution{Indices: indices})
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if !res.Valid {
			t.Fatalf("constructed solution rejected")
		}
	})
}

// =============================================================================

func FuzzVerify(f *testing.F) {
	f.Add(uint8(0), uint8(0), []byte{3, 7, 11}, int64(18), []byte{0, 2}, uint64(100))
	f.Add(uint8(0), uint8(0), []byte{3, 7, 11}, int64(18), []byte{0, 0}, uint64(100))
	f.Add(uint8(0), uint8(4), []byte{}, int64(0), []byte{}, uint64(0))
	f.Add(uint8(1), uint8(9), []byte{1}, int64(1), []byte{0}, uint64(1))

	f.Fuzz(func(t *testing.T, problemType uint8, tier uint8, rawElements []byte, target int64, rawIndices []byte, maxOps uint64) {
		elements := make([]int64, 0, len(rawElements)/2+1)
		for i := 0; i+8 <= len(rawElements); i += 8 {
			elements = append(elements, int64(binary.LittleEndian.Uint64(rawElements[i:])))
		}
		for _, b := range rawElements[len(rawElements)-len(rawElements)%8:] {
			elements = append(elements, int64(int8(b)))
		}

		indices := make([]uint32, 0, len(rawIndices))
		for _, b := range rawIndices {
			indices = append(indices, uint32(b))
		}

		p := verifier.Problem{
			Type:     verifier.ProblemType(problemType),
			Tier:     verifier.HardwareTier(tier),
			Elements: elements,
			Target:   target,
		}
		b := verifier.Budget{MaxOps: maxOps}

		res, err := verifier.Verify(p, verifier.Solution{Indices: indices}, b)
		if err != nil {
			if !errors.Is(err, verifier.ErrInvalidInput) && !errors.Is(err, verifier.ErrBudgetExceeded) {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}

		if res.OpsUsed > maxOps {
			t.Fatalf("used %d ops with a budget of %d", res.OpsUsed, maxOps)
		}
	})
}
