package verifier

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/coinjecture/core/foundation/validate"
)

// problemJSON is the interchange form of a problem. The fields that decide
// the verdict are pointers so an absent field is told apart from a zero one.
type problemJSON struct {
	Type      *ProblemType  `json:"problem_type" validate:"required"`
	Tier      *HardwareTier `json:"tier" validate:"required"`
	Elements  []int64       `json:"elements" validate:"required"`
	Target    *int64        `json:"target" validate:"required"`
	Timestamp int64         `json:"timestamp"`
}

// UnmarshalJSON implements the json.Unmarshaler interface. The problem type,
// tier, elements and target must all be present. Unknown fields are
// rejected.
func (p *Problem) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var pj problemJSON
	if err := decoder.Decode(&pj); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := validate.Check(pj); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	*p = Problem{
		Type:      *pj.Type,
		Tier:      *pj.Tier,
		Elements:  pj.Elements,
		Target:    *pj.Target,
		Timestamp: pj.Timestamp,
	}

	return nil
}
