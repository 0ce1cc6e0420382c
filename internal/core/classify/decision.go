package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decision is the classification outcome. The zero value is Unmatched so
// an unset decision never reads as a confident match
type Decision uint8

const (
	// DecisionUnmatched means no reference cleared the match threshold
	DecisionUnmatched Decision = iota

	// DecisionMatched means one reference cleared threshold and margin
	DecisionMatched

	// DecisionAmbiguous means the two best references are within the
	// minimum margin of each other, both are surfaced in Candidates
	DecisionAmbiguous
)

// ParseDecision maps wire spellings onto the enum
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unmatched":
		return DecisionUnmatched, nil
	case "matched":
		return DecisionMatched, nil
	case "ambiguous":
		return DecisionAmbiguous, nil
	default:
		return DecisionUnmatched, fmt.Errorf("classify: unknown decision %q", s)
	}
}

// String returns the wire spelling
func (d Decision) String() string {
	switch d {
	case DecisionMatched:
		return "matched"
	case DecisionAmbiguous:
		return "ambiguous"
	default:
		return "unmatched"
	}
}

// MarshalJSON emits the wire spelling
func (d Decision) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalJSON accepts any spelling ParseDecision does
func (d *Decision) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseDecision(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
