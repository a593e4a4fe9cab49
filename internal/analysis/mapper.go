package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/scorelens/scoreboard-gateway/internal/security"
)

// wireTeam decodes only the extraction contract. Team names, foul counts and
// timeout counts are absent from the struct so upstream cannot smuggle them
// through, no matter what shape it sends.
type wireTeam struct {
	Score *int `json:"score"`
}

type wireResult struct {
	HomeTeam   *wireTeam `json:"homeTeam"`
	AwayTeam   *wireTeam `json:"awayTeam"`
	Period     *int      `json:"period"`
	Clock      *string   `json:"clock"`
	Confidence *float64  `json:"confidence"`
	Notes      *string   `json:"notes"`
}

// decodeResult parses an upstream response body into a Result, enforcing the
// field-exclusion invariant and the confidence contract. Free-text fields are
// sanitized before they cross the boundary.
func decodeResult(body []byte) (*Result, error) {
	var wire wireResult
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseShape, err)
	}

	if wire.Confidence == nil {
		return nil, fmt.Errorf("%w: missing confidence", ErrParsing)
	}
	if *wire.Confidence < 0 || *wire.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", ErrParsing, *wire.Confidence)
	}

	res := &Result{
		Confidence: *wire.Confidence,
		Period:     wire.Period,
	}
	if wire.HomeTeam != nil && wire.HomeTeam.Score != nil {
		res.HomeTeam = &TeamScore{Score: wire.HomeTeam.Score}
	}
	if wire.AwayTeam != nil && wire.AwayTeam.Score != nil {
		res.AwayTeam = &TeamScore{Score: wire.AwayTeam.Score}
	}
	if wire.Clock != nil {
		clock := security.SanitizeFreeText(*wire.Clock)
		if clock != "" {
			res.Clock = &clock
		}
	}
	if wire.Notes != nil {
		notes := security.SanitizeFreeText(*wire.Notes)
		if len(notes) > security.DefaultMaxTextLength {
			notes = notes[:security.DefaultMaxTextLength]
		}
		if notes != "" {
			res.Notes = &notes
		}
	}
	return res, nil
}
