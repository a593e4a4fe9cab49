package analysis

import "time"

// TeamScore carries the extracted score for one side. Team names, foul counts
// and timeout counts are outside the extraction contract and never appear
// here.
type TeamScore struct {
	Score *int `json:"score,omitempty"`
}

// Result is the structured outcome of one scoreboard analysis. Every field
// except Confidence is optional; a semantically empty upstream payload still
// yields a Result with all optional fields absent.
type Result struct {
	HomeTeam   *TeamScore `json:"homeTeam,omitempty"`
	AwayTeam   *TeamScore `json:"awayTeam,omitempty"`
	Period     *int       `json:"period,omitempty"`
	Clock      *string    `json:"clock,omitempty"`
	Confidence float64    `json:"confidence"`
	Notes      *string    `json:"notes,omitempty"`
}

// ClientConfig configures the upstream vision client.
type ClientConfig struct {
	Endpoint string
	Model    string
	Timeout  time.Duration
}
