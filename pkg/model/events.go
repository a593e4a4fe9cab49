package model

import (
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical event wrapper published on the bus.
type Envelope struct {
	ID            uuid.UUID `json:"id"`
	CorrelationID uuid.UUID `json:"correlation_id"`
	Topic         string    `json:"topic"`
	EventType     string    `json:"event_type"`
	Version       string    `json:"version"`
	Service       string    `json:"service"`
	OccurredAt    time.Time `json:"occurred_at"`
	Payload       any       `json:"payload"`
}

// AnalysisCompleted is emitted after each successful scoreboard analysis.
// It carries extraction output only; never the image, never a credential.
type AnalysisCompleted struct {
	RequestID  string  `json:"request_id"`
	HomeScore  *int    `json:"home_score,omitempty"`
	AwayScore  *int    `json:"away_score,omitempty"`
	Period     *int    `json:"period,omitempty"`
	Clock      *string `json:"clock,omitempty"`
	Confidence float64 `json:"confidence"`
}
