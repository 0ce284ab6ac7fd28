package messages

import (
	"time"

	"github.com/growlab/growlab/internal/model/entities"
)

// CorrectionEvent asks a zone to steer one parameter toward a target
// value for a limited time, after which it resumes free drift.
type CorrectionEvent struct {
	GreenhouseID string             `json:"greenhouse_id"`
	ZoneID       string             `json:"zone_id"`
	Parameter    entities.Parameter `json:"parameter"`
	Target       float64            `json:"target"`
	Duration     time.Duration      `json:"duration"`
	Timestamp    time.Time          `json:"timestamp"`
}
