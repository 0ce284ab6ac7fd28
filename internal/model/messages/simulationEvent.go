package messages

import (
	"time"

	"github.com/growlab/growlab/internal/model/entities"
)

// SimulationEvent is published by the simulator service to record WHAT
// the engine predicted for a zone and WHY.
type SimulationEvent struct {
	ID           string        `json:"id"`
	GreenhouseID string        `json:"greenhouse_id"`
	ZoneID       string        `json:"zone_id"`
	Crop         entities.Crop `json:"crop"`

	Viable          bool     `json:"viable"`
	YieldPct        int      `json:"yield_pct"`
	ExpectedGrams   int      `json:"expected_grams"`
	YieldKgM2       float64  `json:"yield_kg_m2"`
	ProjectedKg     float64  `json:"projected_kg,omitempty"` // YieldKgM2 * zone area
	GrowthDays      int      `json:"growth_days"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`

	Timestamp time.Time `json:"timestamp"`
}
