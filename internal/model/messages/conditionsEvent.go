package messages

import (
	"time"

	"github.com/growlab/growlab/internal/model/entities"
)

// ConditionsEvent carries one set of zone readings. The sensor
// simulator publishes raw events; the aggregator republishes window
// averages with Aggregated set.
type ConditionsEvent struct {
	GreenhouseID string              `json:"greenhouse_id"`
	ZoneID       string              `json:"zone_id"`
	Crop         entities.Crop       `json:"crop"`
	Conditions   entities.Conditions `json:"conditions"`
	Aggregated   bool                `json:"aggregated"`
	Timestamp    time.Time           `json:"timestamp"`
}
