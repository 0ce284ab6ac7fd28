package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/growlab/growlab/internal/model/entities"
	"github.com/growlab/growlab/internal/model/messages"
)

func reading(ph, ec float64) messages.ConditionsEvent {
	return messages.ConditionsEvent{
		GreenhouseID: "gh-1",
		ZoneID:       "z-1",
		Crop:         entities.CropBasil,
		Conditions:   entities.Conditions{PH: ph, EC: ec, AirTemp: 20, Light: 15000},
		Timestamp:    time.Now(),
	}
}

func TestAggregateAveragesEveryParameter(t *testing.T) {
	out := aggregate([]messages.ConditionsEvent{
		reading(5.0, 1.0),
		reading(7.0, 2.0),
	})

	assert.Equal(t, "gh-1", out.GreenhouseID)
	assert.Equal(t, "z-1", out.ZoneID)
	assert.Equal(t, entities.CropBasil, out.Crop)
	assert.True(t, out.Aggregated)
	assert.InDelta(t, 6.0, out.Conditions.PH, 1e-9)
	assert.InDelta(t, 1.5, out.Conditions.EC, 1e-9)
	assert.InDelta(t, 20.0, out.Conditions.AirTemp, 1e-9)
	assert.InDelta(t, 15000.0, out.Conditions.Light, 1e-9)
	assert.InDelta(t, 0.0, out.Conditions.Oxygen, 1e-9)
}

func TestAggregateSingleReadingIsIdentity(t *testing.T) {
	in := reading(6.1, 1.3)
	out := aggregate([]messages.ConditionsEvent{in})
	assert.Equal(t, in.Conditions, out.Conditions)
}
