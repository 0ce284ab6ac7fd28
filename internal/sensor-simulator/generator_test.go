package sensor_simulator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growlab/growlab/internal/model"
	"github.com/growlab/growlab/internal/model/entities"
	"github.com/growlab/growlab/internal/simulation"
)

func testZone() *model.Zone {
	return &model.Zone{GreenhouseID: "gh-1", ID: "z-1", Crop: entities.CropLettuce, AreaM2: 12}
}

func TestGeneratorStaysSurvivable(t *testing.T) {
	profile, err := simulation.LookupProfile(entities.CropLettuce)
	require.NoError(t, err)

	gen := NewConditionsGenerator(profile, rand.New(rand.NewSource(1)))
	zone := testZone()

	for i := 0; i < 200; i++ {
		evt := gen.Next(zone)
		assert.Equal(t, "gh-1", evt.GreenhouseID)
		assert.Equal(t, "z-1", evt.ZoneID)
		assert.False(t, evt.Aggregated)
		for _, p := range entities.Parameters {
			r := profile.Optimal[p]
			v := evt.Conditions.Value(p)
			assert.GreaterOrEqual(t, v, r.CriticalLow(), "param %s", p)
			assert.LessOrEqual(t, v, r.CriticalHigh(), "param %s", p)
		}
	}
}

func TestGeneratorSteersTowardTarget(t *testing.T) {
	profile, err := simulation.LookupProfile(entities.CropLettuce)
	require.NoError(t, err)

	gen := NewConditionsGenerator(profile, rand.New(rand.NewSource(1)))
	zone := testZone()
	gen.Next(zone) // seed

	target := 7.5
	gen.Steer(entities.ParamPH, target, time.Hour)

	// force a measurable elapsed interval for the steering step
	gen.mu.Lock()
	gen.last = gen.last.Add(-10 * time.Minute)
	before := gen.cond.PH
	gen.mu.Unlock()

	after := gen.Next(zone).Conditions.PH
	assert.Less(t, math.Abs(after-target), math.Abs(before-target))
}
