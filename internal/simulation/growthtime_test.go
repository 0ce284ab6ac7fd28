package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowthTimeAllOptimal(t *testing.T) {
	profile := lettuce(t)
	assert.Equal(t, profile.GrowthTime.OptimalDays,
		estimateGrowthDays(OptimalConditions(profile), profile))
}

func TestGrowthTimeColdAir(t *testing.T) {
	profile := lettuce(t) // optimal 50 days, air temp min 16
	cond := OptimalConditions(profile)
	cond.AirTemp = 10

	assert.Equal(t, 75, estimateGrowthDays(cond, profile)) // 50 * 1.5
}

// Cold air and dim light compose: 50 * 1.5 * 1.3 = 97.5 -> 98, capped
// at the crop maximum of 80.
func TestGrowthTimeCappedAtMax(t *testing.T) {
	profile := lettuce(t)
	cond := OptimalConditions(profile)
	cond.AirTemp = 10
	cond.Light = 5000

	assert.Equal(t, profile.GrowthTime.MaxDays, estimateGrowthDays(cond, profile))
}

func TestGrowthTimeAllThreeSlowdowns(t *testing.T) {
	profile := lettuce(t)
	cond := OptimalConditions(profile)
	cond.AirTemp = 10
	cond.Light = 5000
	cond.CO2 = 400

	days := estimateGrowthDays(cond, profile)
	assert.Equal(t, profile.GrowthTime.MaxDays, days)
	assert.LessOrEqual(t, days, profile.GrowthTime.MaxDays)
	assert.GreaterOrEqual(t, days, 1)
}

// Exceeding the optimal maximum does not slow growth; the penalty is
// one-sided on purpose.
func TestGrowthTimeNoPenaltyAboveMax(t *testing.T) {
	profile := lettuce(t)
	cond := OptimalConditions(profile)
	cond.AirTemp = 30    // above optimal max 22
	cond.Light = 24000   // above optimal max 16000
	cond.CO2 = 1900      // above optimal max 1200

	assert.Equal(t, profile.GrowthTime.OptimalDays, estimateGrowthDays(cond, profile))
}
