package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growlab/growlab/internal/model/entities"
)

func lettuce(t *testing.T) entities.CropProfile {
	t.Helper()
	p, err := LookupProfile(entities.CropLettuce)
	require.NoError(t, err)
	return p
}

func TestYieldAllOptimal(t *testing.T) {
	profile := lettuce(t)
	issues := []string{}
	pct, dev := evaluateYield(OptimalConditions(profile), profile, &issues)

	assert.Equal(t, 100, pct)
	assert.Empty(t, issues)
	for _, p := range entities.Parameters {
		assert.Zero(t, dev[p], "parameter %s", p)
	}
}

// Lettuce pH: optimal [5.5, 6.5], critical [4, 8], weight 1.2.
// pH 5.0 gives L = (5-4)/(5.5-4) = 2/3, impact = (2/3)^2.2.
func TestYieldSingleDeviation(t *testing.T) {
	profile := lettuce(t)
	cond := OptimalConditions(profile)
	cond.PH = 5.0

	issues := []string{}
	pct, dev := evaluateYield(cond, profile, &issues)

	impact := math.Pow(2.0/3.0, 2.2)
	assert.Equal(t, int(math.Round(impact*100)), pct)
	assert.Equal(t, 41, pct)
	assert.InDelta(t, 1-impact, dev[entities.ParamPH], 1e-12)

	require.Len(t, issues, 1)
	assert.Equal(t, "pH 5 outside optimal range [5.5, 6.5]: yield impact 41%", issues[0])
}

func TestLinearScoreBounds(t *testing.T) {
	r := entities.ParameterRange{Min: 5.5, Max: 6.5}
	cmin, cmax := 4.0, 8.0
	r.CriticalMin, r.CriticalMax = &cmin, &cmax

	for v := -2.0; v <= 12.0; v += 0.25 {
		l := linearScore(v, r)
		assert.GreaterOrEqual(t, l, 0.0, "v=%v", v)
		assert.LessOrEqual(t, l, 1.0, "v=%v", v)

		impact := parameterImpact(entities.ParamPH, l)
		assert.GreaterOrEqual(t, impact, math.Pow(impactFloor, 1+yieldWeights[entities.ParamPH]), "v=%v", v)
		assert.LessOrEqual(t, impact, 1.0, "v=%v", v)
	}
}

func TestLinearScoreBoundaries(t *testing.T) {
	r := entities.ParameterRange{Min: 5.5, Max: 6.5}
	cmin, cmax := 4.0, 8.0
	r.CriticalMin, r.CriticalMax = &cmin, &cmax

	// exactly on the optimal boundary: no penalty at all
	assert.Equal(t, 1.0, linearScore(5.5, r))
	assert.Equal(t, 1.0, linearScore(6.5, r))
	// exactly on the critical boundary: fully degraded but floored
	assert.Equal(t, 0.0, linearScore(4.0, r))
	assert.Equal(t, 0.0, linearScore(8.0, r))
}

// A range with no critical slack must score 0 on the violated side
// instead of dividing by zero.
func TestLinearScoreNoSlack(t *testing.T) {
	r := entities.ParameterRange{Min: 5.5, Max: 6.5}
	assert.Equal(t, 0.0, linearScore(5.0, r))
	assert.Equal(t, 0.0, linearScore(7.0, r))

	// slack on one side only
	cmin := 4.0
	r.CriticalMin = &cmin
	assert.Greater(t, linearScore(5.0, r), 0.0)
	assert.Equal(t, 0.0, linearScore(7.0, r))
}

// Moving farther from the optimal range never increases the impact.
func TestImpactMonotonicity(t *testing.T) {
	r := entities.ParameterRange{Min: 5.5, Max: 6.5}
	cmin, cmax := 4.0, 8.0
	r.CriticalMin, r.CriticalMax = &cmin, &cmax

	prev := 1.0
	for v := 5.5; v >= 3.5; v -= 0.1 {
		impact := parameterImpact(entities.ParamPH, linearScore(v, r))
		assert.LessOrEqual(t, impact, prev+1e-12, "v=%v", v)
		prev = impact
	}
	prev = 1.0
	for v := 6.5; v <= 8.5; v += 0.1 {
		impact := parameterImpact(entities.ParamPH, linearScore(v, r))
		assert.LessOrEqual(t, impact, prev+1e-12, "v=%v", v)
		prev = impact
	}
}

// EC 0.6 and pH 5.0 push both normalized deviations past the coupling
// thresholds, so the extra 0.9 factor applies on top of the individual
// impacts.
func TestYieldInteractionPenalty(t *testing.T) {
	profile := lettuce(t)
	cond := OptimalConditions(profile)
	cond.PH = 5.0 // impact (2/3)^2.2, deviation 0.59
	cond.EC = 0.6 // L = 0.5, impact 0.5^2.5, deviation 0.82

	issues := []string{}
	pct, dev := evaluateYield(cond, profile, &issues)

	assert.Greater(t, dev[entities.ParamEC], interactionECDeviation)
	assert.Greater(t, dev[entities.ParamPH], interactionPHDeviation)

	want := math.Round(math.Pow(2.0/3.0, 2.2) * math.Pow(0.5, 2.5) * interactionFactor * 100)
	assert.Equal(t, int(want), pct)
	assert.Contains(t, issues, "combined pH/EC imbalance: extra 10% yield loss")
}

func TestYieldInteractionNotTriggeredByOneParameter(t *testing.T) {
	profile := lettuce(t)
	cond := OptimalConditions(profile)
	cond.EC = 0.6 // EC deviates alone

	issues := []string{}
	_, dev := evaluateYield(cond, profile, &issues)

	assert.Greater(t, dev[entities.ParamEC], interactionECDeviation)
	assert.Zero(t, dev[entities.ParamPH])
	assert.NotContains(t, issues, "combined pH/EC imbalance: extra 10% yield loss")
}

// Even with every parameter at an absurd extreme the percentage stays
// in [0, 100] thanks to the per-parameter floor.
func TestYieldNeverBelowZero(t *testing.T) {
	profile := lettuce(t)
	cond := entities.Conditions{PH: -5, EC: 100, AirTemp: -40, SolutionTemp: 90,
		Light: -1, CO2: -10, Humidity: 500, WaterLevel: -3, Oxygen: 200}

	issues := []string{}
	pct, _ := evaluateYield(cond, profile, &issues)
	assert.GreaterOrEqual(t, pct, 0)
	assert.LessOrEqual(t, pct, 100)
	assert.Len(t, issues, 10) // nine parameter issues plus the coupling line
}
