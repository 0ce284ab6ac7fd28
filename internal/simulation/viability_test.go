package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViabilityAllOptimal(t *testing.T) {
	profile := lettuce(t)
	issues := []string{}
	assert.True(t, checkViability(OptimalConditions(profile), profile, &issues))
	assert.Empty(t, issues)
}

// pH 3.5 is below lettuce's critical minimum of 4.
func TestViabilityCriticalViolation(t *testing.T) {
	profile := lettuce(t)
	cond := OptimalConditions(profile)
	cond.PH = 3.5

	issues := []string{}
	assert.False(t, checkViability(cond, profile, &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, "pH 3.5 outside survivable range [4, 8]: risk of death", issues[0])
}

// Sitting exactly on a critical bound is still survivable.
func TestViabilityBoundaryInclusive(t *testing.T) {
	profile := lettuce(t)
	cond := OptimalConditions(profile)
	cond.PH = 4.0

	issues := []string{}
	assert.True(t, checkViability(cond, profile, &issues))
	assert.Empty(t, issues)

	cond.PH = 8.0
	assert.True(t, checkViability(cond, profile, &issues))
	assert.Empty(t, issues)
}

// Every violation is reported; the check never short-circuits.
func TestViabilityReportsAllViolations(t *testing.T) {
	profile := lettuce(t)
	cond := OptimalConditions(profile)
	cond.PH = 3.0  // below critical 4
	cond.EC = 3.0  // above critical 2
	cond.CO2 = 100 // below critical 300

	issues := []string{}
	assert.False(t, checkViability(cond, profile, &issues))
	assert.Len(t, issues, 3)
	// fixed parameter order: pH first, then EC, then CO2
	assert.Contains(t, issues[0], "pH")
	assert.Contains(t, issues[1], "EC")
	assert.Contains(t, issues[2], "CO2")
}
