package simulation

import (
	"math"

	"github.com/growlab/growlab/internal/model/entities"
)

// Growth slows only when temperature, light or CO2 fall BELOW their
// optimal minimum; excess on the high side does not slow growth in this
// model. The asymmetry is intentional.
const (
	slowdownAirTemp = 1.5
	slowdownLight   = 1.3
	slowdownCO2     = 1.2
)

// estimateGrowthDays returns the predicted days to harvest, capped at
// the crop's maximum. The three slowdowns compose multiplicatively.
func estimateGrowthDays(cond entities.Conditions, profile entities.CropProfile) int {
	multiplier := 1.0
	if cond.AirTemp < profile.Optimal[entities.ParamAirTemp].Min {
		multiplier *= slowdownAirTemp
	}
	if cond.Light < profile.Optimal[entities.ParamLight].Min {
		multiplier *= slowdownLight
	}
	if cond.CO2 < profile.Optimal[entities.ParamCO2].Min {
		multiplier *= slowdownCO2
	}

	days := int(math.Round(float64(profile.GrowthTime.OptimalDays) * multiplier))
	if days > profile.GrowthTime.MaxDays {
		days = profile.GrowthTime.MaxDays
	}
	if days < 1 {
		days = 1
	}
	return days
}
