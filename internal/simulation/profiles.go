package simulation

import (
	"fmt"

	"github.com/growlab/growlab/internal/model/entities"
)

// UnknownCropError is returned when a simulation is requested for a
// crop that has no profile in the registry.
type UnknownCropError struct {
	Crop entities.Crop
}

func (e *UnknownCropError) Error() string {
	return fmt.Sprintf("unknown crop %q", string(e.Crop))
}

// LookupProfile resolves the tolerance profile for a crop.
func LookupProfile(crop entities.Crop) (entities.CropProfile, error) {
	p, ok := profiles[crop]
	if !ok {
		return entities.CropProfile{}, &UnknownCropError{Crop: crop}
	}
	return p, nil
}

// Crops lists every crop the registry knows, in a stable order.
func Crops() []entities.Crop {
	return []entities.Crop{
		entities.CropLettuce,
		entities.CropBasil,
		entities.CropTomato,
		entities.CropStrawberry,
		entities.CropSpinach,
	}
}

func rng(min, max, cmin, cmax float64) entities.ParameterRange {
	return entities.ParameterRange{Min: min, Max: max, CriticalMin: &cmin, CriticalMax: &cmax}
}

// profiles is the static crop registry. Read-only after package init;
// units follow Parameter.Unit (EC mS/cm, light lux, CO2 ppm, ...).
var profiles = map[entities.Crop]entities.CropProfile{
	entities.CropLettuce: {
		Name: "Lettuce",
		Optimal: map[entities.Parameter]entities.ParameterRange{
			entities.ParamPH:           rng(5.5, 6.5, 4.0, 8.0),
			entities.ParamEC:           rng(0.8, 1.2, 0.4, 2.0),
			entities.ParamAirTemp:      rng(16, 22, 5, 32),
			entities.ParamSolutionTemp: rng(16, 20, 10, 28),
			entities.ParamLight:        rng(12000, 16000, 4000, 25000),
			entities.ParamCO2:          rng(800, 1200, 300, 2000),
			entities.ParamHumidity:     rng(50, 70, 20, 95),
			entities.ParamWaterLevel:   rng(15, 25, 5, 35),
			entities.ParamOxygen:       rng(6, 10, 3, 14),
		},
		GrowthTime:    entities.GrowthTime{OptimalDays: 50, MaxDays: 80},
		MaxYieldGrams: 450,
	},
	entities.CropBasil: {
		Name: "Basil",
		Optimal: map[entities.Parameter]entities.ParameterRange{
			entities.ParamPH:           rng(5.5, 6.5, 4.5, 7.5),
			entities.ParamEC:           rng(1.0, 1.6, 0.5, 2.5),
			entities.ParamAirTemp:      rng(18, 27, 10, 35),
			entities.ParamSolutionTemp: rng(18, 24, 12, 30),
			entities.ParamLight:        rng(14000, 20000, 5000, 30000),
			entities.ParamCO2:          rng(900, 1400, 350, 2000),
			entities.ParamHumidity:     rng(40, 60, 20, 90),
			entities.ParamWaterLevel:   rng(15, 25, 5, 35),
			entities.ParamOxygen:       rng(6, 10, 3, 14),
		},
		GrowthTime:    entities.GrowthTime{OptimalDays: 60, MaxDays: 95},
		MaxYieldGrams: 350,
	},
	entities.CropTomato: {
		Name: "Tomato",
		Optimal: map[entities.Parameter]entities.ParameterRange{
			entities.ParamPH:           rng(5.8, 6.8, 4.5, 8.0),
			entities.ParamEC:           rng(2.0, 3.5, 1.0, 5.0),
			entities.ParamAirTemp:      rng(20, 27, 8, 38),
			entities.ParamSolutionTemp: rng(18, 24, 10, 30),
			entities.ParamLight:        rng(18000, 25000, 6000, 40000),
			entities.ParamCO2:          rng(1000, 1500, 350, 2200),
			entities.ParamHumidity:     rng(60, 80, 30, 95),
			entities.ParamWaterLevel:   rng(20, 30, 8, 40),
			entities.ParamOxygen:       rng(6, 10, 3, 14),
		},
		GrowthTime:    entities.GrowthTime{OptimalDays: 90, MaxDays: 140},
		MaxYieldGrams: 4000,
	},
	entities.CropStrawberry: {
		Name: "Strawberry",
		Optimal: map[entities.Parameter]entities.ParameterRange{
			entities.ParamPH:           rng(5.5, 6.2, 4.5, 7.5),
			entities.ParamEC:           rng(1.4, 2.0, 0.7, 3.0),
			entities.ParamAirTemp:      rng(15, 26, 5, 35),
			entities.ParamSolutionTemp: rng(15, 22, 8, 28),
			entities.ParamLight:        rng(15000, 22000, 5000, 35000),
			entities.ParamCO2:          rng(800, 1200, 300, 2000),
			entities.ParamHumidity:     rng(65, 75, 35, 95),
			entities.ParamWaterLevel:   rng(15, 25, 5, 35),
			entities.ParamOxygen:       rng(7, 11, 4, 15),
		},
		GrowthTime:    entities.GrowthTime{OptimalDays: 70, MaxDays: 110},
		MaxYieldGrams: 600,
	},
	entities.CropSpinach: {
		Name: "Spinach",
		Optimal: map[entities.Parameter]entities.ParameterRange{
			entities.ParamPH:           rng(6.0, 7.0, 5.0, 8.0),
			entities.ParamEC:           rng(1.8, 2.3, 0.9, 3.5),
			entities.ParamAirTemp:      rng(13, 21, 2, 30),
			entities.ParamSolutionTemp: rng(14, 19, 8, 26),
			entities.ParamLight:        rng(10000, 14000, 3500, 22000),
			entities.ParamCO2:          rng(700, 1100, 300, 1800),
			entities.ParamHumidity:     rng(45, 65, 20, 90),
			entities.ParamWaterLevel:   rng(12, 22, 4, 32),
			entities.ParamOxygen:       rng(6, 10, 3, 14),
		},
		GrowthTime:    entities.GrowthTime{OptimalDays: 45, MaxDays: 70},
		MaxYieldGrams: 300,
	},
}

// OptimalConditions returns a reading at the midpoint of every optimal
// range; useful as a seed for the simulator and in tests.
func OptimalConditions(profile entities.CropProfile) entities.Conditions {
	var c entities.Conditions
	for _, p := range entities.Parameters {
		c.Set(p, profile.Optimal[p].Midpoint())
	}
	return c
}
