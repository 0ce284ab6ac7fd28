package entities

// Crop is the closed set of cultivable crops. Profile lookup for
// anything outside this set fails with a typed error instead of
// silently proceeding with an undefined profile.
type Crop string

const (
	CropLettuce    Crop = "lettuce"
	CropBasil      Crop = "basil"
	CropTomato     Crop = "tomato"
	CropStrawberry Crop = "strawberry"
	CropSpinach    Crop = "spinach"
)

// GrowthTime bounds the predicted cultivation duration in days.
type GrowthTime struct {
	OptimalDays int `json:"optimal_days"`
	MaxDays     int `json:"max_days"`
}

// CropProfile is the full tolerance profile for one crop: a range per
// measured parameter, growth-time bounds and the yield ceiling under
// ideal conditions. Profiles are built once from the static registry
// and never mutated afterwards.
type CropProfile struct {
	Name          string                       `json:"name"`
	Optimal       map[Parameter]ParameterRange `json:"optimal"`
	GrowthTime    GrowthTime                   `json:"growth_time"`
	MaxYieldGrams float64                      `json:"max_yield_g"`
}
