package entities

// Conditions is one full set of measured environmental readings for a
// zone. Any real number is accepted for every field; scoring, not
// validation, decides what the values mean.
type Conditions struct {
	PH           float64 `json:"ph"`
	EC           float64 `json:"ec"`
	AirTemp      float64 `json:"air_temp"`
	SolutionTemp float64 `json:"solution_temp"`
	Light        float64 `json:"light"`
	CO2          float64 `json:"co2"`
	Humidity     float64 `json:"humidity"`
	WaterLevel   float64 `json:"water_level"`
	Oxygen       float64 `json:"oxygen"`
}

// Value returns the reading for p.
func (c Conditions) Value(p Parameter) float64 {
	switch p {
	case ParamPH:
		return c.PH
	case ParamEC:
		return c.EC
	case ParamAirTemp:
		return c.AirTemp
	case ParamSolutionTemp:
		return c.SolutionTemp
	case ParamLight:
		return c.Light
	case ParamCO2:
		return c.CO2
	case ParamHumidity:
		return c.Humidity
	case ParamWaterLevel:
		return c.WaterLevel
	case ParamOxygen:
		return c.Oxygen
	}
	return 0
}

// Set stores the reading for p.
func (c *Conditions) Set(p Parameter, v float64) {
	switch p {
	case ParamPH:
		c.PH = v
	case ParamEC:
		c.EC = v
	case ParamAirTemp:
		c.AirTemp = v
	case ParamSolutionTemp:
		c.SolutionTemp = v
	case ParamLight:
		c.Light = v
	case ParamCO2:
		c.CO2 = v
	case ParamHumidity:
		c.Humidity = v
	case ParamWaterLevel:
		c.WaterLevel = v
	case ParamOxygen:
		c.Oxygen = v
	}
}
