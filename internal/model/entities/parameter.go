package entities

// Parameter identifies one of the measured environmental quantities.
type Parameter string

const (
	ParamPH           Parameter = "ph"
	ParamEC           Parameter = "ec"
	ParamAirTemp      Parameter = "air_temp"
	ParamSolutionTemp Parameter = "solution_temp"
	ParamLight        Parameter = "light"
	ParamCO2          Parameter = "co2"
	ParamHumidity     Parameter = "humidity"
	ParamWaterLevel   Parameter = "water_level"
	ParamOxygen       Parameter = "oxygen"
)

// Parameters is the fixed iteration order shared by every component, so
// issues and recommendations come out in a deterministic order.
var Parameters = [9]Parameter{
	ParamPH,
	ParamEC,
	ParamAirTemp,
	ParamSolutionTemp,
	ParamLight,
	ParamCO2,
	ParamHumidity,
	ParamWaterLevel,
	ParamOxygen,
}

// Label returns the display name used in issue and recommendation text.
func (p Parameter) Label() string {
	switch p {
	case ParamPH:
		return "pH"
	case ParamEC:
		return "EC"
	case ParamAirTemp:
		return "air temperature"
	case ParamSolutionTemp:
		return "solution temperature"
	case ParamLight:
		return "light intensity"
	case ParamCO2:
		return "CO2 level"
	case ParamHumidity:
		return "humidity"
	case ParamWaterLevel:
		return "water level"
	case ParamOxygen:
		return "oxygen level"
	}
	return string(p)
}

// Unit returns the measurement unit, empty for dimensionless quantities.
func (p Parameter) Unit() string {
	switch p {
	case ParamEC:
		return "mS/cm"
	case ParamAirTemp, ParamSolutionTemp:
		return "°C"
	case ParamLight:
		return "lux"
	case ParamCO2:
		return "ppm"
	case ParamHumidity:
		return "%"
	case ParamWaterLevel:
		return "cm"
	case ParamOxygen:
		return "mg/l"
	}
	return ""
}
