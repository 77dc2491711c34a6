package domain

// Element is a canonical column name within one station's block of columns.
type Element string

// 10-minute and hourly elements.
const (
	StationPressure      Element = "station_pressure"
	SeaLevelPressure     Element = "sea_level_pressure"
	Precipitation        Element = "precipitation"
	Temperature          Element = "temperature"
	DewPoint             Element = "dew_point"
	WaterVaporPressure   Element = "water_vapor_pressure"
	RelativeHumidity     Element = "rh"
	MeanWindSpeed        Element = "mean_ws"
	MeanWindDirection    Element = "mean_wd"
	InstantaneousWindSpd Element = "instantaneous_ws"
	InstantaneousWindDir Element = "instantaneous_wd"
	SunshineHours        Element = "sunshine_hours"
	GlobalSolarRadiation Element = "global_solar_radiation"
	SnowFall             Element = "snow_fall"
	SnowDepth            Element = "snow_depth"
	CloudCover           Element = "cloud_cover"
	Visibility           Element = "visibility"
)

// Daily elements.
const (
	MeanStationPressure     Element = "mean_station_pressure"
	MeanSeaLevelPressure    Element = "mean_sea_level_pressure"
	TotalPrecipitation      Element = "total_precipitation"
	MaxHourlyPrecipitation  Element = "max_hourly_precipitation"
	Max10MinPrecipitation   Element = "max_10min_precipitation"
	MeanTemperature         Element = "mean_temperature"
	HighestTemperature      Element = "highest_temperature"
	LowestTemperature       Element = "lowest_temperature"
	MeanRelativeHumidity    Element = "mean_rh"
	MinRelativeHumidity     Element = "min_rh"
	MaxWindSpeed            Element = "max_ws"
	MaxWindDirection        Element = "max_wd"
	MaxInstantaneousWindSpd Element = "max_instantaneous_ws"
	MaxInstantaneousWindDir Element = "max_instantaneous_wd"
	MostFrequentWindDir     Element = "most_frequent_wd"
	TotalSnowFall           Element = "total_snow_fall"
	MaxSnowDepth            Element = "max_snow_depth"
)

// TenMinuteElements is the canonical 10-minute schema.
var TenMinuteElements = []Element{
	StationPressure,
	SeaLevelPressure,
	Precipitation,
	Temperature,
	RelativeHumidity,
	MeanWindSpeed,
	MeanWindDirection,
	InstantaneousWindSpd,
	InstantaneousWindDir,
	SunshineHours,
}

// HourlyElements is the canonical hourly schema.
var HourlyElements = []Element{
	StationPressure,
	SeaLevelPressure,
	Precipitation,
	Temperature,
	DewPoint,
	WaterVaporPressure,
	RelativeHumidity,
	MeanWindSpeed,
	MeanWindDirection,
	SunshineHours,
	GlobalSolarRadiation,
	SnowFall,
	SnowDepth,
	CloudCover,
	Visibility,
}

// DailyElements is the canonical daily schema.
var DailyElements = []Element{
	MeanStationPressure,
	MeanSeaLevelPressure,
	TotalPrecipitation,
	MaxHourlyPrecipitation,
	Max10MinPrecipitation,
	MeanTemperature,
	HighestTemperature,
	LowestTemperature,
	MeanRelativeHumidity,
	MinRelativeHumidity,
	MeanWindSpeed,
	MaxWindSpeed,
	MaxWindDirection,
	MaxInstantaneousWindSpd,
	MaxInstantaneousWindDir,
	MostFrequentWindDir,
	SunshineHours,
	TotalSnowFall,
	MaxSnowDepth,
}

var windDirectionElements = map[Element]bool{
	MeanWindDirection:       true,
	InstantaneousWindDir:    true,
	MaxWindDirection:        true,
	MaxInstantaneousWindDir: true,
	MostFrequentWindDir:     true,
}

// IsWindDirection reports whether e holds compass directions.
func (e Element) IsWindDirection() bool { return windDirectionElements[e] }
