package controller

import (
	"strconv"

	"satmon/internal/modules/dashboard/types"
	"satmon/internal/readings"
)

var propertyCatalog = []types.PropertyInfo{
	{
		Property:  readings.Temperature,
		Code:      readings.Temperature.Code(),
		Label:     "Temperature",
		Unit:      "°C",
		MaxValue:  50,
		Precision: 1,
		TextColor: "text-orange-600",
		BgColor:   "bg-orange-100",
	},
	{
		Property:  readings.Humidity,
		Code:      readings.Humidity.Code(),
		Label:     "Humidity",
		Unit:      "%",
		MaxValue:  100,
		Precision: 1,
		TextColor: "text-blue-600",
		BgColor:   "bg-blue-100",
	},
	{
		Property:  readings.Latitude,
		Code:      readings.Latitude.Code(),
		Label:     "Latitude",
		Unit:      "°",
		MaxValue:  90,
		Precision: 4,
		TextColor: "text-green-600",
		BgColor:   "bg-green-100",
	},
	{
		Property:  readings.Longitude,
		Code:      readings.Longitude.Code(),
		Label:     "Longitude",
		Unit:      "°",
		MaxValue:  180,
		Precision: 4,
		TextColor: "text-purple-600",
		BgColor:   "bg-purple-100",
	},
}

// precisionFor is 4 decimals for coordinates and 1 for everything else.
func precisionFor(p readings.Property) int {
	if p == readings.Latitude || p == readings.Longitude {
		return 4
	}
	return 1
}

func formatReadings(m readings.LatestReadingMap) map[readings.Property]string {
	out := make(map[readings.Property]string, len(m))
	for p, r := range m {
		out[p] = strconv.FormatFloat(r.Value, 'f', precisionFor(p), 64)
	}
	return out
}
