// Package catalog holds the static station and array-configuration
// tables used to turn an antenna table's raw geocentric coordinates into
// a human-meaningful array signature, per spec.md §4.A array_signature.
package catalog

import "math"

// coordTolerance is the per-axis tolerance, in metres, used when
// matching an antenna's coordinates against the station catalog.
const coordTolerance = 1.0

// Station is one entry in the static station catalog: a named physical
// pad and its geocentric coordinates.
type Station struct {
	Code string
	X, Y, Z float64
}

// stationCatalog is a small fixed table of station pads. Real deployments
// carry dozens of entries; this is representative of the six inner
// stations of a compact array plus the outlying ones used for the
// longest baselines.
var stationCatalog = []Station{
	{Code: "W104", X: -4751640.343, Y: 2791700.556, Z: -3200491.908},
	{Code: "W109", X: -4751639.669, Y: 2791716.457, Z: -3200483.747},
	{Code: "W113", X: -4751645.162, Y: 2791701.758, Z: -3200491.041},
	{Code: "W140", X: -4751653.456, Y: 2791731.000, Z: -3200479.742},
	{Code: "W182", X: -4751726.386, Y: 2791884.902, Z: -3200400.358},
	{Code: "W195", X: -4751753.066, Y: 2791940.976, Z: -3200369.866},
	{Code: "N5",   X: -4751692.600, Y: 2791759.207, Z: -3200491.823},
	{Code: "N7",   X: -4751661.631, Y: 2791717.517, Z: -3200497.862},
}

// arrayConfig names an ordered list of station codes as a known array
// configuration, e.g. a compact-array's "6A"/"750A"/"EW352" naming.
type arrayConfig struct {
	Name     string
	Stations []string
}

var arrayConfigs = []arrayConfig{
	{Name: "6A", Stations: []string{"W104", "W109", "W113", "W140", "W182", "W195"}},
	{Name: "6B", Stations: []string{"W104", "W109", "W113", "W140", "W182", "N5"}},
	{Name: "EW352", Stations: []string{"W104", "W109", "W113", "W140", "N5", "N7"}},
}

// StationForCoords returns the catalog code whose coordinates match the
// given ones within coordTolerance on each axis, or "" if none matches.
func StationForCoords(x, y, z float64) string {
	for _, s := range stationCatalog {
		if closeEnough(x, s.X) && closeEnough(y, s.Y) && closeEnough(z, s.Z) {
			return s.Code
		}
	}
	return ""
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= coordTolerance
}

// ArraySignature maps a slice of (x,y,z) antenna coordinates, in
// antenna-table order, to the ordered list of station codes and the
// name of the matching array configuration (empty string if the ordered
// station list matches no known configuration).
func ArraySignature(coords [][3]float64) (stations []string, configName string) {
	stations = make([]string, len(coords))
	for i, c := range coords {
		stations[i] = StationForCoords(c[0], c[1], c[2])
	}

	for _, cfg := range arrayConfigs {
		if sameOrder(cfg.Stations, stations) {
			return stations, cfg.Name
		}
	}
	return stations, ""
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
