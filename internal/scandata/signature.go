package scandata

import "github.com/ste616/atca-training-sub001/internal/catalog"

// ArraySignature maps the header's antennas, in antenna-table order, to a
// station-name list and the name of the matching array configuration
// (empty if the ordered list isn't a known configuration).
func (h *Header) ArraySignature() (stations []string, configName string) {
	coords := make([][3]float64, len(h.Antennas))
	for i, a := range h.Antennas {
		coords[i] = [3]float64{a.X, a.Y, a.Z}
	}
	return catalog.ArraySignature(coords)
}
