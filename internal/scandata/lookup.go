package scandata

import "github.com/samber/lo"

// SafeFallbackIF is returned by FindIFByName when no IF matches and the
// caller asked for the safe (non-error) variant.
const SafeFallbackIF = 1

// NotFoundIF is the sentinel returned by FindIFByNameNosafe when no IF
// matches.
const NotFoundIF = -1

// FindIFByName matches name against the symbolic names of each IF in the
// header and returns its 1-based label. If nothing matches, it returns
// the safe fallback of 1 rather than failing, since operators often type
// an IF name that's slightly off and a falling-back tool is friendlier
// than one that errors out under interactive use.
func FindIFByName(h *Header, name string) int {
	if label := findIFLabel(h, name); label != NotFoundIF {
		return label
	}
	return SafeFallbackIF
}

// FindIFByNameNosafe is the strict variant of FindIFByName: it returns
// NotFoundIF instead of falling back to 1.
func FindIFByNameNosafe(h *Header, name string) int {
	return findIFLabel(h, name)
}

func findIFLabel(h *Header, name string) int {
	for i := range h.IFs {
		ifr := &h.IFs[i]
		if lo.Contains(ifr.Names[:], name) {
			return ifr.Label
		}
	}
	return NotFoundIF
}
