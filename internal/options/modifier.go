package options

import "sort"

// ModifierKind distinguishes the three kinds of time-windowed
// correction a modifier can carry.
type ModifierKind int

const (
	KindAddDelay ModifierKind = iota
	KindAddPhase
	KindSetNoiseDiodeAmplitude
)

// Modifier is a time-windowed correction valid for MJDs in
// [StartMJD, EndMJD]. Each modifier carries exactly one kind of
// correction; AntPolValue holds the per-antenna, per-pol value table
// for that correction (delay in ns, phase in radians, or amplitude in
// Jy, depending on Kind).
type Modifier struct {
	Kind     ModifierKind
	StartMJD float64
	EndMJD   float64

	// AntPolValue[antenna][pol] holds the correction value. pol is one
	// of PolX, PolY, PolXY.
	AntPolValue map[int][3]float64
}

// Active reports whether the modifier's time window contains mjd.
func (m *Modifier) Active(mjd float64) bool {
	return mjd >= m.StartMJD && mjd <= m.EndMJD
}

// NewModifier creates a zero-initialized modifier of the given kind. If
// template is nil, the new modifier's time bounds are [0, AllTimeEndMJD]
// ("all time"); otherwise the bounds and values are copied from
// template.
func NewModifier(kind ModifierKind, template *Modifier) Modifier {
	if template == nil {
		return Modifier{
			Kind:        kind,
			StartMJD:    0,
			EndMJD:      AllTimeEndMJD,
			AntPolValue: make(map[int][3]float64),
		}
	}
	cp := *template
	cp.Kind = kind
	cp.AntPolValue = make(map[int][3]float64, len(template.AntPolValue))
	for k, v := range template.AntPolValue {
		cp.AntPolValue[k] = v
	}
	return cp
}

// AddModifier pushes a new modifier onto the IF option's modifier list
// and returns its index.
func AddModifier(ifo *IFOption, template *Modifier) int {
	var kind ModifierKind
	if template != nil {
		kind = template.Kind
	}
	ifo.Modifiers = append(ifo.Modifiers, NewModifier(kind, template))
	return len(ifo.Modifiers) - 1
}

// RemoveModifiers removes the listed indices from the IF option's
// modifier list. Indices are removed in descending order internally so
// that earlier indices in the caller's list stay valid even though
// they're taken from a slice that shrinks as we go.
func RemoveModifiers(ifo *IFOption, indices []int) {
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, idx := range sorted {
		if idx < 0 || idx >= len(ifo.Modifiers) {
			continue
		}
		ifo.Modifiers = append(ifo.Modifiers[:idx], ifo.Modifiers[idx+1:]...)
	}
}

// overlaps reports whether two [start,end] windows intersect.
func overlaps(aStart, aEnd, bStart, bEnd float64) bool {
	return aStart <= bEnd && bStart <= aEnd
}

// HasOverlap reports whether the IF option already has a modifier of the
// given kind whose window overlaps [start, end]. It is a query only:
// AddModifier and MergeOptionsSet do not call it, so they can leave two
// modifiers of the same kind with overlapping windows in one IF.
func HasOverlap(ifo *IFOption, kind ModifierKind, start, end float64) bool {
	for _, m := range ifo.Modifiers {
		if m.Kind != kind {
			continue
		}
		if overlaps(m.StartMJD, m.EndMJD, start, end) {
			return true
		}
	}
	return false
}

// FindActive returns the first modifier, in list order, of the given
// kind whose window contains mjd, and true, or the zero Modifier and
// false if none matches. When several modifiers of that kind cover mjd,
// only the first is returned.
func FindActive(ifo *IFOption, kind ModifierKind, mjd float64) (Modifier, bool) {
	for _, m := range ifo.Modifiers {
		if m.Kind == kind && m.Active(mjd) {
			return m, true
		}
	}
	return Modifier{}, false
}
