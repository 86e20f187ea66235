package options

// MergeOptionsSet merges src into dst in place, used when a client's
// changed options are broadcast to other clients in the same username
// group. For each scalar option field, src's value wins. For modifier
// lists, src's modifiers are concatenated onto dst's, then windows that
// share both a kind and an identical [start,end] are coalesced by
// keeping only the later (src) entry rather than appending a duplicate.
func MergeOptionsSet(dst, src *OptionsSet) {
	dst.PhaseInDegrees = src.PhaseInDegrees
	dst.IncludeFlaggedData = src.IncludeFlaggedData
	dst.ReverseOnline = src.ReverseOnline
	dst.ApplyComputed = src.ApplyComputed
	dst.ApplicableToAny = src.ApplicableToAny
	dst.ReferenceAntenna = src.ReferenceAntenna

	n := len(dst.IFs)
	if len(src.IFs) > n {
		n = len(src.IFs)
	}
	merged := make([]IFOption, n)
	for i := 0; i < n; i++ {
		var d, s IFOption
		if i < len(dst.IFs) {
			d = dst.IFs[i]
		}
		if i < len(src.IFs) {
			s = src.IFs[i]
		}
		merged[i] = mergeIFOption(d, s, i < len(src.IFs))
	}
	dst.IFs = merged
}

func mergeIFOption(dst, src IFOption, haveSrc bool) IFOption {
	if !haveSrc {
		return dst
	}

	out := dst
	// The matching triple stays whatever the set was already matched
	// against; everything else that's a per-IF computation choice comes
	// from src.
	out.MinTVChannel = src.MinTVChannel
	out.MaxTVChannel = src.MaxTVChannel
	out.DelayAveragingN = src.DelayAveragingN
	out.AveragingMethod = src.AveragingMethod

	out.Modifiers = coalesceModifiers(append(append([]Modifier(nil), dst.Modifiers...), src.Modifiers...))
	return out
}

// coalesceModifiers concatenates are already done by the caller; this
// walks the combined list keeping, for each (kind, start, end) key, only
// the last occurrence - i.e. src's copy overwrites dst's for identical
// windows instead of the list growing a duplicate.
func coalesceModifiers(all []Modifier) []Modifier {
	type key struct {
		kind       ModifierKind
		start, end float64
	}
	order := make([]key, 0, len(all))
	byKey := make(map[key]Modifier, len(all))
	for _, m := range all {
		k := key{m.Kind, m.StartMJD, m.EndMJD}
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = m
	}
	out := make([]Modifier, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}
