package codec

import "github.com/ste616/atca-training-sub001/internal/options"

// WriteModifier encodes one time-windowed modifier.
func (w *Writer) WriteModifier(m *options.Modifier) error {
	if err := w.WriteInt(int64(m.Kind)); err != nil {
		return err
	}
	if err := w.WriteDouble(m.StartMJD); err != nil {
		return err
	}
	if err := w.WriteDouble(m.EndMJD); err != nil {
		return err
	}
	// AntPolValue is keyed by antenna; emit as a length-prefixed list of
	// (antenna, x, y, xy) rows. Rows follow Go's map iteration order,
	// which is not fixed, so the bytes can differ between runs; the
	// reader rebuilds the map, so the decoded value does not.
	if err := w.WriteArrayHeader(len(m.AntPolValue)); err != nil {
		return err
	}
	for ant, v := range m.AntPolValue {
		if err := w.WriteInt(int64(ant)); err != nil {
			return err
		}
		if err := w.WriteDouble(v[0]); err != nil {
			return err
		}
		if err := w.WriteDouble(v[1]); err != nil {
			return err
		}
		if err := w.WriteDouble(v[2]); err != nil {
			return err
		}
	}
	return nil
}

// ReadModifier decodes a modifier written by WriteModifier.
func (r *Reader) ReadModifier() (options.Modifier, error) {
	var m options.Modifier
	kind, err := r.ReadInt()
	if err != nil {
		return m, err
	}
	m.Kind = options.ModifierKind(kind)
	if m.StartMJD, err = r.ReadDouble(); err != nil {
		return m, err
	}
	if m.EndMJD, err = r.ReadDouble(); err != nil {
		return m, err
	}
	n, err := r.ReadArrayHeader(-1)
	if err != nil {
		return m, err
	}
	m.AntPolValue = make(map[int][3]float64, n)
	for i := 0; i < n; i++ {
		ant, err := r.ReadInt()
		if err != nil {
			return m, err
		}
		var v [3]float64
		for k := 0; k < 3; k++ {
			if v[k], err = r.ReadDouble(); err != nil {
				return m, err
			}
		}
		m.AntPolValue[int(ant)] = v
	}
	return m, nil
}

// WriteIFOption encodes one IF's option block.
func (w *Writer) WriteIFOption(ifo *options.IFOption) error {
	if err := w.WriteDouble(ifo.CentreFreq); err != nil {
		return err
	}
	if err := w.WriteDouble(ifo.Bandwidth); err != nil {
		return err
	}
	if err := w.WriteInt(int64(ifo.NChannels)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(ifo.MinTVChannel)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(ifo.MaxTVChannel)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(ifo.DelayAveragingN)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(ifo.AveragingMethod)); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(len(ifo.Modifiers)); err != nil {
		return err
	}
	for i := range ifo.Modifiers {
		if err := w.WriteModifier(&ifo.Modifiers[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadIFOption decodes an IF option block written by WriteIFOption.
func (r *Reader) ReadIFOption() (options.IFOption, error) {
	var ifo options.IFOption
	var err error
	if ifo.CentreFreq, err = r.ReadDouble(); err != nil {
		return ifo, err
	}
	if ifo.Bandwidth, err = r.ReadDouble(); err != nil {
		return ifo, err
	}
	nChan, err := r.ReadInt()
	if err != nil {
		return ifo, err
	}
	ifo.NChannels = int(nChan)
	minTV, err := r.ReadInt()
	if err != nil {
		return ifo, err
	}
	ifo.MinTVChannel = int(minTV)
	maxTV, err := r.ReadInt()
	if err != nil {
		return ifo, err
	}
	ifo.MaxTVChannel = int(maxTV)
	avgN, err := r.ReadInt()
	if err != nil {
		return ifo, err
	}
	ifo.DelayAveragingN = int(avgN)
	method, err := r.ReadInt()
	if err != nil {
		return ifo, err
	}
	ifo.AveragingMethod = int(method)

	n, err := r.ReadArrayHeader(-1)
	if err != nil {
		return ifo, err
	}
	ifo.Modifiers = make([]options.Modifier, n)
	for i := range ifo.Modifiers {
		if ifo.Modifiers[i], err = r.ReadModifier(); err != nil {
			return ifo, err
		}
	}
	return ifo, nil
}

// WriteOptionsSet encodes a full options set.
func (w *Writer) WriteOptionsSet(o *options.OptionsSet) error {
	if err := w.WriteBool(o.PhaseInDegrees); err != nil {
		return err
	}
	if err := w.WriteBool(o.IncludeFlaggedData); err != nil {
		return err
	}
	if err := w.WriteBool(o.ReverseOnline); err != nil {
		return err
	}
	if err := w.WriteBool(o.ApplyComputed); err != nil {
		return err
	}
	if err := w.WriteBool(o.ApplicableToAny); err != nil {
		return err
	}
	if err := w.WriteInt(int64(o.ReferenceAntenna)); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(len(o.IFs)); err != nil {
		return err
	}
	for i := range o.IFs {
		if err := w.WriteIFOption(&o.IFs[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadOptionsSet decodes an options set written by WriteOptionsSet.
func (r *Reader) ReadOptionsSet() (*options.OptionsSet, error) {
	o := &options.OptionsSet{}
	var err error
	if o.PhaseInDegrees, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if o.IncludeFlaggedData, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if o.ReverseOnline, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if o.ApplyComputed, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if o.ApplicableToAny, err = r.ReadBool(); err != nil {
		return nil, err
	}
	refAnt, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	o.ReferenceAntenna = int(refAnt)

	n, err := r.ReadArrayHeader(-1)
	if err != nil {
		return nil, err
	}
	o.IFs = make([]options.IFOption, n)
	for i := range o.IFs {
		if o.IFs[i], err = r.ReadIFOption(); err != nil {
			return nil, err
		}
	}
	return o, nil
}
