package codec

import "github.com/ste616/atca-training-sub001/internal/kernel"

// WriteVisQuantities encodes a cycle's scalar reduction.
func (w *Writer) WriteVisQuantities(vq *kernel.VisQuantities) error {
	if err := w.WriteInt(int64(vq.IFIndex)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(vq.Pol)); err != nil {
		return err
	}
	if err := w.WriteDouble(vq.MJD); err != nil {
		return err
	}
	if err := w.WriteDouble(vq.AmpMin); err != nil {
		return err
	}
	if err := w.WriteDouble(vq.AmpMax); err != nil {
		return err
	}
	if err := w.WriteDouble(vq.PhaseMin); err != nil {
		return err
	}
	if err := w.WriteDouble(vq.PhaseMax); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(len(vq.Baselines)); err != nil {
		return err
	}
	for _, bv := range vq.Baselines {
		if err := w.writeBaselineVis(bv); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeBaselineVis(bv kernel.BaselineVis) error {
	if err := w.WriteInt(int64(bv.Baseline)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(bv.Bin)); err != nil {
		return err
	}
	if err := w.WriteDouble(bv.Amp); err != nil {
		return err
	}
	if err := w.WriteDouble(bv.Phase); err != nil {
		return err
	}
	if err := w.WriteDouble(bv.Delay[0]); err != nil {
		return err
	}
	if err := w.WriteDouble(bv.Delay[1]); err != nil {
		return err
	}
	return w.WriteBool(bv.FlaggedBad)
}

// ReadVisQuantities decodes a value written by WriteVisQuantities.
func (r *Reader) ReadVisQuantities() (*kernel.VisQuantities, error) {
	vq := &kernel.VisQuantities{}
	ifIndex, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	vq.IFIndex = int(ifIndex)
	pol, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	vq.Pol = int(pol)
	if vq.MJD, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	if vq.AmpMin, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	if vq.AmpMax, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	if vq.PhaseMin, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	if vq.PhaseMax, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	n, err := r.ReadArrayHeader(-1)
	if err != nil {
		return nil, err
	}
	vq.Baselines = make([]kernel.BaselineVis, n)
	for i := range vq.Baselines {
		if vq.Baselines[i], err = r.readBaselineVis(); err != nil {
			return nil, err
		}
	}
	return vq, nil
}

func (r *Reader) readBaselineVis() (kernel.BaselineVis, error) {
	var bv kernel.BaselineVis
	b, err := r.ReadInt()
	if err != nil {
		return bv, err
	}
	bv.Baseline = int(b)
	bin, err := r.ReadInt()
	if err != nil {
		return bv, err
	}
	bv.Bin = int(bin)
	if bv.Amp, err = r.ReadDouble(); err != nil {
		return bv, err
	}
	if bv.Phase, err = r.ReadDouble(); err != nil {
		return bv, err
	}
	if bv.Delay[0], err = r.ReadDouble(); err != nil {
		return bv, err
	}
	if bv.Delay[1], err = r.ReadDouble(); err != nil {
		return bv, err
	}
	if bv.FlaggedBad, err = r.ReadBool(); err != nil {
		return bv, err
	}
	return bv, nil
}
