package codec

import "github.com/ste616/atca-training-sub001/internal/scandata"

// WriteHeader encodes a scan header field-by-field in declaration order,
// per spec.md §4.D "Structures are emitted field-by-field in the order
// declared in §3."
func (w *Writer) WriteHeader(h *scandata.Header) error {
	if err := w.WriteDouble(h.BaseDate); err != nil {
		return err
	}
	if err := w.WriteDouble(h.UTOffsetSecs); err != nil {
		return err
	}
	if err := w.WriteString(h.ObsType); err != nil {
		return err
	}
	if err := w.WriteString(h.CalCode); err != nil {
		return err
	}
	if err := w.WriteDouble(h.CycleTime); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(len(h.Sources)); err != nil {
		return err
	}
	for _, s := range h.Sources {
		if err := w.WriteString(s.Name); err != nil {
			return err
		}
		if err := w.WriteDouble(s.RA); err != nil {
			return err
		}
		if err := w.WriteDouble(s.Dec); err != nil {
			return err
		}
	}
	if err := w.WriteArrayHeader(len(h.Antennas)); err != nil {
		return err
	}
	for _, a := range h.Antennas {
		if err := w.WriteInt(int64(a.Label)); err != nil {
			return err
		}
		if err := w.WriteString(a.Name); err != nil {
			return err
		}
		if err := w.WriteDouble(a.X); err != nil {
			return err
		}
		if err := w.WriteDouble(a.Y); err != nil {
			return err
		}
		if err := w.WriteDouble(a.Z); err != nil {
			return err
		}
	}
	if err := w.WriteArrayHeader(len(h.IFs)); err != nil {
		return err
	}
	for _, ifr := range h.IFs {
		if err := w.writeIF(ifr); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeIF(ifr scandata.IF) error {
	if err := w.WriteInt(int64(ifr.Label)); err != nil {
		return err
	}
	if err := w.WriteDouble(ifr.CentreFreq); err != nil {
		return err
	}
	if err := w.WriteDouble(ifr.Bandwidth); err != nil {
		return err
	}
	if err := w.WriteInt(int64(ifr.NChannels)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(ifr.NPols)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(ifr.SidebandSign)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(ifr.Chain)); err != nil {
		return err
	}
	return w.WriteStringArray(ifr.Names[:])
}

// ReadHeader decodes a scan header written by WriteHeader.
func (r *Reader) ReadHeader() (*scandata.Header, error) {
	h := &scandata.Header{}
	var err error
	if h.BaseDate, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	if h.UTOffsetSecs, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	if h.ObsType, err = r.ReadString(); err != nil {
		return nil, err
	}
	if h.CalCode, err = r.ReadString(); err != nil {
		return nil, err
	}
	if h.CycleTime, err = r.ReadDouble(); err != nil {
		return nil, err
	}

	nSources, err := r.ReadArrayHeader(-1)
	if err != nil {
		return nil, err
	}
	h.Sources = make([]scandata.SourceEntry, nSources)
	for i := range h.Sources {
		if h.Sources[i].Name, err = r.ReadString(); err != nil {
			return nil, err
		}
		if h.Sources[i].RA, err = r.ReadDouble(); err != nil {
			return nil, err
		}
		if h.Sources[i].Dec, err = r.ReadDouble(); err != nil {
			return nil, err
		}
	}

	nAnts, err := r.ReadArrayHeader(-1)
	if err != nil {
		return nil, err
	}
	h.Antennas = make([]scandata.AntennaEntry, nAnts)
	for i := range h.Antennas {
		label, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		h.Antennas[i].Label = int(label)
		if h.Antennas[i].Name, err = r.ReadString(); err != nil {
			return nil, err
		}
		if h.Antennas[i].X, err = r.ReadDouble(); err != nil {
			return nil, err
		}
		if h.Antennas[i].Y, err = r.ReadDouble(); err != nil {
			return nil, err
		}
		if h.Antennas[i].Z, err = r.ReadDouble(); err != nil {
			return nil, err
		}
	}

	nIFs, err := r.ReadArrayHeader(-1)
	if err != nil {
		return nil, err
	}
	h.IFs = make([]scandata.IF, nIFs)
	for i := range h.IFs {
		if h.IFs[i], err = r.readIF(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (r *Reader) readIF() (scandata.IF, error) {
	var ifr scandata.IF
	label, err := r.ReadInt()
	if err != nil {
		return ifr, err
	}
	ifr.Label = int(label)
	if ifr.CentreFreq, err = r.ReadDouble(); err != nil {
		return ifr, err
	}
	if ifr.Bandwidth, err = r.ReadDouble(); err != nil {
		return ifr, err
	}
	nChan, err := r.ReadInt()
	if err != nil {
		return ifr, err
	}
	ifr.NChannels = int(nChan)
	nPols, err := r.ReadInt()
	if err != nil {
		return ifr, err
	}
	ifr.NPols = int(nPols)
	sign, err := r.ReadInt()
	if err != nil {
		return ifr, err
	}
	ifr.SidebandSign = int(sign)
	chain, err := r.ReadInt()
	if err != nil {
		return ifr, err
	}
	ifr.Chain = int(chain)
	names, err := r.ReadStringArray(3)
	if err != nil {
		return ifr, err
	}
	copy(ifr.Names[:], names)
	return ifr, nil
}

// WriteRecord encodes one correlator record.
func (w *Writer) WriteRecord(rec *scandata.Record) error {
	if err := w.WriteInt(int64(rec.Baseline)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(rec.IFIndex)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(rec.Pol)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(rec.Bin)); err != nil {
		return err
	}
	if err := w.WriteBool(rec.Flagged); err != nil {
		return err
	}
	if err := w.WriteFloat64Array(rec.Raw); err != nil {
		return err
	}
	return w.WriteFloat64Array(rec.Weight)
}

// ReadRecord decodes one correlator record written by WriteRecord.
func (r *Reader) ReadRecord() (scandata.Record, error) {
	var rec scandata.Record
	b, err := r.ReadInt()
	if err != nil {
		return rec, err
	}
	rec.Baseline = int(b)
	ifIndex, err := r.ReadInt()
	if err != nil {
		return rec, err
	}
	rec.IFIndex = int(ifIndex)
	pol, err := r.ReadInt()
	if err != nil {
		return rec, err
	}
	rec.Pol = int(pol)
	bin, err := r.ReadInt()
	if err != nil {
		return rec, err
	}
	rec.Bin = int(bin)
	if rec.Flagged, err = r.ReadBool(); err != nil {
		return rec, err
	}
	if rec.Raw, err = r.ReadFloat64Array(-1); err != nil {
		return rec, err
	}
	if rec.Weight, err = r.ReadFloat64Array(-1); err != nil {
		return rec, err
	}
	return rec, nil
}

// WriteCycle encodes a cycle: its MJD followed by its records.
func (w *Writer) WriteCycle(c *scandata.Cycle) error {
	if err := w.WriteDouble(c.MJD); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(len(c.Records)); err != nil {
		return err
	}
	for i := range c.Records {
		if err := w.WriteRecord(&c.Records[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadCycle decodes a cycle written by WriteCycle.
func (r *Reader) ReadCycle() (*scandata.Cycle, error) {
	c := &scandata.Cycle{}
	var err error
	if c.MJD, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	n, err := r.ReadArrayHeader(-1)
	if err != nil {
		return nil, err
	}
	c.Records = make([]scandata.Record, n)
	for i := range c.Records {
		if c.Records[i], err = r.ReadRecord(); err != nil {
			return nil, err
		}
	}
	return c, nil
}
