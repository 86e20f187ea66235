package snapshot

import (
	"github.com/ste616/atca-training-sub001/internal/codec"
	"github.com/ste616/atca-training-sub001/internal/scandata"
)

func writeValidFloat(w *codec.Writer, v scandata.ValidFloat) error {
	if err := w.WriteBool(v.Valid); err != nil {
		return err
	}
	return w.WriteDouble(v.Value)
}

func readValidFloat(r *codec.Reader) (scandata.ValidFloat, error) {
	var v scandata.ValidFloat
	var err error
	if v.Valid, err = r.ReadBool(); err != nil {
		return v, err
	}
	if v.Value, err = r.ReadDouble(); err != nil {
		return v, err
	}
	return v, nil
}

// writeMetInfo encodes the per-cycle meteorological snapshot field by
// field, in the order declared on scandata.MetInfo.
func writeMetInfo(w *codec.Writer, m scandata.MetInfo) error {
	fields := []scandata.ValidFloat{
		m.Temperature, m.Pressure, m.Humidity, m.WindSpeed,
		m.WindDirection, m.Rain, m.SeeingPhase, m.SeeingRMS,
	}
	for _, f := range fields {
		if err := writeValidFloat(w, f); err != nil {
			return err
		}
	}
	return nil
}

func readMetInfo(r *codec.Reader) (scandata.MetInfo, error) {
	var m scandata.MetInfo
	var err error
	if m.Temperature, err = readValidFloat(r); err != nil {
		return m, err
	}
	if m.Pressure, err = readValidFloat(r); err != nil {
		return m, err
	}
	if m.Humidity, err = readValidFloat(r); err != nil {
		return m, err
	}
	if m.WindSpeed, err = readValidFloat(r); err != nil {
		return m, err
	}
	if m.WindDirection, err = readValidFloat(r); err != nil {
		return m, err
	}
	if m.Rain, err = readValidFloat(r); err != nil {
		return m, err
	}
	if m.SeeingPhase, err = readValidFloat(r); err != nil {
		return m, err
	}
	if m.SeeingRMS, err = readValidFloat(r); err != nil {
		return m, err
	}
	return m, nil
}

// writeSyscalData flattens the three syscal maps into length-prefixed
// row lists, as options.go's modifier encoding does for its antenna/pol
// map. Rows follow map iteration order, which is not fixed; the reader
// rebuilds the maps, so the decoded value does not depend on it.
func writeSyscalData(w *codec.Writer, s scandata.SyscalData) error {
	if err := w.WriteArrayHeader(len(s.ByAntenna)); err != nil {
		return err
	}
	for ant, v := range s.ByAntenna {
		if err := w.WriteInt(int64(ant)); err != nil {
			return err
		}
		if err := w.WriteDouble(v.ParallacticAngle); err != nil {
			return err
		}
		if err := w.WriteDouble(v.TrackErrMax); err != nil {
			return err
		}
		if err := w.WriteDouble(v.TrackErrRMS); err != nil {
			return err
		}
		if err := w.WriteBool(v.CoarseFlag); err != nil {
			return err
		}
	}

	antIFRows := s.AntIFRows()
	if err := w.WriteArrayHeader(len(antIFRows)); err != nil {
		return err
	}
	for _, row := range antIFRows {
		if err := w.WriteInt(int64(row.Ant)); err != nil {
			return err
		}
		if err := w.WriteInt(int64(row.IF)); err != nil {
			return err
		}
		if err := w.WriteDouble(row.XYPhase); err != nil {
			return err
		}
		if err := w.WriteDouble(row.XYAmp); err != nil {
			return err
		}
	}

	antIFPolRows := s.AntIFPolRows()
	if err := w.WriteArrayHeader(len(antIFPolRows)); err != nil {
		return err
	}
	for _, row := range antIFPolRows {
		if err := w.WriteInt(int64(row.Ant)); err != nil {
			return err
		}
		if err := w.WriteInt(int64(row.IF)); err != nil {
			return err
		}
		if err := w.WriteInt(int64(row.Pol)); err != nil {
			return err
		}
		if err := w.WriteDouble(row.OnlineTsys); err != nil {
			return err
		}
		if err := w.WriteBool(row.OnlineApplied); err != nil {
			return err
		}
		if err := w.WriteDouble(row.ComputedTsys); err != nil {
			return err
		}
		if err := w.WriteBool(row.ComputedApplied); err != nil {
			return err
		}
		if err := w.WriteDouble(row.GTP); err != nil {
			return err
		}
		if err := w.WriteDouble(row.SDO); err != nil {
			return err
		}
		if err := w.WriteDouble(row.CALJY); err != nil {
			return err
		}
	}
	return nil
}

func readSyscalData(r *codec.Reader) (scandata.SyscalData, error) {
	s := scandata.NewSyscalData()

	n, err := r.ReadArrayHeader(-1)
	if err != nil {
		return s, err
	}
	for i := 0; i < n; i++ {
		ant, err := r.ReadInt()
		if err != nil {
			return s, err
		}
		var v scandata.AntennaSyscal
		if v.ParallacticAngle, err = r.ReadDouble(); err != nil {
			return s, err
		}
		if v.TrackErrMax, err = r.ReadDouble(); err != nil {
			return s, err
		}
		if v.TrackErrRMS, err = r.ReadDouble(); err != nil {
			return s, err
		}
		if v.CoarseFlag, err = r.ReadBool(); err != nil {
			return s, err
		}
		s.SetAntenna(int(ant), v)
	}

	nIF, err := r.ReadArrayHeader(-1)
	if err != nil {
		return s, err
	}
	for i := 0; i < nIF; i++ {
		ant, err := r.ReadInt()
		if err != nil {
			return s, err
		}
		ifLabel, err := r.ReadInt()
		if err != nil {
			return s, err
		}
		var v scandata.AntIFSyscal
		if v.XYPhase, err = r.ReadDouble(); err != nil {
			return s, err
		}
		if v.XYAmp, err = r.ReadDouble(); err != nil {
			return s, err
		}
		s.SetAntennaIF(int(ant), int(ifLabel), v)
	}

	nPol, err := r.ReadArrayHeader(-1)
	if err != nil {
		return s, err
	}
	for i := 0; i < nPol; i++ {
		ant, err := r.ReadInt()
		if err != nil {
			return s, err
		}
		ifLabel, err := r.ReadInt()
		if err != nil {
			return s, err
		}
		pol, err := r.ReadInt()
		if err != nil {
			return s, err
		}
		var v scandata.AntIFPolSyscal
		if v.OnlineTsys, err = r.ReadDouble(); err != nil {
			return s, err
		}
		if v.OnlineApplied, err = r.ReadBool(); err != nil {
			return s, err
		}
		if v.ComputedTsys, err = r.ReadDouble(); err != nil {
			return s, err
		}
		if v.ComputedApplied, err = r.ReadBool(); err != nil {
			return s, err
		}
		if v.GTP, err = r.ReadDouble(); err != nil {
			return s, err
		}
		if v.SDO, err = r.ReadDouble(); err != nil {
			return s, err
		}
		if v.CALJY, err = r.ReadDouble(); err != nil {
			return s, err
		}
		s.SetAntennaIFPol(int(ant), int(ifLabel), int(pol), v)
	}

	return s, nil
}
