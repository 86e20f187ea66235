// Package snapshot implements on-disk dump/load of a vis_data history,
// per spec.md §4.G, with the same codec as the wire. The file holds the
// scan header, then the MJD bounds, then the cycle count followed by,
// for each cycle, its records, its IF/pol vis-quantities, its met table
// and its syscal table, then the options sets. It does not begin with
// the cycle count, and the met and syscal tables are not grouped after
// all cycles.
package snapshot

import (
	"fmt"
	"os"

	"github.com/ste616/atca-training-sub001/internal/codec"
	"github.com/ste616/atca-training-sub001/internal/errs"
	"github.com/ste616/atca-training-sub001/internal/kernel"
	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/scandata"
)

// CycleData is one cycle's worth of history: the raw cycle (kept so a
// reload can recompute with different options), its reduced
// vis-quantities per IF per pol, and its ancillary tables.
type CycleData struct {
	Cycle  *scandata.Cycle
	VisQ   []*kernel.VisQuantities // one per (IF, pol) combination computed for this cycle
	Met    scandata.MetInfo
	Syscal scandata.SyscalData
}

// VisData is the client-visible history the snapshot preserves: a
// scan's header, its cycles in arrival order, and the options sets
// that were in force, per spec.md §3's "vis_data" glossary entry.
type VisData struct {
	Header     *scandata.Header
	Cycles     []CycleData
	OptionSets []*options.OptionsSet
}

// MJDRange returns the earliest and latest cycle MJDs in v, or (0, 0)
// if v has no cycles.
func (v *VisData) MJDRange() (min, max float64) {
	if len(v.Cycles) == 0 {
		return 0, 0
	}
	min = v.Cycles[0].Cycle.MJD
	max = min
	for _, c := range v.Cycles {
		if c.Cycle.MJD < min {
			min = c.Cycle.MJD
		}
		if c.Cycle.MJD > max {
			max = c.Cycle.MJD
		}
	}
	return min, max
}

// WriteVisData encodes v using the same §6.2 field order Dump writes to
// disk, onto an already-open codec.Writer. The server uses this to
// serve CURRENT_VISDATA/COMPUTED_VISDATA wire payloads from the same
// routine that produces the snapshot file, per §6.2's "same codec as
// the wire".
func WriteVisData(w *codec.Writer, v *VisData) error {
	return writeVisData(w, v)
}

// ReadVisData is WriteVisData's reverse.
func ReadVisData(r *codec.Reader) (*VisData, error) {
	return readVisData(r)
}

// Dump serializes v to path, header-first, per spec.md §4.G.
func Dump(path string, v *VisData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file %s: %w", path, errs.ErrIO)
	}
	defer f.Close()

	w := codec.NewWriter(codec.NewFileTransport(f))
	if err := writeVisData(w, v); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// Load deserializes a VisData previously written by Dump.
func Load(path string) (*VisData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file %s: %w", path, errs.ErrIO)
	}
	defer f.Close()

	r := codec.NewReader(codec.NewFileTransport(f))
	v, err := readVisData(r)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return v, nil
}

func writeVisData(w *codec.Writer, v *VisData) error {
	if err := w.WriteHeader(v.Header); err != nil {
		return err
	}

	min, max := v.MJDRange()
	if err := w.WriteDouble(min); err != nil {
		return err
	}
	if err := w.WriteDouble(max); err != nil {
		return err
	}

	if err := w.WriteArrayHeader(len(v.Cycles)); err != nil {
		return err
	}
	for _, cd := range v.Cycles {
		if err := w.WriteCycle(cd.Cycle); err != nil {
			return err
		}
		if err := w.WriteArrayHeader(len(cd.VisQ)); err != nil {
			return err
		}
		for _, vq := range cd.VisQ {
			if err := w.WriteVisQuantities(vq); err != nil {
				return err
			}
		}
		if err := writeMetInfo(w, cd.Met); err != nil {
			return err
		}
		if err := writeSyscalData(w, cd.Syscal); err != nil {
			return err
		}
	}

	if err := w.WriteArrayHeader(len(v.OptionSets)); err != nil {
		return err
	}
	for _, o := range v.OptionSets {
		if err := w.WriteOptionsSet(o); err != nil {
			return err
		}
	}
	return nil
}

func readVisData(r *codec.Reader) (*VisData, error) {
	v := &VisData{}
	var err error
	if v.Header, err = r.ReadHeader(); err != nil {
		return nil, err
	}

	// MJD bounds are written for a quick-scan reader; they're recomputed
	// from the cycles on load rather than trusted, since Dump derives
	// them from the same cycles anyway.
	if _, err = r.ReadDouble(); err != nil {
		return nil, err
	}
	if _, err = r.ReadDouble(); err != nil {
		return nil, err
	}

	nCycles, err := r.ReadArrayHeader(-1)
	if err != nil {
		return nil, err
	}
	v.Cycles = make([]CycleData, nCycles)
	for i := range v.Cycles {
		cd := &v.Cycles[i]
		if cd.Cycle, err = r.ReadCycle(); err != nil {
			return nil, err
		}
		nVisQ, err := r.ReadArrayHeader(-1)
		if err != nil {
			return nil, err
		}
		cd.VisQ = make([]*kernel.VisQuantities, nVisQ)
		for j := range cd.VisQ {
			if cd.VisQ[j], err = r.ReadVisQuantities(); err != nil {
				return nil, err
			}
		}
		if cd.Met, err = readMetInfo(r); err != nil {
			return nil, err
		}
		if cd.Syscal, err = readSyscalData(r); err != nil {
			return nil, err
		}
	}

	nOptions, err := r.ReadArrayHeader(-1)
	if err != nil {
		return nil, err
	}
	v.OptionSets = make([]*options.OptionsSet, nOptions)
	for i := range v.OptionSets {
		if v.OptionSets[i], err = r.ReadOptionsSet(); err != nil {
			return nil, err
		}
	}
	return v, nil
}
