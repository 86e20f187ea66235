package scandata

// AntennaSyscal carries the per-antenna-only syscal quantities.
type AntennaSyscal struct {
	ParallacticAngle float64
	TrackErrMax      float64
	TrackErrRMS      float64
	CoarseFlag       bool
}

// antIF keys the per-(antenna,IF) crosstalk table.
type antIF struct {
	Ant int
	IF  int
}

// AntIFSyscal carries the per-(antenna,IF) crosstalk measurements.
type AntIFSyscal struct {
	XYPhase float64
	XYAmp   float64
}

// antIFPol keys the per-(antenna,IF,pol) table. Pol here is the
// per-antenna polarization (options.PolX / options.PolY), not a
// correlation product.
type antIFPol struct {
	Ant int
	IF  int
	Pol int
}

// AntIFPolSyscal carries the per-(antenna,IF,pol) Tsys inputs.
type AntIFPolSyscal struct {
	OnlineTsys     float64
	OnlineApplied  bool
	ComputedTsys   float64
	ComputedApplied bool
	GTP  float64
	SDO  float64
	CALJY float64
}

// SyscalData is the per-cycle syscal snapshot.
type SyscalData struct {
	ByAntenna   map[int]AntennaSyscal
	ByAntennaIF map[antIF]AntIFSyscal
	ByAntennaIFPol map[antIFPol]AntIFPolSyscal
}

// NewSyscalData returns an empty, ready-to-fill SyscalData.
func NewSyscalData() SyscalData {
	return SyscalData{
		ByAntenna:      make(map[int]AntennaSyscal),
		ByAntennaIF:    make(map[antIF]AntIFSyscal),
		ByAntennaIFPol: make(map[antIFPol]AntIFPolSyscal),
	}
}

// Antenna returns the per-antenna syscal entry for ant.
func (s *SyscalData) Antenna(ant int) AntennaSyscal {
	return s.ByAntenna[ant]
}

// SetAntenna sets the per-antenna syscal entry for ant.
func (s *SyscalData) SetAntenna(ant int, v AntennaSyscal) {
	if s.ByAntenna == nil {
		s.ByAntenna = make(map[int]AntennaSyscal)
	}
	s.ByAntenna[ant] = v
}

// AntennaIF returns the crosstalk entry for (ant, ifLabel).
func (s *SyscalData) AntennaIF(ant, ifLabel int) AntIFSyscal {
	return s.ByAntennaIF[antIF{ant, ifLabel}]
}

// SetAntennaIF sets the crosstalk entry for (ant, ifLabel).
func (s *SyscalData) SetAntennaIF(ant, ifLabel int, v AntIFSyscal) {
	if s.ByAntennaIF == nil {
		s.ByAntennaIF = make(map[antIF]AntIFSyscal)
	}
	s.ByAntennaIF[antIF{ant, ifLabel}] = v
}

// AntennaIFPol returns the Tsys-input entry for (ant, ifLabel, pol).
func (s *SyscalData) AntennaIFPol(ant, ifLabel, pol int) AntIFPolSyscal {
	return s.ByAntennaIFPol[antIFPol{ant, ifLabel, pol}]
}

// SetAntennaIFPol sets the Tsys-input entry for (ant, ifLabel, pol).
func (s *SyscalData) SetAntennaIFPol(ant, ifLabel, pol int, v AntIFPolSyscal) {
	if s.ByAntennaIFPol == nil {
		s.ByAntennaIFPol = make(map[antIFPol]AntIFPolSyscal)
	}
	s.ByAntennaIFPol[antIFPol{ant, ifLabel, pol}] = v
}

// AntIFRow is one flattened row of the per-(antenna,IF) table, exported
// so packages outside scandata (the codec) can walk the table without
// reaching into the unexported antIF key type.
type AntIFRow struct {
	Ant, IF int
	AntIFSyscal
}

// AntIFRows flattens ByAntennaIF into a list of rows, for serialization.
func (s *SyscalData) AntIFRows() []AntIFRow {
	rows := make([]AntIFRow, 0, len(s.ByAntennaIF))
	for k, v := range s.ByAntennaIF {
		rows = append(rows, AntIFRow{Ant: k.Ant, IF: k.IF, AntIFSyscal: v})
	}
	return rows
}

// AntIFPolRow is one flattened row of the per-(antenna,IF,pol) table.
type AntIFPolRow struct {
	Ant, IF, Pol int
	AntIFPolSyscal
}

// AntIFPolRows flattens ByAntennaIFPol into a list of rows, for
// serialization.
func (s *SyscalData) AntIFPolRows() []AntIFPolRow {
	rows := make([]AntIFPolRow, 0, len(s.ByAntennaIFPol))
	for k, v := range s.ByAntennaIFPol {
		rows = append(rows, AntIFPolRow{Ant: k.Ant, IF: k.IF, Pol: k.Pol, AntIFPolSyscal: v})
	}
	return rows
}
