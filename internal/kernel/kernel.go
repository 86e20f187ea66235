package kernel

import (
	"fmt"
	"math"

	"github.com/ste616/atca-training-sub001/internal/errs"
	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/scandata"
)

// Input bundles everything Compute needs: a scan header, a cycle, the
// chosen IF/polarization, the options set driving the computation, and
// the ancillary per-cycle tables the kernel folds into the spectrum.
type Input struct {
	Header  *scandata.Header
	Cycle   *scandata.Cycle
	IFIndex int
	Pol     int
	Options *options.OptionsSet
	Met     scandata.MetInfo
	Syscal  scandata.SyscalData

	// NoiseDiode is the table in effect before any
	// set_noise_diode_amplitude modifier for this IF is considered; it
	// is threaded through (and possibly replaced) by
	// options.ApplyModifiers.
	NoiseDiode options.NoiseDiodeTable
}

// Compute transforms one cycle's raw visibilities for the chosen IF and
// polarization into a Spectrum, per spec.md §4.C. The kernel never
// mutates its inputs; it works from copies of the raw channel data.
func Compute(in Input) (*Spectrum, error) {
	ifr := in.Header.IFByLabel(in.IFIndex)
	if ifr == nil || in.IFIndex < 1 || in.IFIndex > in.Header.NumIFs() {
		return nil, fmt.Errorf("IF %d out of range: %w", in.IFIndex, errs.ErrBadSelection)
	}
	if !in.Header.HasPol(in.IFIndex, in.Pol) {
		return nil, fmt.Errorf("polarization %d not present on IF %d: %w", in.Pol, in.IFIndex, errs.ErrBadSelection)
	}
	if in.Options == nil || in.IFIndex > len(in.Options.IFs) {
		return nil, fmt.Errorf("no options for IF %d: %w", in.IFIndex, errs.ErrBadSelection)
	}
	ifo := &in.Options.IFs[in.IFIndex-1]
	if ifo.MinTVChannel > ifo.MaxTVChannel ||
		ifo.MinTVChannel < 0 || ifo.MaxTVChannel >= ifr.NChannels {
		return nil, fmt.Errorf("malformed tv-channel range [%d,%d] for %d channels: %w",
			ifo.MinTVChannel, ifo.MaxTVChannel, ifr.NChannels, errs.ErrBadSelection)
	}

	freqMHz := channelFrequencies(ifr)

	records := in.Cycle.RecordsFor(in.IFIndex, in.Pol)
	spectrum := &Spectrum{
		IFIndex: in.IFIndex,
		Pol:     in.Pol,
		Options: in.Options,
		Met:     in.Met,
		Syscal:  in.Syscal,
	}
	spectrum.AmpMin, spectrum.AmpMax = newAggregates()
	spectrum.PhaseMin, spectrum.PhaseMax = newAggregates()
	spectrum.RealMin, spectrum.RealMax = newAggregates()
	spectrum.ImagMin, spectrum.ImagMax = newAggregates()

	noiseDiode := in.NoiseDiode

	for _, rec := range records {
		bs, newNoiseDiode, err := computeBaseline(in, ifr, ifo, rec, freqMHz, noiseDiode)
		if err != nil {
			// Per spec.md §4.C "Error conditions": a kernel failure on
			// one baseline degrades the spectrum rather than aborting
			// the whole cycle.
			spectrum.Degraded = true
			continue
		}
		noiseDiode = newNoiseDiode
		spectrum.Baselines = append(spectrum.Baselines, *bs)

		spectrum.AmpMin, spectrum.AmpMax = updateMinMax(spectrum.AmpMin, spectrum.AmpMax, bs.AmpMin)
		spectrum.AmpMin, spectrum.AmpMax = updateMinMax(spectrum.AmpMin, spectrum.AmpMax, bs.AmpMax)
		spectrum.PhaseMin, spectrum.PhaseMax = updateMinMax(spectrum.PhaseMin, spectrum.PhaseMax, bs.PhaseMin)
		spectrum.PhaseMin, spectrum.PhaseMax = updateMinMax(spectrum.PhaseMin, spectrum.PhaseMax, bs.PhaseMax)
		spectrum.RealMin, spectrum.RealMax = updateMinMax(spectrum.RealMin, spectrum.RealMax, bs.RealMin)
		spectrum.RealMin, spectrum.RealMax = updateMinMax(spectrum.RealMin, spectrum.RealMax, bs.RealMax)
		spectrum.ImagMin, spectrum.ImagMax = updateMinMax(spectrum.ImagMin, spectrum.ImagMax, bs.ImagMin)
		spectrum.ImagMin, spectrum.ImagMax = updateMinMax(spectrum.ImagMin, spectrum.ImagMax, bs.ImagMax)
	}

	return spectrum, nil
}

// channelFrequencies returns the centre frequency, in MHz, of each
// channel of ifr.
func channelFrequencies(ifr *scandata.IF) []float64 {
	width := ifr.ChannelWidth()
	start := ifr.CentreFreq - ifr.Bandwidth/2 + width/2
	freqs := make([]float64, ifr.NChannels)
	for k := range freqs {
		freqs[k] = start + float64(k)*width
	}
	return freqs
}

func computeBaseline(in Input, ifr *scandata.IF, ifo *options.IFOption, rec *scandata.Record, freqMHz []float64, noiseDiode options.NoiseDiodeTable) (*BaselineSpectrum, options.NoiseDiodeTable, error) {
	a1, a2 := scandata.BaselineDecode(rec.Baseline)

	raw := interleavedToComplex(rec.Raw)
	if len(raw) != ifr.NChannels {
		return nil, noiseDiode, fmt.Errorf("record has %d channels, IF expects %d: %w",
			len(raw), ifr.NChannels, errs.ErrBadSelection)
	}

	// Step 2: modifier application, before amplitude/phase are derived.
	noiseDiode = options.ApplyModifiers(ifo, in.Cycle.MJD, rec.Pol, a1, a2, freqMHz, raw, noiseDiode)

	bin := BinSpectrum{Bin: rec.Bin}
	bin.Weight = append([]float64(nil), rec.Weight...)
	bin.Raw = raw
	bin.Amp = make([]float64, len(raw))
	bin.Phase = make([]float64, len(raw))

	if rec.Flagged {
		bin.FlaggedBad = true
		bin.FlaggedChannels = len(raw)
		bin.Delay[0] = math.NaN()
		bin.Delay[1] = math.NaN()
		bs := &BaselineSpectrum{Baseline: rec.Baseline, Bins: []BinSpectrum{bin}}
		bs.AmpMin, bs.AmpMax = newAggregates()
		bs.PhaseMin, bs.PhaseMax = newAggregates()
		bs.RealMin, bs.RealMax = newAggregates()
		bs.ImagMin, bs.ImagMax = newAggregates()
		return bs, noiseDiode, nil
	}

	for k, c := range raw {
		amp := cAbs(c)
		amp = applyTsys(amp, rec.Pol, a1, a2, in.IFIndex, &in.Syscal, in.Options.ReverseOnline, in.Options.ApplyComputed)
		phase := math.Atan2(imag(c), real(c))
		if in.Options.PhaseInDegrees {
			phase = phase * 180 / math.Pi
		}
		bin.Amp[k] = amp
		bin.Phase[k] = phase
	}

	// Step 4: channel flagging.
	for k := range raw {
		flagged := false
		if k >= len(bin.Weight) || bin.Weight[k] <= 0 {
			flagged = true
		}
		if math.IsNaN(bin.Amp[k]) || math.IsNaN(bin.Phase[k]) {
			flagged = true
		}
		if k < 0 || k >= ifr.NChannels {
			flagged = true
		}
		if flagged {
			bin.FlaggedChannels++
			continue
		}
		bin.FWeight = append(bin.FWeight, bin.Weight[k])
		bin.FRaw = append(bin.FRaw, bin.Raw[k])
		bin.FAmp = append(bin.FAmp, bin.Amp[k])
		bin.FPhase = append(bin.FPhase, bin.Phase[k])
	}

	if len(bin.FAmp) == 0 {
		bin.FlaggedBad = true
		bin.Delay[0] = math.NaN()
		bin.Delay[1] = math.NaN()
	} else {
		// Step 5: group delay, restricted to the tv-channel window.
		lo, hi := ifo.MinTVChannel, ifo.MaxTVChannel
		winRaw, winFreq, winWeight := windowChannels(bin.Raw, freqMHz, bin.Weight, lo, hi)
		avgN := ifo.DelayAveragingN
		if avgN < 1 {
			avgN = 1
		}
		binnedRaw, binnedFreq := averageBins(winRaw, winFreq, avgN)
		binnedWeight, _ := averageBins(complexify(winWeight), winFreq, avgN)

		delay := fitGroupDelay(binnedRaw, binnedFreq, realify(binnedWeight), ifr.SidebandSign)
		if a1 == a2 {
			bin.Delay[1] = delay
		} else {
			bin.Delay[0] = delay
		}
		if math.IsNaN(delay) {
			bin.FlaggedBad = bin.FlaggedBad || len(binnedRaw) < minBinsForDelayFit
		}
	}

	bs := &BaselineSpectrum{Baseline: rec.Baseline, Bins: []BinSpectrum{bin}}
	bs.AmpMin, bs.AmpMax = newAggregates()
	bs.PhaseMin, bs.PhaseMax = newAggregates()
	bs.RealMin, bs.RealMax = newAggregates()
	bs.ImagMin, bs.ImagMax = newAggregates()
	for _, a := range bin.FAmp {
		bs.AmpMin, bs.AmpMax = updateMinMax(bs.AmpMin, bs.AmpMax, a)
	}
	for _, p := range bin.FPhase {
		bs.PhaseMin, bs.PhaseMax = updateMinMax(bs.PhaseMin, bs.PhaseMax, p)
	}
	for _, c := range bin.FRaw {
		bs.RealMin, bs.RealMax = updateMinMax(bs.RealMin, bs.RealMax, real(c))
		bs.ImagMin, bs.ImagMax = updateMinMax(bs.ImagMin, bs.ImagMax, imag(c))
	}

	return bs, noiseDiode, nil
}

func interleavedToComplex(raw []float64) []complex128 {
	out := make([]complex128, len(raw)/2)
	for i := range out {
		out[i] = complex(raw[2*i], raw[2*i+1])
	}
	return out
}

func windowChannels(raw []complex128, freq, weight []float64, lo, hi int) ([]complex128, []float64, []float64) {
	if lo < 0 {
		lo = 0
	}
	if hi >= len(raw) {
		hi = len(raw) - 1
	}
	if lo > hi {
		return nil, nil, nil
	}
	return append([]complex128(nil), raw[lo:hi+1]...),
		append([]float64(nil), freq[lo:hi+1]...),
		append([]float64(nil), weight[lo:hi+1]...)
}

// complexify/realify let weight vectors ride through averageBins, which
// operates on complex slices; weights are real so the imaginary part is
// always zero.
func complexify(v []float64) []complex128 {
	out := make([]complex128, len(v))
	for i, x := range v {
		out[i] = complex(x, 0)
	}
	return out
}

func realify(v []complex128) []float64 {
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = real(c)
	}
	return out
}
