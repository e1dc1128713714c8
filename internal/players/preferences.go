package players

import "math"

// DefaultUnmuteVolume is restored when unmuting with no remembered volume.
const DefaultUnmuteVolume = 0.5

var Rates = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

// Preferences are the user's output settings. They outlive any single item
// but are never written to disk.
//
// Muted and Volume are stored independently. Output is silent whenever
// Muted is set or Volume is zero.
type Preferences struct {
	Volume     float64
	Muted      bool
	LastVolume float64
	Rate       float64
}

func NewPreferences() *Preferences {
	return &Preferences{
		Volume: 1,
		Rate:   1,
	}
}

func (p *Preferences) Silent() bool {
	return p.Muted || p.Volume == 0
}

// SetVolume clamps v to [0,1]. A non-zero value is remembered for unmuting
// and clears the mute flag.
func (p *Preferences) SetVolume(v float64) {
	v = clamp(round2(v), 0, 1)
	p.Volume = v
	if v > 0 {
		p.LastVolume = v
		p.Muted = false
	}
}

func (p *Preferences) Mute() {
	if p.Volume > 0 {
		p.LastVolume = p.Volume
	}
	p.Muted = true
}

func (p *Preferences) Unmute() {
	p.Muted = false
	if p.Volume == 0 {
		if p.LastVolume > 0 {
			p.Volume = p.LastVolume
		} else {
			p.Volume = DefaultUnmuteVolume
		}
	}
}

func (p *Preferences) ToggleMute() {
	if p.Silent() {
		p.Unmute()
	} else {
		p.Mute()
	}
}

// Nudge moves the volume by delta. Reaching zero forces mute; raising the
// volume while muted unmutes first. The first step up from zero brings back
// the remembered volume.
func (p *Preferences) Nudge(delta float64) {
	if delta > 0 {
		p.Muted = false
		if p.Volume == 0 && p.LastVolume > 0 {
			p.SetVolume(p.LastVolume)
			return
		}
		p.SetVolume(p.Volume + delta)
		return
	}

	v := clamp(round2(p.Volume+delta), 0, 1)
	if v == 0 {
		if p.Volume > 0 {
			p.LastVolume = p.Volume
		}
		p.Volume = 0
		p.Muted = true
		return
	}
	p.SetVolume(v)
}

// SetRate accepts only the rates listed in Rates.
func (p *Preferences) SetRate(r float64) bool {
	for _, allowed := range Rates {
		if allowed == r {
			p.Rate = r
			return true
		}
	}
	return false
}

// CycleRate steps through Rates, clamping at both ends.
func (p *Preferences) CycleRate(step int) {
	idx := 2
	for i, r := range Rates {
		if r == p.Rate {
			idx = i
		}
	}
	idx += step
	if idx < 0 {
		idx = 0
	}
	if idx >= len(Rates) {
		idx = len(Rates) - 1
	}
	p.Rate = Rates[idx]
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
