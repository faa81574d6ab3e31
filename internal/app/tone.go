package app

import (
	"encoding/binary"
	"math"
	"time"
)

// Tone describes a synthesized cue: a sine at a fixed frequency with a
// linear fade in and out so starts and stops never click.
type Tone struct {
	Frequency float64
	Duration  time.Duration
	Peak      float64 // 0..1
	Fade      time.Duration
}

// The breathing guide plays A4 on inhale and E4 on exhale, four seconds
// each with half-second ramps.
var (
	ToneInhale = Tone{Frequency: 440, Duration: 4 * time.Second, Peak: 0.3, Fade: 500 * time.Millisecond}
	ToneExhale = Tone{Frequency: 330, Duration: 4 * time.Second, Peak: 0.3, Fade: 500 * time.Millisecond}
)

// Short UI cues.
var (
	ToneClick   = Tone{Frequency: 880, Duration: 60 * time.Millisecond, Peak: 0.2, Fade: 10 * time.Millisecond}
	ToneNotify  = Tone{Frequency: 660, Duration: 200 * time.Millisecond, Peak: 0.25, Fade: 30 * time.Millisecond}
	ToneSuccess = Tone{Frequency: 550, Duration: 300 * time.Millisecond, Peak: 0.25, Fade: 40 * time.Millisecond}
)

const SampleRate = 44100

// Samples renders the tone as normalized float samples in [-1, 1].
func (t Tone) Samples() []float64 {
	n := int(float64(SampleRate) * t.Duration.Seconds())
	if n <= 0 {
		return nil
	}
	peak := t.Peak
	if peak <= 0 || peak > 1 {
		peak = 0.3
	}
	fadeSamples := int(float64(SampleRate) * t.Fade.Seconds())
	if 2*fadeSamples > n {
		fadeSamples = n / 2
	}

	out := make([]float64, n)
	step := 2 * math.Pi * t.Frequency / SampleRate
	for i := range out {
		gain := peak
		switch {
		case fadeSamples > 0 && i < fadeSamples:
			gain = peak * float64(i) / float64(fadeSamples)
		case fadeSamples > 0 && i >= n-fadeSamples:
			gain = peak * float64(n-1-i) / float64(fadeSamples)
		}
		out[i] = gain * math.Sin(step*float64(i))
	}
	return out
}

// Render encodes the tone as 16-bit little-endian mono PCM, the raw format
// accepted by most playback sinks.
func (t Tone) Render() []byte {
	samples := t.Samples()
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(int16(s*math.MaxInt16)))
	}
	return buf
}
