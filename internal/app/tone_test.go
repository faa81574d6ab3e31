package app

import (
	"math"
	"testing"
	"time"
)

func TestToneSamplesEnvelope(t *testing.T) {
	tone := Tone{Frequency: 440, Duration: time.Second, Peak: 0.3, Fade: 100 * time.Millisecond}
	samples := tone.Samples()
	if len(samples) != SampleRate {
		t.Fatalf("len = %d, want %d", len(samples), SampleRate)
	}
	if samples[0] != 0 {
		t.Errorf("first sample = %v, want 0", samples[0])
	}
	if math.Abs(samples[len(samples)-1]) > 0.001 {
		t.Errorf("last sample = %v, want ~0", samples[len(samples)-1])
	}
	for i, s := range samples {
		if math.Abs(s) > 0.3+1e-9 {
			t.Fatalf("sample %d = %v exceeds peak", i, s)
		}
	}
	// The steady section should actually reach close to the peak.
	max := 0.0
	for _, s := range samples {
		if math.Abs(s) > max {
			max = math.Abs(s)
		}
	}
	if max < 0.25 {
		t.Errorf("max amplitude = %v, want near 0.3", max)
	}
}

func TestToneFadeClampedToHalf(t *testing.T) {
	tone := Tone{Frequency: 330, Duration: 100 * time.Millisecond, Peak: 0.3, Fade: time.Second}
	samples := tone.Samples()
	if len(samples) == 0 {
		t.Fatalf("no samples")
	}
	if samples[0] != 0 || math.Abs(samples[len(samples)-1]) > 0.001 {
		t.Errorf("fade endpoints not clamped: %v, %v", samples[0], samples[len(samples)-1])
	}
}

func TestToneRenderPCM(t *testing.T) {
	tone := ToneInhale
	pcm := tone.Render()
	if len(pcm) != 2*len(tone.Samples()) {
		t.Fatalf("pcm len = %d, want two bytes per sample", len(pcm))
	}
	if pcm[0] != 0 || pcm[1] != 0 {
		t.Errorf("first frame = %d %d, want silence", pcm[0], pcm[1])
	}
}

func TestBreathingTones(t *testing.T) {
	if ToneInhale.Frequency != 440 || ToneExhale.Frequency != 330 {
		t.Errorf("tone frequencies = %v, %v", ToneInhale.Frequency, ToneExhale.Frequency)
	}
	if ToneInhale.Duration != 4*time.Second || ToneExhale.Duration != 4*time.Second {
		t.Errorf("tone durations = %v, %v", ToneInhale.Duration, ToneExhale.Duration)
	}
}
