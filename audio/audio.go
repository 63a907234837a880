// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package audio is a thin playback facade over beep and its speaker.
//
// Startup opens the platform audio device once; Play hands streamers to
// the speaker's mixer. The package keeps no connection to the graphics
// core and can be used on its own.
package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Version is the audio facade version.
const Version = "0.3.0"

// Config configures the audio device.
type Config struct {
	// SampleRate in Hz. Defaults to 44100.
	SampleRate int
	// BufferMillis is the speaker buffer length. Larger values survive
	// scheduling hiccups, smaller values cut latency. Defaults to 50.
	BufferMillis int
}

// DefaultConfig returns the config used by Startup for zero values.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, BufferMillis: 50}
}

var (
	mu      sync.Mutex
	started bool
	rate    beep.SampleRate
)

// Name returns the backing playback library.
func Name() string { return "beep" }

// Startup opens the audio device. Calling it again without Shutdown is a
// no-op that keeps the first configuration.
func Startup(cfg Config) error {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.BufferMillis <= 0 {
		cfg.BufferMillis = def.BufferMillis
	}

	mu.Lock()
	defer mu.Unlock()
	if started {
		return nil
	}
	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Duration(cfg.BufferMillis)*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: opening device: %w", err)
	}
	rate = sr
	started = true
	logger().Info("audio device open",
		"backend", Name(), "rate", cfg.SampleRate, "buffer_ms", cfg.BufferMillis)
	return nil
}

// Shutdown stops playback and closes the device.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if !started {
		return
	}
	speaker.Clear()
	speaker.Close()
	started = false
	logger().Info("audio device closed")
}

// SampleRate returns the device sample rate in Hz, or 0 before Startup.
func SampleRate() int {
	mu.Lock()
	defer mu.Unlock()
	return int(rate)
}

// Play mixes streamers into the output. Streamers sampled at a different
// rate should be wrapped with Resampled first.
func Play(streamers ...beep.Streamer) error {
	mu.Lock()
	ok := started
	mu.Unlock()
	if !ok {
		return fmt.Errorf("audio: Play before Startup")
	}
	speaker.Play(streamers...)
	return nil
}

// Resampled adapts a streamer recorded at from Hz to the device rate.
func Resampled(from int, s beep.Streamer) beep.Streamer {
	mu.Lock()
	to := rate
	mu.Unlock()
	if to == 0 || beep.SampleRate(from) == to {
		return s
	}
	return beep.Resample(4, beep.SampleRate(from), to, s)
}

// LoadWAV opens a WAV file for streaming. The caller closes the returned
// streamer when done.
func LoadWAV(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: %w", err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("audio: decoding %s: %w", path, err)
	}
	return s, format, nil
}
