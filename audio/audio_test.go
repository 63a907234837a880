// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package audio

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
)

func TestPlayBeforeStartup(t *testing.T) {
	if err := Play(beep.Silence(10)); err == nil {
		t.Error("Play before Startup succeeded")
	}
}

func TestSampleRateBeforeStartup(t *testing.T) {
	if sr := SampleRate(); sr != 0 {
		t.Errorf("SampleRate() = %d before Startup, want 0", sr)
	}
}

type silentStreamer struct{}

func (silentStreamer) Stream(samples [][2]float64) (int, bool) { return len(samples), true }
func (silentStreamer) Err() error                              { return nil }

func TestResampledPassthroughBeforeStartup(t *testing.T) {
	s := silentStreamer{}
	if got := Resampled(22050, s); got != beep.Streamer(s) {
		t.Error("Resampled wrapped a streamer with no device open")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.SampleRate)
	}
	if cfg.BufferMillis <= 0 {
		t.Errorf("BufferMillis = %d, want positive", cfg.BufferMillis)
	}
}

func TestSetLogger(t *testing.T) {
	SetLogger(slog.Default())
	if logger() != slog.Default() {
		t.Error("SetLogger did not take effect")
	}
	SetLogger(nil)
	if logger() == slog.Default() {
		t.Error("SetLogger(nil) did not reset the logger")
	}
}

// writeWAV writes a minimal PCM16 mono WAV file.
func writeWAV(t *testing.T, path string, sampleRate int, samples []int16) {
	t.Helper()
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := make([]int16, 128)
	for i := range samples {
		samples[i] = int16(i * 100)
	}
	writeWAV(t, path, 22050, samples)

	s, format, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	defer s.Close()
	if format.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", format.SampleRate)
	}
	if s.Len() != len(samples) {
		t.Errorf("Len() = %d, want %d", s.Len(), len(samples))
	}
	buf := make([][2]float64, 32)
	n, ok := s.Stream(buf)
	if !ok || n != 32 {
		t.Errorf("Stream = %d, %v, want 32, true", n, ok)
	}
}

func TestLoadWAVMissingFile(t *testing.T) {
	if _, _, err := LoadWAV(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("LoadWAV of a missing file succeeded")
	}
}
