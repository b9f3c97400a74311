/*
NAME
  formatconv.go

DESCRIPTION
  formatconv.go converts between Linear (planar float64) chunks and the
  interleaved integer PCM formats a sink falls back to once a
  SinkReject error rules out its preferred format: sample format
  conversion, downsampling by an integer ratio, and stereo-to-mono
  folding, adapted from ausocean-av's codec/pcm resampling helpers to the
  library's speaker.Layout/frame.Chunk data model.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package formatconv implements the sample-format and sample-rate
// conversions a sink falls back to after rejecting its preferred format.
package formatconv

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// ToInterleaved packs a Linear chunk's planar float64 samples into
// interleaved bytes at the given integer PCM format (PCM16, PCM24, PCM32
// only), clipping to the format's nominal peak level.
func ToInterleaved(c frame.Chunk, format speaker.Format) ([]byte, error) {
	if c.Spk.Format != speaker.Linear {
		return nil, errors.Errorf("formatconv: input is not Linear (got %s)", c.Spk.Format)
	}
	nch := len(c.Samples)
	if nch == 0 {
		return nil, nil
	}
	n := len(c.Samples[0])

	var bytesPerSample int
	var level float64
	switch format {
	case speaker.PCM16:
		bytesPerSample, level = 2, speaker.LevelPCM16
	case speaker.PCM24:
		bytesPerSample, level = 3, speaker.LevelPCM24
	case speaker.PCM32:
		bytesPerSample, level = 4, speaker.LevelPCM32
	default:
		return nil, errors.Errorf("formatconv: unsupported output format %s", format)
	}

	out := make([]byte, n*nch*bytesPerSample)
	pos := 0
	for i := 0; i < n; i++ {
		for ch := 0; ch < nch; ch++ {
			v := clip(c.Samples[ch][i]) * level
			switch format {
			case speaker.PCM16:
				binary.LittleEndian.PutUint16(out[pos:], uint16(int16(v)))
			case speaker.PCM24:
				put24(out[pos:], int32(v))
			case speaker.PCM32:
				binary.LittleEndian.PutUint32(out[pos:], uint32(int32(v)))
			}
			pos += bytesPerSample
		}
	}
	return out, nil
}

func clip(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func put24(b []byte, v int32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

// Downsample decimates a Linear chunk from its current sample rate to
// rate by simple block averaging, the same algorithm as
// ausocean-av/codec/pcm's Resample, generalized from interleaved integer
// PCM to planar float64. c.Spk.SampleRate must be an integer multiple of
// rate.
func Downsample(c frame.Chunk, rate int) (frame.Chunk, error) {
	if c.Spk.SampleRate == rate {
		return c, nil
	}
	if rate <= 0 || c.Spk.SampleRate%rate != 0 {
		return frame.Chunk{}, errors.Errorf("formatconv: %d Hz is not a divisor of %d Hz", rate, c.Spk.SampleRate)
	}
	ratio := c.Spk.SampleRate / rate

	out := frame.Chunk{Spk: c.Spk, Sync: c.Sync, Time: c.Time}
	out.Spk.SampleRate = rate
	out.Samples = make([][]float64, len(c.Samples))
	for ch, in := range c.Samples {
		newLen := len(in) / ratio
		down := make([]float64, newLen)
		for i := 0; i < newLen; i++ {
			var sum float64
			for j := 0; j < ratio; j++ {
				sum += in[i*ratio+j]
			}
			down[i] = sum / float64(ratio)
		}
		out.Samples[ch] = down
	}
	if len(out.Samples) > 0 {
		out.Size = len(out.Samples[0])
	}
	return out, nil
}

// StereoToMono folds a 2-channel Linear chunk down to 1 channel by
// keeping only the left channel, matching
// ausocean-av/codec/pcm.StereoToMono's left-channel-only behaviour.
func StereoToMono(c frame.Chunk) (frame.Chunk, error) {
	if c.Spk.NCh() == 1 {
		return c, nil
	}
	if c.Spk.NCh() != 2 {
		return frame.Chunk{}, errors.Errorf("formatconv: not stereo or mono (%d channels)", c.Spk.NCh())
	}
	out := c
	out.Spk.Mask = speaker.ChL
	out.Samples = [][]float64{append([]float64(nil), c.Samples[0]...)}
	return out, nil
}
