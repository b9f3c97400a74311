/*
NAME
  flac.go

DESCRIPTION
  flac.go implements a real FLAC decoder, bound to github.com/mewkiz/flac,
  the only compressed format in this library decoded by a third-party
  library rather than natively or opaquely: FLAC is lossless, so there is
  no bit-exactness question to punt on.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package flac implements the FLAC decoder.
package flac

import (
	"bytes"

	"github.com/go-audio/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/pkg/errors"

	vframe "github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// Decoder decodes FLAC frames via github.com/mewkiz/flac. Unlike the
// other codecs it is not frame-synchronous with streambuf: the first
// Decode call after construction or NewStream opens a FLAC stream from
// raw, which must hold the start of the stream (marker and STREAMINFO).
// Every call, that one included, returns the next frame of that stream;
// once the stream is open, raw is ignored.
type Decoder struct {
	stream *flac.Stream
}

func NewDecoder() *Decoder { return &Decoder{} }

func (d *Decoder) CanDecode(f speaker.Format) bool { return f == speaker.FLAC }

func (d *Decoder) NewStream() { d.stream = nil }

func (d *Decoder) Decode(fi vframe.FrameInfo, raw []byte) (vframe.Chunk, error) {
	if d.stream == nil {
		s, err := flac.New(bytes.NewReader(raw))
		if err != nil {
			return vframe.Chunk{}, errors.Wrap(err, "flac: open stream")
		}
		d.stream = s
	}

	fr, err := d.stream.ParseNext()
	if err != nil {
		return vframe.Chunk{}, errors.Wrap(err, "flac: parse frame")
	}

	buf := frameToBuffer(fr)
	nch := buf.Format.NumChannels
	samples := make([][]float64, nch)
	n := buf.NumFrames()
	for ch := 0; ch < nch; ch++ {
		samples[ch] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for ch := 0; ch < nch; ch++ {
			samples[ch][i] = float64(buf.Data[i*nch+ch]) / speaker.LevelPCM32
		}
	}

	spk := speaker.New(speaker.Linear, fi.Spk.Mask, int(fr.SampleRate))
	return vframe.Chunk{Spk: spk, Samples: samples, Size: n}, nil
}

// frameToBuffer converts a decoded FLAC frame's per-subframe integer
// samples into an interleaved go-audio/audio.IntBuffer, the same
// intermediate representation ausocean-av's FLAC decode path uses.
func frameToBuffer(fr *frame.Frame) *audio.IntBuffer {
	nch := len(fr.Subframes)
	n := fr.BlockSize
	data := make([]int, n*nch)
	for ch := 0; ch < nch; ch++ {
		sub := fr.Subframes[ch]
		for i := 0; i < n && i < len(sub.Samples); i++ {
			data[i*nch+ch] = sub.Samples[i]
		}
	}
	return &audio.IntBuffer{
		Format: &audio.Format{NumChannels: nch, SampleRate: int(fr.SampleRate)},
		Data:   data,
	}
}
