// Command encoder converts a WAV file to FLAC.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/pkg/osutil"
	"github.com/pkg/errors"

	"github.com/toastori/flacenc"
)

// maxBlockSize is the number of inter-channel samples per encoded frame.
const maxBlockSize = 4096

const (
	exitOK = iota
	exitUsage
	exitUnsupportedFormat
	exitIncompleteStream
	exitIOError
)

func main() {
	var force bool
	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: encoder [-f] INPUT.wav OUTPUT.flac")
		os.Exit(exitUsage)
	}

	code, err := encode(flag.Arg(0), flag.Arg(1), force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	os.Exit(code)
}

// encode converts wavPath to flacPath, returning the process exit code the
// CLI contract assigns to whatever outcome occurred.
func encode(wavPath, flacPath string, force bool) (int, error) {
	if !strings.EqualFold(filepath.Ext(wavPath), ".wav") {
		return exitUsage, errors.Errorf("input %q is not a .wav file", wavPath)
	}

	r, err := os.Open(wavPath)
	if err != nil {
		return exitIOError, errors.WithStack(err)
	}
	defer r.Close()

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return exitUnsupportedFormat, errors.Errorf("invalid WAV file %q", wavPath)
	}
	sampleRate, nchannels, bps := int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth)

	switch bps {
	case 8, 16, 24, 32:
	default:
		return exitUnsupportedFormat, errors.Errorf("unsupported bit depth %d", bps)
	}
	if nchannels < 1 || nchannels > 8 {
		return exitUnsupportedFormat, errors.Errorf("unsupported channel count %d", nchannels)
	}

	if !force && osutil.Exists(flacPath) {
		return exitIOError, errors.Errorf("FLAC file %q already present; use -f flag to force overwrite", flacPath)
	}
	w, err := os.Create(flacPath)
	if err != nil {
		return exitIOError, errors.WithStack(err)
	}
	defer w.Close()

	enc, err := flacenc.NewEncoder(w, uint32(sampleRate), nchannels, uint8(bps), maxBlockSize)
	if err != nil {
		return exitUnsupportedFormat, errors.WithStack(err)
	}

	if err := dec.FwdToPCM(); err != nil {
		return exitIOError, errors.WithStack(err)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: nchannels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, maxBlockSize*nchannels),
		SourceBitDepth: bps,
	}
	for !dec.EOF() {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return exitIOError, errors.WithStack(err)
		}
		if n == 0 {
			break
		}
		if n%nchannels != 0 {
			return exitIncompleteStream, errors.Errorf("partial channel group: %d samples for %d channels", n, nchannels)
		}

		planes := deinterleave(buf.Data[:n], nchannels)
		if err := enc.WriteSamples(planes); err != nil {
			return exitIOError, errors.WithStack(err)
		}
	}

	if err := enc.Close(); err != nil {
		return exitIOError, errors.WithStack(err)
	}
	return exitOK, nil
}

// deinterleave splits interleaved PCM ints into one []int32 plane per
// channel.
func deinterleave(data []int, nchannels int) [][]int32 {
	frames := len(data) / nchannels
	planes := make([][]int32, nchannels)
	for c := range planes {
		planes[c] = make([]int32, frames)
	}
	for i, sample := range data {
		planes[i%nchannels][i/nchannels] = int32(sample)
	}
	return planes
}
