// Package flacenc implements a FLAC stream encoder: it chooses stereo
// decorrelation and per-channel subframe representations for blocks of
// PCM samples, Rice-codes the residuals, and emits a complete FLAC file
// (STREAMINFO, a Vorbis-comment block, and the coded frames) to a
// seekable sink.
package flacenc

import (
	"crypto/md5"
	"hash"
	"io"

	"github.com/mewkiz/pkg/errutil"

	"github.com/toastori/flacenc/meta"
)

// vendorString identifies this encoder in the Vorbis-comment block every
// stream carries, the same way libFLAC and other encoders stamp their own
// name and version there.
const vendorString = "toastori FLAC 0.0.0"

// headerSize is the byte length of the "fLaC" magic plus the STREAMINFO
// block's header and payload, reserved as a zero-filled placeholder on
// the first pass and overwritten once the stream is finalised.
const headerSize = 4 + 4 + meta.StreamInfoLen

// Encoder writes a FLAC stream to a seekable sink in two passes: frames
// are written as soon as each block of samples arrives, and the
// STREAMINFO block is patched in once the stream is closed and every
// frame's size and the MD5 of all raw sample bytes are known.
type Encoder struct {
	w            io.WriteSeeker
	si           meta.StreamInfo
	md5          hash.Hash
	frameNum     uint64
	channels     int
	maxBlockSize uint16
	closed       bool
}

// NewEncoder starts a new stream: it reserves space for the STREAMINFO
// block and writes the Vorbis-comment block, then returns an Encoder
// ready to accept blocks of samples via WriteSamples.
func NewEncoder(w io.WriteSeeker, sampleRate uint32, channels int, bitDepth uint8, maxBlockSize uint16) (*Encoder, error) {
	if channels < 1 || channels > 8 {
		return nil, errutil.Newf("flacenc: unsupported channel count %d", channels)
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, errutil.Newf("flacenc: unsupported bit depth %d", bitDepth)
	}
	if sampleRate >= 1<<20 {
		return nil, errutil.Newf("flacenc: sample rate %d out of range", sampleRate)
	}

	if _, err := w.Write(make([]byte, headerSize)); err != nil {
		return nil, errutil.Err(err)
	}

	vc := meta.VorbisComment{Vendor: vendorString}
	vcBody := vc.Bytes()
	vcHeader := meta.Header{IsLast: true, Type: meta.TypeVorbisComment, Length: int64(len(vcBody))}
	if _, err := w.Write(vcHeader.Bytes()); err != nil {
		return nil, errutil.Err(err)
	}
	if _, err := w.Write(vcBody); err != nil {
		return nil, errutil.Err(err)
	}

	return &Encoder{
		w:            w,
		md5:          md5.New(),
		channels:     channels,
		maxBlockSize: maxBlockSize,
		si: meta.StreamInfo{
			BlockSizeMin:  0xFFFF,
			SampleRate:    sampleRate,
			NChannels:     uint8(channels),
			BitsPerSample: bitDepth,
		},
	}, nil
}

// WriteSamples encodes one block of interleaved-free, planar PCM samples:
// planes holds one slice per channel, each of equal length not exceeding
// maxBlockSize. The raw little-endian sample bytes (pre-sign-extension,
// at the stream's bit depth) are folded into the stream's running MD5 as
// they arrive, matching the checksum FLAC stores for lossless
// verification.
func (e *Encoder) WriteSamples(planes [][]int32) error {
	if len(planes) != e.channels {
		return errutil.Newf("flacenc: expected %d channel(s), got %d", e.channels, len(planes))
	}
	n := len(planes[0])
	if n == 0 {
		return nil
	}
	if uint16(n) > e.maxBlockSize {
		return errutil.Newf("flacenc: block of %d samples exceeds max block size %d", n, e.maxBlockSize)
	}
	if e.si.NSamples+uint64(n) >= 1<<36 {
		return errutil.Newf("flacenc: stream sample count would exceed %d", uint64(1)<<36)
	}

	e.accumulateMD5(planes)

	written, err := encodeFrame(e.w, planes, e.si.SampleRate, e.si.BitsPerSample, e.frameNum)
	if err != nil {
		return errutil.Err(err)
	}
	e.si.UpdateFrameSize(uint32(written))

	if uint16(n) < e.si.BlockSizeMin {
		e.si.BlockSizeMin = uint16(n)
	}
	if uint16(n) > e.si.BlockSizeMax {
		e.si.BlockSizeMax = uint16(n)
	}
	e.si.NSamples += uint64(n)
	e.frameNum++
	return nil
}

// accumulateMD5 folds one block's raw sample bytes into the stream's
// running checksum, in channel-interleaved order at the stream's bit
// depth, before any stereo decorrelation or prediction is applied.
func (e *Encoder) accumulateMD5(planes [][]int32) {
	n := len(planes[0])
	bytesPerSample := int(e.si.BitsPerSample+7) / 8
	buf := make([]byte, bytesPerSample)
	for i := 0; i < n; i++ {
		for _, plane := range planes {
			putLittleEndianSigned(buf, plane[i], bytesPerSample)
			e.md5.Write(buf)
		}
	}
}

func putLittleEndianSigned(buf []byte, v int32, width int) {
	u := uint32(v)
	for i := 0; i < width; i++ {
		buf[i] = byte(u >> (8 * uint(i)))
	}
}

// Close finalises the stream: it computes the final MD5, seeks back to
// the start, and patches in the real STREAMINFO block in place of the
// placeholder NewEncoder reserved.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	copy(e.si.MD5sum[:], e.md5.Sum(nil))

	if _, err := e.w.Seek(0, io.SeekStart); err != nil {
		return errutil.Err(err)
	}
	if _, err := e.w.Write([]byte("fLaC")); err != nil {
		return errutil.Err(err)
	}
	siHeader := meta.Header{IsLast: false, Type: meta.TypeStreamInfo, Length: meta.StreamInfoLen}
	if _, err := e.w.Write(siHeader.Bytes()); err != nil {
		return errutil.Err(err)
	}
	if _, err := e.w.Write(e.si.Bytes()); err != nil {
		return errutil.Err(err)
	}
	return nil
}
