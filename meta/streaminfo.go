package meta

import "encoding/binary"

// StreamInfo is the mandatory first metadata block of a FLAC stream. It
// describes the overall stream properties and carries the MD5 checksum of
// the decoded audio samples used to verify lossless round-trip.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_streaminfo
type StreamInfo struct {
	// Minimum and maximum block size (in inter-channel samples) among all
	// frames written.
	BlockSizeMin, BlockSizeMax uint16
	// Minimum and maximum frame size (in bytes) among all frames written.
	// Zero means unknown.
	FrameSizeMin, FrameSizeMax uint32
	// Sample rate in Hz. Must be less than 1<<20.
	SampleRate uint32
	// Number of channels, in 1..=8.
	NChannels uint8
	// Bits per sample, in 4..=32.
	BitsPerSample uint8
	// Total number of inter-channel samples (samples per channel) in the
	// stream. Must be less than 1<<36. Zero means unknown/streaming.
	NSamples uint64
	// MD5 checksum of the unencoded audio samples, in the exact
	// little-endian byte layout described by the stream's bit depth. All
	// zero means not computed.
	MD5sum [16]byte
}

// Length in bytes of the encoded STREAMINFO body. Always 34, per format.
const StreamInfoLen = 34

// Bytes serialises the STREAMINFO body (without the preceding metadata
// block header) to its 34-byte big-endian wire representation.
func (si *StreamInfo) Bytes() []byte {
	buf := make([]byte, StreamInfoLen)

	binary.BigEndian.PutUint16(buf[0:2], si.BlockSizeMin)
	binary.BigEndian.PutUint16(buf[2:4], si.BlockSizeMax)

	putUint24(buf[4:7], si.FrameSizeMin)
	putUint24(buf[7:10], si.FrameSizeMax)

	// 20 bits: SampleRate, 3 bits: NChannels-1, 5 bits: BitsPerSample-1,
	// 36 bits: NSamples. These four fields share byte boundaries, so they
	// are packed together as a 64-bit big-endian value: the top 20+3+5
	// bits plus the 36-bit sample count occupy bytes [10:18).
	packed := uint64(si.SampleRate&0xFFFFF)<<44 |
		uint64((si.NChannels-1)&0x7)<<41 |
		uint64((si.BitsPerSample-1)&0x1F)<<36 |
		si.NSamples&0xFFFFFFFFF
	binary.BigEndian.PutUint64(buf[10:18], packed)

	copy(buf[18:34], si.MD5sum[:])

	return buf
}

// putUint24 writes v as a 3-byte big-endian value.
func putUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

// UpdateFrameSize folds the byte size of a just-written frame into the
// running min/max frame size bounds.
func (si *StreamInfo) UpdateFrameSize(n uint32) {
	if si.FrameSizeMin == 0 || n < si.FrameSizeMin {
		si.FrameSizeMin = n
	}
	if n > si.FrameSizeMax {
		si.FrameSizeMax = n
	}
}
