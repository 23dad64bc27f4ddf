package bits

import (
	"io"

	"github.com/icza/bitio"

	"github.com/toastori/flacenc/internal/hashutil"
	"github.com/toastori/flacenc/internal/hashutil/crc16"
	"github.com/toastori/flacenc/internal/hashutil/crc8"
)

// countingWriter tracks the number of bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// FrameWriter is the bit-level writer used to emit one FLAC frame. It
// writes big-endian, MSB-first bit fields to an underlying byte sink (via
// icza/bitio) while layering the two CRCs the frame format requires: a
// CRC-8 over the header alone, and a CRC-16 over the header, its CRC-8
// byte, and every subframe and padding byte that follows, excluding the
// CRC-16 footer itself.
//
// The split is implemented by chaining both CRC hashes and the byte
// counter into an io.MultiWriter under the bitio.Writer; when the header's
// CRC-8 byte is emitted, a second multi-writer swap re-points the writer
// at the CRC-16 hash and the byte counter only, so the CRC-8 stops
// accumulating while the CRC-16 continues.
type FrameWriter struct {
	count *countingWriter
	crc8  hashutil.Hash8
	crc16 hashutil.Hash16
	bw    bitio.Writer
}

// NewFrame starts a new frame, writing to sink. Call it once per frame.
func NewFrame(sink io.Writer) *FrameWriter {
	fw := &FrameWriter{
		count: &countingWriter{w: sink},
		crc8:  crc8.New(),
		crc16: crc16.New(),
	}
	fw.bw = bitio.NewWriter(io.MultiWriter(fw.crc8, fw.crc16, fw.count))
	return fw
}

// BitWriter exposes the underlying bit writer for packages that need to
// compose bit-level encodings (such as internal/utf8) directly against it.
func (fw *FrameWriter) BitWriter() bitio.Writer {
	return fw.bw
}

// WriteBits appends the low n bits (1 <= n <= 64) of value to the stream.
// value must already fit in n unsigned bits.
func (fw *FrameWriter) WriteBits(n uint8, value uint64) error {
	return fw.bw.WriteBits(value, n)
}

// WriteBitsWrapped is the safe form of WriteBits: it masks value to its low
// n bits first, so callers may pass values derived from signed arithmetic
// without precomputing the mask themselves.
func (fw *FrameWriter) WriteBitsWrapped(n uint8, value uint64) error {
	if n < 64 {
		value &= (uint64(1) << n) - 1
	}
	return fw.bw.WriteBits(value, n)
}

// WriteUnary writes q zero bits followed by a terminating one bit.
func (fw *FrameWriter) WriteUnary(q uint64) error {
	return WriteUnary(fw.bw, q)
}

// Align pads the current bit buffer to a byte boundary with zero bits.
func (fw *FrameWriter) Align() error {
	_, err := fw.bw.Align()
	return err
}

// WriteCRC8 flushes any pending header bits to a byte boundary, then emits
// the CRC-8 of every header byte written so far. It must be called exactly
// once, right after the frame header, before any subframe bits are
// written; after it returns, the writer no longer feeds the CRC-8 hash.
func (fw *FrameWriter) WriteCRC8() error {
	if err := fw.Align(); err != nil {
		return err
	}
	sum := fw.crc8.Sum8()
	// Re-point the bit writer so that subsequent writes (subframes, the
	// trailing padding, and eventually the CRC-16 footer's own preceding
	// bytes) only feed the CRC-16 hash and the byte counter, matching the
	// coverage rule: CRC-8 covers the header only, CRC-16 covers
	// everything up to but excluding itself.
	fw.bw = bitio.NewWriter(io.MultiWriter(fw.crc16, fw.count))
	return fw.bw.WriteBits(uint64(sum), 8)
}

// WriteCRC16 flushes any pending bits to a byte boundary, then emits the
// big-endian CRC-16 footer of everything written since NewFrame up to this
// point (header, CRC-8 byte, subframes, and padding).
func (fw *FrameWriter) WriteCRC16() error {
	if err := fw.Align(); err != nil {
		return err
	}
	sum := fw.crc16.Sum16()
	bw := bitio.NewWriter(fw.count)
	if err := bw.WriteBits(uint64(sum), 16); err != nil {
		return err
	}
	return bw.Close()
}

// BytesWritten returns the number of bytes emitted to the sink so far for
// this frame, including any CRC-16 footer already written.
func (fw *FrameWriter) BytesWritten() int64 {
	return fw.count.n
}

// Close flushes any pending bits (padding the final byte with zeros).
func (fw *FrameWriter) Close() error {
	return fw.bw.Close()
}
