package bits

import "github.com/icza/bitio"

// WriteUnary encodes x as a unary coded integer: x zero bits followed by a
// terminating one bit.
//
//	0 => 1
//	1 => 01
//	2 => 001
//	3 => 0001
//
// Values of x larger than 63 are emitted as whole 64-bit zero words before
// the final terminated group, so arbitrarily large quotients never require
// a wider native integer to shift.
func WriteUnary(bw bitio.Writer, x uint64) error {
	for x >= 64 {
		if err := bw.WriteBits(0, 64); err != nil {
			return err
		}
		x -= 64
	}
	// x zero bits followed by a single one bit, packed into one write.
	return bw.WriteBits(1, uint8(x+1))
}
