// Package utf8 encodes the "UTF-8-like" variable-length integers FLAC uses
// for frame and sample numbers in frame headers.
package utf8

import "github.com/icza/bitio"

const (
	t2 = 0xC0
	t3 = 0xE0
	t4 = 0xF0
	t5 = 0xF8
	t6 = 0xFC
	t7 = 0xFE
	tx = 0x80

	mask2 = 0x1F
	mask3 = 0x0F
	mask4 = 0x07
	mask5 = 0x03
	mask6 = 0x01
	maskx = 0x3F

	max1 = 1<<7 - 1
	max2 = 1<<11 - 1
	max3 = 1<<16 - 1
	max4 = 1<<21 - 1
	max5 = 1<<26 - 1
	max6 = 1<<31 - 1
	max7 = 1<<36 - 1
)

// Encode writes x as a "UTF-8" coded number (1 to 7 bytes), used by frame
// headers to store the frame or sample number.
func Encode(bw bitio.Writer, x uint64) error {
	if x <= max1 {
		return bw.WriteBits(x, 8)
	}

	var (
		cont int
		lead uint64
	)
	switch {
	case x <= max2:
		cont = 1
		lead = t2 | (x>>6)&mask2
	case x <= max3:
		cont = 2
		lead = t3 | (x>>12)&mask3
	case x <= max4:
		cont = 3
		lead = t4 | (x>>18)&mask4
	case x <= max5:
		cont = 4
		lead = t5 | (x>>24)&mask5
	case x <= max6:
		cont = 5
		lead = t6 | (x>>30)&mask6
	default:
		// x <= max7 == 1<<36-1 always holds here: frame and sample
		// numbers are bounded by STREAMINFO's interchannel-sample limit.
		cont = 6
		lead = t7
	}

	if err := bw.WriteBits(lead, 8); err != nil {
		return err
	}
	for i := cont - 1; i >= 0; i-- {
		b := tx | (x>>uint(6*i))&maskx
		if err := bw.WriteBits(b, 8); err != nil {
			return err
		}
	}
	return nil
}
