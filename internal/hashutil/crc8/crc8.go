// Package crc8 implements the CRC-8 variant FLAC uses to check frame
// headers: polynomial x^8+x^2+x^1+x^0 (0x07), initialized to zero, no
// input/output reflection, no final XOR.
package crc8

import "github.com/toastori/flacenc/internal/hashutil"

// Size of a CRC-8 checksum in bytes.
const Size = 1

const poly = 0x07

// table holds the byte-at-a-time lookup table for poly.
var table = makeTable(poly)

func makeTable(poly uint8) [256]uint8 {
	var t [256]uint8
	for i := 0; i < 256; i++ {
		crc := uint8(i)
		for bit := 0; bit < 8; bit++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

// digest represents the partial evaluation of a CRC-8 checksum.
type digest struct {
	crc uint8
}

// New returns a new hashutil.Hash8 computing the FLAC frame-header CRC-8.
func New() hashutil.Hash8 {
	return &digest{}
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 1 }
func (d *digest) Reset()         { d.crc = 0 }

func (d *digest) Write(p []byte) (n int, err error) {
	crc := d.crc
	for _, b := range p {
		crc = table[crc^b]
	}
	d.crc = crc
	return len(p), nil
}

func (d *digest) Sum8() uint8 { return d.crc }

func (d *digest) Sum(in []byte) []byte {
	return append(in, d.crc)
}

// Checksum returns the CRC-8 checksum of data.
func Checksum(data []byte) uint8 {
	d := &digest{}
	_, _ = d.Write(data)
	return d.Sum8()
}
