package bits

// ZigZagEncode maps a signed residual to an unsigned value, interleaving
// negative and non-negative values so that small magnitudes (whether
// positive or negative) map to small unsigned codes.
//
//	 0 =>  0
//	-1 =>  1
//	 1 =>  2
//	-2 =>  3
//	 2 =>  4
//
// ref: https://developers.google.com/protocol-buffers/docs/encoding
func ZigZagEncode(v int64) uint64 {
	if v < 0 {
		return uint64(-v)*2 - 1
	}
	return uint64(v) * 2
}

// ZigZagDecode is the inverse of ZigZagEncode.
func ZigZagDecode(x uint64) int64 {
	return int64(x>>1) ^ -int64(x&1)
}
