package flacenc

import "github.com/toastori/flacenc/frame"

// stereoEstimate scores one of the four candidate stereo encodings ahead
// of actually building the channel buffers, using a cheap second-order
// fixed predictor and the same Rice cost approximation the partition
// optimiser uses.
func stereoEstimate(sum uint64, frameSize int) uint64 {
	if sum == 0 {
		return 5
	}
	k := log2Floor(int(2*sum)) - log2Floor(frameSize)
	if k < 0 {
		k = 0
	}
	l := frameSize
	return uint64(l)*(uint64(k)+1) + ((2*sum - uint64(l)/2) >> uint(k))
}

// chooseStereoMode estimates the encoded bit cost of each of the four
// stereo encodings (left+right, left+side, side+right, mid+side) from the
// left and right channel buffers and returns the cheapest.
//
// For every sample index i >= 2 it accumulates the absolute second-order
// fixed-predictor residual of left, right, mid ((l+r)>>1), and side
// (l-r), then converts each channel's running sum to an estimated bit
// cost. Ties favour the first minimum in the order L+R, L+S, S+R, M+S.
func chooseStereoMode(left, right []int32) frame.Channels {
	var sumL, sumR, sumM, sumS uint64
	for i := 2; i < len(left); i++ {
		lr := int64(left[i]) - 2*int64(left[i-1]) + int64(left[i-2])
		rr := int64(right[i]) - 2*int64(right[i-1]) + int64(right[i-2])
		sumL += absI64(lr)
		sumR += absI64(rr)
		sumM += absI64((lr + rr) >> 1)
		sumS += absI64(lr - rr)
	}

	n := len(left)
	costL := stereoEstimate(sumL, n)
	costR := stereoEstimate(sumR, n)
	costM := stereoEstimate(sumM, n)
	costS := stereoEstimate(sumS, n)

	scores := [4]uint64{
		costL + costR, // LeftRight
		costL + costS, // LeftSide
		costS + costR, // SideRight
		costM + costS, // MidSide
	}
	modes := [4]frame.Channels{
		frame.ChannelsLR,
		frame.ChannelsLeftSide,
		frame.ChannelsSideRight,
		frame.ChannelsMidSide,
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] < scores[best] {
			best = i
		}
	}
	return modes[best]
}

// midSideBuffers computes the mid and side channels for stereo
// decorrelation. Side is stored one bit wider than the source samples (the
// caller encodes it at bitDepth+1); when bitDepth is already 32, the side
// values no longer fit in int32 arithmetic safely, so mid and side are
// both returned as int64 here and the caller encodes them as int64.
func midSideBuffers(left, right []int32) (mid, side []int64) {
	mid = make([]int64, len(left))
	side = make([]int64, len(left))
	for i := range left {
		l, r := int64(left[i]), int64(right[i])
		mid[i] = (l + r) >> 1
		side[i] = l - r
	}
	return mid, side
}
