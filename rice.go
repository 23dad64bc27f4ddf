package flacenc

import (
	stdbits "math/bits"

	"github.com/toastori/flacenc/frame"
	"github.com/toastori/flacenc/internal/bits"
)

// riceCost returns the encoded bit count of a partition of L residuals with
// zigzag-sum S and Rice parameter k: the unary quotient bits plus the k-bit
// remainder for every residual, approximated from the partition sum alone.
func riceCost(sum uint64, l int, k uint8) uint64 {
	return uint64(l)*(uint64(k)+1) + ((sum - uint64(l)/2) >> k)
}

// bestParam returns the parameter k in 0..=maxParam minimising riceCost for
// a partition of l residuals summing to sum, along with that minimal cost.
func bestParam(sum uint64, l int, maxParam uint8) (k uint8, cost uint64) {
	cost = riceCost(sum, l, 0)
	for kk := uint8(1); kk <= maxParam; kk++ {
		c := riceCost(sum, l, kk)
		if c < cost {
			cost = c
			k = kk
		}
	}
	return k, cost
}

// riceResult is the outcome of the partition-order search: the total
// encoded bit count (residuals plus partition-order/method/parameter
// overhead) and the winning configuration.
type riceResult struct {
	TotalBits uint64
	Config    frame.RiceConfig
}

// optimizeRice picks the partition order, method, and per-partition
// parameters minimising the encoded size of residuals (residuals[order:])
// given residuals[:order] are warm-up samples not covered by any
// partition's residual count but excluded from the first partition's
// length. maxPartOrder bounds the search (the subframe chooser passes 8);
// maxParam bounds the per-partition parameter (14 or 30 depending on
// sample size).
func optimizeRice(residuals []int64, order int, maxPartOrder uint8, maxParam uint8) riceResult {
	n := len(residuals)

	pMax := maxPartOrder
	if tz := uint8(trailingZeros(n)); tz < pMax {
		pMax = tz
	}
	if order > 0 {
		if lg := log2Floor(n) - log2Floor(order); uint8(lg) < pMax {
			pMax = uint8(lg)
		}
	}

	// zz holds the zigzag-encoded residuals (not the warm-up samples);
	// sums at the finest partition order are built directly from it, then
	// coarser levels are obtained by pairwise merging.
	zz := make([]uint64, n-order)
	for i, r := range residuals[order:] {
		zz[i] = bits.ZigZagEncode(r)
	}

	lMax := n >> pMax
	finest := make([]uint64, 1<<pMax)
	for part := 0; part < 1<<pMax; part++ {
		start := part * lMax
		end := start + lMax
		if part == 0 {
			start += order
		}
		var sum uint64
		for i := start; i < end; i++ {
			sum += zz[i-order]
		}
		finest[part] = sum
	}

	var best riceResult
	best.TotalBits = ^uint64(0)

	sums := finest
	for o := int(pMax); o >= 0; o-- {
		partCount := 1 << o
		l := n >> o
		params := make([]uint8, partCount)
		var total uint64
		maxK := uint8(0)
		for part := 0; part < partCount; part++ {
			pl := l
			if part == 0 {
				pl -= order
			}
			k, cost := bestParam(sums[part], pl, maxParam)
			params[part] = k
			total += cost
			if k > maxK {
				maxK = k
			}
		}
		method := frame.MethodRice1
		paramBits := uint8(4)
		if maxK > 14 {
			method = frame.MethodRice2
			paramBits = 5
		}
		// 4 bits for the partition-order field itself, once, plus
		// paramBits per partition.
		total += 4 + uint64(paramBits)*uint64(partCount)

		// Ties favour whichever order is evaluated last in this loop (the
		// lowest order, since the search runs from pMax down to 0).
		if total <= best.TotalBits {
			best.TotalBits = total
			best.Config = frame.RiceConfig{
				Method:    method,
				PartOrder: uint8(o),
				Params:    params,
			}
		}

		if o > 0 {
			merged := make([]uint64, partCount/2)
			for i := range merged {
				merged[i] = sums[2*i] + sums[2*i+1]
			}
			sums = merged
		}
	}

	return best
}

func trailingZeros(n int) int {
	if n == 0 {
		return 0
	}
	return stdbits.TrailingZeros(uint(n))
}

func log2Floor(n int) int {
	if n <= 0 {
		return 0
	}
	return stdbits.Len(uint(n)) - 1
}
