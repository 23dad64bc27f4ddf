package flacenc

// fixedCoeffs are the integer polynomial coefficients for fixed predictor
// orders 0..4, equivalent to (1-z^-1)^n.
var fixedCoeffs = [5][]int64{
	{},
	{1},
	{2, -1},
	{3, -3, 1},
	{4, -6, 4, -1},
}

// poisonedSum marks a fixed-predictor order whose residuals overflowed the
// i32 range the subframe writer requires. It is chosen well above any sum
// of absolute residuals that real samples could produce, so it always
// loses the minimisation in bestFixedOrder.
const poisonedSum = uint64(1)<<49 - 1

const (
	minI32 = -1 << 31
	maxI32 = 1<<31 - 1
)

func absI64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// computeFixedResiduals fills dst (len(dst) == len(samples)) with the
// residual set for the given predictor order: dst[:order] are the raw
// warm-up samples and dst[order:] are the prediction residuals.
func computeFixedResiduals(dst, samples []int64, order int) {
	copy(dst[:order], samples[:order])
	coeffs := fixedCoeffs[order]
	for i := order; i < len(samples); i++ {
		var pred int64
		for j, c := range coeffs {
			pred += c * samples[i-1-j]
		}
		dst[i] = samples[i] - pred
	}
}

// sumAbsResiduals returns the sum of absolute residuals for the given
// order, and reports via inRange whether every residual fit in i32 range.
// checkRange gates the range check: the spec only requires it once sample
// size reaches 28 bits, where order-4 prediction can plausibly overflow.
func sumAbsResiduals(samples []int64, order int, checkRange bool) (sum uint64, inRange bool) {
	coeffs := fixedCoeffs[order]
	inRange = true
	for i := 0; i < order; i++ {
		sum += absI64(samples[i])
	}
	for i := order; i < len(samples); i++ {
		var pred int64
		for j, c := range coeffs {
			pred += c * samples[i-1-j]
		}
		residual := samples[i] - pred
		if checkRange && (residual < minI32 || residual > maxI32) {
			inRange = false
		}
		sum += absI64(residual)
	}
	return sum, inRange
}

// bestFixedOrder evaluates fixed predictor orders 0..4 against samples and
// returns the order with the minimum sum of absolute residuals. checkRange
// should be set once the subframe's sample size is 28 bits or more, the
// point at which an order-4 residual can plausibly fall outside i32 range;
// an order whose residuals don't fit is poisoned out of consideration. If
// every order is poisoned, ok is false and the caller must fall back to
// Verbatim.
//
// Ties are broken in favour of the lowest order, matching the order in
// which orders are tried: a later order only displaces the current best
// on a strict improvement.
func bestFixedOrder(samples []int64, checkRange bool) (order int, ok bool) {
	maxOrder := 4
	if len(samples) < maxOrder {
		maxOrder = len(samples)
	}

	bestOrder := 0
	bestSum := poisonedSum + 1
	anyInRange := false
	for o := 0; o <= maxOrder; o++ {
		sum, rangeOK := sumAbsResiduals(samples, o, checkRange)
		if !rangeOK {
			sum = poisonedSum
		} else {
			anyInRange = true
		}
		if sum < bestSum {
			bestSum = sum
			bestOrder = o
		}
	}
	if !anyInRange {
		return 0, false
	}
	return bestOrder, true
}
