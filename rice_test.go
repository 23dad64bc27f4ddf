package flacenc

import (
	"testing"

	"github.com/toastori/flacenc/frame"
)

// TestRiceCost checks the bits(S, L, k) formula from §4.5 directly against
// hand-computed values.
func TestRiceCost(t *testing.T) {
	golden := []struct {
		sum  uint64
		l    int
		k    uint8
		want uint64
	}{
		{sum: 10, l: 4, k: 0, want: 12}, // 4*1 + (10-2)>>0 = 4+8
		{sum: 10, l: 4, k: 1, want: 12}, // 4*2 + (10-2)>>1 = 8+4
		{sum: 10, l: 4, k: 2, want: 14}, // 4*3 + (10-2)>>2 = 12+2
		{sum: 6, l: 2, k: 1, want: 6},   // 2*2 + (6-1)>>1 = 4+2
		{sum: 20, l: 4, k: 2, want: 16}, // 4*3 + (20-2)>>2 = 12+4
	}
	for _, g := range golden {
		got := riceCost(g.sum, g.l, g.k)
		if got != g.want {
			t.Errorf("riceCost(%d, %d, %d) = %d, want %d", g.sum, g.l, g.k, got, g.want)
		}
	}
}

// TestBestParam checks the parameter search over a small hand-verified
// range where the minimal cost is unambiguous.
func TestBestParam(t *testing.T) {
	golden := []struct {
		sum      uint64
		l        int
		maxParam uint8
		wantK    uint8
		wantCost uint64
	}{
		{sum: 6, l: 2, maxParam: 4, wantK: 1, wantCost: 6},
		{sum: 14, l: 2, maxParam: 4, wantK: 2, wantCost: 9},
		{sum: 20, l: 4, maxParam: 4, wantK: 2, wantCost: 16},
	}
	for _, g := range golden {
		k, cost := bestParam(g.sum, g.l, g.maxParam)
		if k != g.wantK || cost != g.wantCost {
			t.Errorf("bestParam(%d, %d, %d) = (%d, %d), want (%d, %d)", g.sum, g.l, g.maxParam, k, cost, g.wantK, g.wantCost)
		}
	}
}

// TestOptimizeRiceSmall hand-verifies the full partition-order search on a
// tiny residual array: residuals [1, 2, 3, 4], order 0, capped at partition
// order 1. At order 1 the two-partition split costs 27 bits total; the
// single partition at order 0 costs only 24, so order 0 wins.
func TestOptimizeRiceSmall(t *testing.T) {
	residuals := []int64{1, 2, 3, 4}
	got := optimizeRice(residuals, 0, 1, 4)

	if got.Config.PartOrder != 0 {
		t.Fatalf("PartOrder = %d, want 0", got.Config.PartOrder)
	}
	if got.Config.Method != frame.MethodRice1 {
		t.Fatalf("Method = %v, want MethodRice1", got.Config.Method)
	}
	if len(got.Config.Params) != 1 || got.Config.Params[0] != 2 {
		t.Fatalf("Params = %v, want [2]", got.Config.Params)
	}
	if got.TotalBits != 24 {
		t.Fatalf("TotalBits = %d, want 24", got.TotalBits)
	}
}

// TestOptimizeRiceStructuralInvariants checks properties that must hold
// regardless of the exact search outcome: the partition order never
// exceeds the requested maximum, and the parameter slice always has
// exactly 2^PartOrder entries, each a legal (non-escaped) value.
func TestOptimizeRiceStructuralInvariants(t *testing.T) {
	residuals := make([]int64, 64)
	for i := range residuals {
		residuals[i] = int64((i%13)*7 - 40)
	}
	order := 2
	copy(residuals[:order], []int64{100, -100})

	for _, maxPartOrder := range []uint8{0, 1, 3, 8} {
		got := optimizeRice(residuals, order, maxPartOrder, 30)
		if got.Config.PartOrder > maxPartOrder {
			t.Errorf("maxPartOrder=%d: got PartOrder=%d exceeding the cap", maxPartOrder, got.Config.PartOrder)
		}
		wantParts := 1 << got.Config.PartOrder
		if len(got.Config.Params) != wantParts {
			t.Errorf("maxPartOrder=%d: len(Params)=%d, want %d", maxPartOrder, len(got.Config.Params), wantParts)
		}
		for _, p := range got.Config.Params {
			if p >= frame.EscapeParam {
				t.Errorf("maxPartOrder=%d: parameter %d is not a legal Rice parameter", maxPartOrder, p)
			}
		}
	}
}

// TestOptimizeRiceMethodWidensOnLargeParam checks that the method field
// switches to the 5-bit form only when some chosen partition parameter
// exceeds 14, per §4.5.
func TestOptimizeRiceMethodWidensOnLargeParam(t *testing.T) {
	residuals := make([]int64, 32)
	for i := range residuals {
		residuals[i] = 1 << 20 // large magnitude, needs a large k.
	}
	got := optimizeRice(residuals, 0, 3, 30)

	maxK := uint8(0)
	for _, p := range got.Config.Params {
		if p > maxK {
			maxK = p
		}
	}
	wantMethod := frame.MethodRice1
	if maxK > 14 {
		wantMethod = frame.MethodRice2
	}
	if got.Config.Method != wantMethod {
		t.Fatalf("Method = %v, want %v (maxK=%d)", got.Config.Method, wantMethod, maxK)
	}
}
