package flacenc

import (
	"bytes"
	"testing"

	"github.com/toastori/flacenc/frame"
	"github.com/toastori/flacenc/internal/bits"
)

// writeSubframeBytes writes sf through a fresh FrameWriter over a buffer and
// returns the bytes produced, with no CRC footer appended.
func writeSubframeBytes(t *testing.T, sf *frame.Subframe, sampleSize uint8) []byte {
	t.Helper()
	var buf bytes.Buffer
	fw := bits.NewFrame(&buf)
	if err := writeSubframe(fw, sf, sampleSize); err != nil {
		t.Fatalf("writeSubframe: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

// TestWriteSubframeConstant checks the exact byte layout for a constant
// subframe: header 0x00 (type 0, no wasted bits), then the sample value
// packed into sampleSize bits.
func TestWriteSubframeConstant(t *testing.T) {
	sf := &frame.Subframe{Pred: frame.PredConstant, Samples: []int64{0x1234}}
	got := writeSubframeBytes(t, sf, 16)
	want := []byte{0x00, 0x12, 0x34}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes = %x, want %x", got, want)
	}
}

// TestWriteSubframeVerbatim checks the exact byte layout for a verbatim
// subframe: header 0x02, then every sample packed into sampleSize bits.
func TestWriteSubframeVerbatim(t *testing.T) {
	sf := &frame.Subframe{Pred: frame.PredVerbatim, Samples: []int64{1, 2, 3, 4}}
	got := writeSubframeBytes(t, sf, 16)
	want := []byte{0x02, 0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes = %x, want %x", got, want)
	}
}

// TestWriteSubframeConstantNegative checks that a negative constant value is
// packed as its two's-complement bit pattern, not its absolute value.
func TestWriteSubframeConstantNegative(t *testing.T) {
	sf := &frame.Subframe{Pred: frame.PredConstant, Samples: []int64{-1}}
	got := writeSubframeBytes(t, sf, 8)
	want := []byte{0x00, 0xFF}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes = %x, want %x", got, want)
	}
}

// TestChooseSubframeConstant checks the constant short-circuit: a run of
// identical samples is always coded as Constant, regardless of length.
func TestChooseSubframeConstant(t *testing.T) {
	samples := make([]int64, 30)
	for i := range samples {
		samples[i] = -5
	}
	sf := chooseSubframe(samples, 16)
	if sf.Pred != frame.PredConstant {
		t.Fatalf("Pred = %v, want PredConstant", sf.Pred)
	}
	if len(sf.Samples) != 1 || sf.Samples[0] != -5 {
		t.Fatalf("Samples = %v, want [-5]", sf.Samples)
	}
}

// TestChooseSubframeShortRunIsVerbatim checks that a channel too short to
// carry a warm-up plus any real Rice-coded residual (n<=4) always falls
// back to verbatim, per §4.4.
func TestChooseSubframeShortRunIsVerbatim(t *testing.T) {
	samples := []int64{1, 2, 4, 8}
	sf := chooseSubframe(samples, 16)
	if sf.Pred != frame.PredVerbatim {
		t.Fatalf("Pred = %v, want PredVerbatim", sf.Pred)
	}
}

// TestChooseSubframeFixedRoundTripsThroughWriter picks a non-degenerate
// signal long enough to favor fixed prediction, then checks that the
// chosen subframe's header byte, once written, faithfully encodes the
// reported predictor order: header = (8|order)<<1.
func TestChooseSubframeFixedRoundTripsThroughWriter(t *testing.T) {
	samples := []int64{
		3, -7, 12, 0, -4, 9, 9, -2, 15, -11,
		20, -18, 7, 14, -9, 22, -3, 6, -12, 17,
	}
	sf := chooseSubframe(samples, 16)

	got := writeSubframeBytes(t, sf, 16)
	if len(got) == 0 {
		t.Fatal("writeSubframe produced no bytes")
	}

	switch sf.Pred {
	case frame.PredFixed:
		want := byte((8 | sf.Order) << 1)
		if got[0] != want {
			t.Fatalf("header byte = %#x, want %#x for order %d", got[0], want, sf.Order)
		}
		if sf.Order < 0 || sf.Order > 4 {
			t.Fatalf("Order = %d out of range [0,4]", sf.Order)
		}
	case frame.PredVerbatim:
		if got[0] != 0x02 {
			t.Fatalf("header byte = %#x, want 0x02", got[0])
		}
	default:
		t.Fatalf("unexpected Pred %v for a non-constant, varying signal", sf.Pred)
	}
}

// TestWriteSubframePanicsOnEscapedParam checks that writeRicePartitions
// refuses to emit an escaped Rice parameter rather than encoding it as a
// bogus 4- or 5-bit field, per the documented decision to not support
// escape-coded partitions.
func TestWriteSubframePanicsOnEscapedParam(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected writeSubframe to panic on an escaped Rice parameter")
		}
	}()

	sf := &frame.Subframe{
		Pred:      frame.PredFixed,
		Order:     0,
		Residuals: []int64{1, 2, 3, 4, 5},
		Rice: frame.RiceConfig{
			Method:    frame.MethodRice1,
			PartOrder: 0,
			Params:    []uint8{frame.EscapeParam},
		},
	}
	_ = writeSubframeBytes(t, sf, 16)
}
