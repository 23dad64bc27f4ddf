package bits_test

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"

	"github.com/toastori/flacenc/internal/bits"
)

// readUnary decodes a unary-coded value written by bits.WriteUnary: zero
// bits until a terminating one bit is found.
func readUnary(br bitio.Reader) (uint64, error) {
	var q uint64
	for {
		b, err := br.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b == 1 {
			return q, nil
		}
		q++
	}
}

func TestUnary(t *testing.T) {
	for want := uint64(0); want < 200; want++ {
		buf := &bytes.Buffer{}
		bw := bitio.NewWriter(buf)
		if err := bits.WriteUnary(bw, want); err != nil {
			t.Fatalf("unable to write unary %d: %v", want, err)
		}
		if err := bw.Close(); err != nil {
			t.Fatalf("unable to close bit writer: %v", err)
		}

		br := bitio.NewReader(buf)
		got, err := readUnary(br)
		if err != nil {
			t.Fatalf("unable to read unary: %v", err)
		}
		if got != want {
			t.Fatalf("unary round trip mismatch: wrote %d, read %d", want, got)
		}
	}
}

// TestUnaryLargeQuotient exercises the >=64 branch, which emits whole
// 64-bit zero words ahead of the terminated remainder group.
func TestUnaryLargeQuotient(t *testing.T) {
	for _, want := range []uint64{63, 64, 65, 127, 128, 129, 1000} {
		buf := &bytes.Buffer{}
		bw := bitio.NewWriter(buf)
		if err := bits.WriteUnary(bw, want); err != nil {
			t.Fatalf("unable to write unary %d: %v", want, err)
		}
		if err := bw.Close(); err != nil {
			t.Fatalf("unable to close bit writer: %v", err)
		}

		br := bitio.NewReader(buf)
		got, err := readUnary(br)
		if err != nil {
			t.Fatalf("unable to read unary: %v", err)
		}
		if got != want {
			t.Fatalf("unary round trip mismatch: wrote %d, read %d", want, got)
		}
	}
}
