package flacenc

import (
	"github.com/toastori/flacenc/frame"
	"github.com/toastori/flacenc/internal/bits"
)

const maxPartOrder = 8

// chooseSubframe picks the cheapest representation for one channel's
// samples: Constant if every sample is identical, Verbatim for very short
// channels or when fixed-prediction plus Rice coding doesn't beat it, and
// Fixed otherwise.
func chooseSubframe(samples []int64, sampleSize int) *frame.Subframe {
	if allEqual(samples) {
		return &frame.Subframe{Pred: frame.PredConstant, Samples: samples[:1]}
	}

	n := len(samples)
	if n <= 4 {
		return &frame.Subframe{Pred: frame.PredVerbatim, Samples: samples}
	}

	verbatimBits := uint64(n) * uint64(sampleSize)

	checkRange := sampleSize >= 28
	order, ok := bestFixedOrder(samples, checkRange)
	if !ok {
		return &frame.Subframe{Pred: frame.PredVerbatim, Samples: samples}
	}

	residuals := make([]int64, n)
	computeFixedResiduals(residuals, samples, order)

	maxParam := uint8(30)
	if sampleSize <= 16 {
		maxParam = 14
	}
	rr := optimizeRice(residuals, order, maxPartOrder, maxParam)

	headerOverhead := uint64(order) * uint64(sampleSize)
	fixedTotalBits := rr.TotalBits + headerOverhead

	if fixedTotalBits < verbatimBits {
		return &frame.Subframe{
			Pred:      frame.PredFixed,
			Order:     order,
			Residuals: residuals,
			Rice:      rr.Config,
		}
	}
	return &frame.Subframe{Pred: frame.PredVerbatim, Samples: samples}
}

func allEqual(samples []int64) bool {
	for _, s := range samples[1:] {
		if s != samples[0] {
			return false
		}
	}
	return true
}

// writeSubframe emits sf to fw, preceded by the subframe header byte (`0`
// padding bit, 6-bit coding type, `0` wasted-bits bit). sampleSize is the
// bit depth this channel's samples are stored at (bit_depth+1 for a side
// channel).
func writeSubframe(fw *bits.FrameWriter, sf *frame.Subframe, sampleSize uint8) error {
	switch sf.Pred {
	case frame.PredConstant:
		if err := fw.WriteBits(8, 0x00); err != nil {
			return err
		}
		return fw.WriteBitsWrapped(sampleSize, uint64(sf.Samples[0]))

	case frame.PredVerbatim:
		if err := fw.WriteBits(8, 0x02); err != nil {
			return err
		}
		for _, s := range sf.Samples {
			if err := fw.WriteBitsWrapped(sampleSize, uint64(s)); err != nil {
				return err
			}
		}
		return nil

	case frame.PredFixed:
		header := uint64(8|sf.Order) << 1
		if err := fw.WriteBits(8, header); err != nil {
			return err
		}
		for i := 0; i < sf.Order; i++ {
			if err := fw.WriteBitsWrapped(sampleSize, uint64(sf.Residuals[i])); err != nil {
				return err
			}
		}
		return writeRicePartitions(fw, sf.Residuals, sf.Order, sf.Rice)

	default:
		panic("flacenc: unsupported subframe predictor")
	}
}

// writeRicePartitions writes the Rice method, partition order, and every
// partition's parameter and Rice-coded residuals.
func writeRicePartitions(fw *bits.FrameWriter, residuals []int64, order int, rc frame.RiceConfig) error {
	if err := fw.WriteBits(2, uint64(rc.Method)); err != nil {
		return err
	}
	if err := fw.WriteBits(4, uint64(rc.PartOrder)); err != nil {
		return err
	}

	paramBits := uint8(4)
	if rc.Method == frame.MethodRice2 {
		paramBits = 5
	}

	n := len(residuals)
	partCount := 1 << rc.PartOrder
	l := n >> rc.PartOrder

	idx := order
	for part := 0; part < partCount; part++ {
		k := rc.Params[part]
		if k == frame.EscapeParam {
			panic("flacenc: escaped Rice partitions are not supported")
		}
		if err := fw.WriteBits(paramBits, uint64(k)); err != nil {
			return err
		}
		pl := l
		if part == 0 {
			pl -= order
		}
		for i := 0; i < pl; i++ {
			v := bits.ZigZagEncode(residuals[idx])
			idx++
			if err := fw.WriteUnary(v >> k); err != nil {
				return err
			}
			if k > 0 {
				if err := fw.WriteBits(k, v&((uint64(1)<<k)-1)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
