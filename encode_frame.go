package flacenc

import (
	"io"

	"github.com/toastori/flacenc/frame"
	"github.com/toastori/flacenc/internal/bits"
	"github.com/toastori/flacenc/internal/utf8"
)

var commonBlockSizes = map[uint16]uint64{
	192: 1, 576: 2, 1152: 3, 2304: 4, 4608: 5,
	256: 8, 512: 9, 1024: 10, 2048: 11, 4096: 12, 8192: 13, 16384: 14, 32768: 15,
}

var commonSampleRates = map[uint32]uint64{
	88200: 1, 176400: 2, 192000: 3, 8000: 4, 16000: 5, 22050: 6,
	24000: 7, 32000: 8, 44100: 9, 48000: 10, 96000: 11,
}

// blockSizeCode returns the 4-bit block-size code for blockSize, and
// whether an 8-bit ("uncommon8") or 16-bit uncommon trailer holding
// blockSize-1 must follow the header's fixed fields.
func blockSizeCode(blockSize uint16) (code uint64, uncommon8, uncommon16 bool) {
	if c, ok := commonBlockSizes[blockSize]; ok {
		return c, false, false
	}
	if blockSize <= 256 {
		return 0b0110, true, false
	}
	return 0b0111, false, true
}

// sampleRateCode returns the 4-bit sample-rate code for rate, and whether
// an 8-bit, 16-bit, or 16-bit-in-tens-of-Hz trailer must follow. Rates that
// fit none of the uncommon trailer forms (greater than 65535 Hz and either
// not a multiple of ten or above 655350 Hz) fall back to code 0, which tells a reader to take the
// sample rate from STREAMINFO instead of the frame header.
func sampleRateCode(rate uint32) (code uint64, trailerBits uint8, tensOfHz bool) {
	if rate == 0 {
		return 0, 0, false
	}
	if c, ok := commonSampleRates[rate]; ok {
		return c, 0, false
	}
	switch {
	case rate <= 255:
		return 12, 8, false
	case rate%10 == 0 && rate/10 <= 0xFFFF:
		return 14, 16, true
	case rate <= 0xFFFF:
		return 13, 16, false
	default:
		return 0, 0, false
	}
}

// bitDepthCode returns the 4-bit bit-depth code for depth (the format's
// 3-bit sample-size table plus its trailing reserved bit, folded into one
// field). Depths 12 and 20 never occur in this encoder's output
// (NewEncoder rejects them) and have no entry here; any depth without an
// entry maps to code 0, which defers to STREAMINFO.
func bitDepthCode(depth uint8) uint64 {
	switch depth {
	case 8:
		return 2
	case 16:
		return 8
	case 24:
		return 12
	case 32:
		return 14
	default:
		return 0
	}
}

// writeFrameHeader emits the frame header described by h, including its
// sync code and trailing CRC-8, leaving the writer positioned at the
// start of the first subframe.
func writeFrameHeader(fw *bits.FrameWriter, h frame.Header) error {
	sync := uint64(0xFFF8)
	if !h.HasFixedBlockSize {
		sync = 0xFFF9
	}
	if err := fw.WriteBits(16, sync); err != nil {
		return err
	}

	bsCode, bsUncommon8, bsUncommon16 := blockSizeCode(h.BlockSize)
	if err := fw.WriteBits(4, bsCode); err != nil {
		return err
	}

	srCode, srTrailerBits, srTensOfHz := sampleRateCode(h.SampleRate)
	if err := fw.WriteBits(4, srCode); err != nil {
		return err
	}

	if err := fw.WriteBits(4, uint64(h.Channels)); err != nil {
		return err
	}

	if err := fw.WriteBits(4, bitDepthCode(h.BitsPerSample)); err != nil {
		return err
	}

	if err := utf8.Encode(fw.BitWriter(), h.Num); err != nil {
		return err
	}

	switch {
	case bsUncommon8:
		if err := fw.WriteBits(8, uint64(h.BlockSize-1)); err != nil {
			return err
		}
	case bsUncommon16:
		if err := fw.WriteBits(16, uint64(h.BlockSize-1)); err != nil {
			return err
		}
	}

	if srTrailerBits > 0 {
		v := uint64(h.SampleRate)
		if srTensOfHz {
			v /= 10
		}
		if err := fw.WriteBits(srTrailerBits, v); err != nil {
			return err
		}
	}

	return fw.WriteCRC8()
}

// encodeFrame writes one frame to sink for the given channel planes and
// returns the number of bytes written. len(planes) must be in 1..=8.
//
// Two-channel input is decorrelated per chooseStereoMode (§4.6) before
// the two resulting planes are run through the subframe chooser
// independently, each at its own effective sample size (bitDepth+1 for a
// side channel). Every other channel count is coded as independent
// channels at bitDepth.
func encodeFrame(sink io.Writer, planes [][]int32, sampleRate uint32, bitDepth uint8, frameNum uint64) (int64, error) {
	fw := bits.NewFrame(sink)

	blockSize := uint16(len(planes[0]))
	var channels frame.Channels
	var subSizes []uint8
	var samples64 [][]int64

	switch len(planes) {
	case 2:
		channels = chooseStereoMode(planes[0], planes[1])
		mid, side := midSideBuffers(planes[0], planes[1])
		switch channels {
		case frame.ChannelsLR:
			subSizes = []uint8{bitDepth, bitDepth}
			samples64 = [][]int64{toInt64(planes[0]), toInt64(planes[1])}
		case frame.ChannelsLeftSide:
			subSizes = []uint8{bitDepth, bitDepth + 1}
			samples64 = [][]int64{toInt64(planes[0]), side}
		case frame.ChannelsSideRight:
			subSizes = []uint8{bitDepth + 1, bitDepth}
			samples64 = [][]int64{side, toInt64(planes[1])}
		case frame.ChannelsMidSide:
			subSizes = []uint8{bitDepth, bitDepth + 1}
			samples64 = [][]int64{mid, side}
		}

	default:
		if len(planes) < 1 || len(planes) > 8 {
			panic("flacenc: encodeFrame supports 1 to 8 channels")
		}
		channels = frame.Channels(len(planes) - 1)
		subSizes = make([]uint8, channels.Count())
		samples64 = make([][]int64, channels.Count())
		for i, p := range planes {
			subSizes[i] = bitDepth
			samples64[i] = toInt64(p)
		}
	}

	header := frame.Header{
		HasFixedBlockSize: true,
		BlockSize:         blockSize,
		SampleRate:        sampleRate,
		Channels:          channels,
		BitsPerSample:     bitDepth,
		Num:               frameNum,
	}
	if err := writeFrameHeader(fw, header); err != nil {
		return 0, err
	}

	for i, samples := range samples64 {
		sf := chooseSubframe(samples, int(subSizes[i]))
		if err := writeSubframe(fw, sf, subSizes[i]); err != nil {
			return 0, err
		}
	}

	if err := fw.WriteCRC16(); err != nil {
		return 0, err
	}
	return fw.BytesWritten(), nil
}

func toInt64(samples []int32) []int64 {
	out := make([]int64, len(samples))
	for i, s := range samples {
		out[i] = int64(s)
	}
	return out
}
