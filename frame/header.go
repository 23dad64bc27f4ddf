// Package frame defines the types the encoder uses to describe a FLAC
// audio frame: its header fields, channel assignment, and the per-channel
// subframe representations chosen for it.
package frame

// Channels identifies how many independent channels a frame carries, or,
// for two-channel streams, which inter-channel decorrelation was applied.
// The first eight values are "independent channels - 1"; the last three
// are the stereo-decorrelation modes.
//
// ref: https://www.xiph.org/flac/format.html#frame_header
type Channels uint8

const (
	ChannelsMono Channels = iota
	ChannelsLR
	ChannelsLRC
	ChannelsLRLsRs
	ChannelsLRCLsRs
	ChannelsLRCLfeLsRs
	ChannelsLRCLfeCsSlSr
	ChannelsLRCLfeLsRsSlSr

	ChannelsLeftSide  // 1000: channel 0 = left, channel 1 = side
	ChannelsSideRight // 1001: channel 0 = side, channel 1 = right
	ChannelsMidSide   // 1010: channel 0 = mid, channel 1 = side
)

// Count returns the number of subframes (and hence input channels) this
// assignment requires.
func (c Channels) Count() int {
	switch c {
	case ChannelsLeftSide, ChannelsSideRight, ChannelsMidSide:
		return 2
	default:
		return int(c) + 1
	}
}

// Header holds the per-frame fields needed to emit a frame header. It does
// not include the sync code, reserved bits, or CRC-8, which the frame
// encoder derives and appends itself.
type Header struct {
	// HasFixedBlockSize selects whether Num is a frame number (fixed
	// block size streams) or a sample number (variable block size
	// streams). This encoder always operates in fixed-block-size mode.
	HasFixedBlockSize bool
	// BlockSize is the number of inter-channel samples in this frame.
	BlockSize uint16
	// SampleRate in Hz. Zero means "see STREAMINFO".
	SampleRate uint32
	// Channels selects the independent-channel count or stereo mode.
	Channels Channels
	// BitsPerSample is the frame's nominal sample size; side channels
	// carry one extra bit not reflected here (encoded as BitsPerSample+1
	// wherever the subframe stores a side channel).
	BitsPerSample uint8
	// Num is the frame number (fixed block size) or starting sample
	// number (variable block size).
	Num uint64
}
