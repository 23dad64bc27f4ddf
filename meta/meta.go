// Package meta defines the FLAC metadata blocks emitted before the first
// audio frame: STREAMINFO and a minimal VORBIS_COMMENT vendor block.
package meta

// Type identifies the kind of a metadata block.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_header
type Type uint8

// Metadata block types. Only StreamInfo and VorbisComment are produced by
// this encoder; the remaining constants are kept complete against the
// format's full type table so Type.String can describe any block type a
// caller might log or validate, not just the ones this encoder emits.
const (
	TypeStreamInfo    Type = 0
	TypePadding       Type = 1
	TypeApplication   Type = 2
	TypeSeekTable     Type = 3
	TypeVorbisComment Type = 4
	TypeCueSheet      Type = 5
	TypePicture       Type = 6
	TypeForbidden     Type = 127
)

func (t Type) String() string {
	switch t {
	case TypeStreamInfo:
		return "stream info"
	case TypePadding:
		return "padding"
	case TypeApplication:
		return "application"
	case TypeSeekTable:
		return "seek table"
	case TypeVorbisComment:
		return "vorbis comment"
	case TypeCueSheet:
		return "cue sheet"
	case TypePicture:
		return "picture"
	default:
		return "forbidden"
	}
}

// Header is the 8-bit-aligned, 32-bit metadata block header that precedes
// every metadata block body: a 1-bit last-block flag, a 7-bit block type,
// and a 24-bit body length in bytes.
type Header struct {
	IsLast bool
	Type   Type
	Length int64
}

// Bytes encodes the header as its 4-byte on-disk form.
func (h Header) Bytes() []byte {
	b := make([]byte, 4)
	flag := byte(h.Type) & 0x7F
	if h.IsLast {
		flag |= 0x80
	}
	b[0] = flag
	b[1] = byte(h.Length >> 16)
	b[2] = byte(h.Length >> 8)
	b[3] = byte(h.Length)
	return b
}
