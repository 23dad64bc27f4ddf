package meta

import "encoding/binary"

// VorbisComment is a minimal VORBIS_COMMENT metadata block: a vendor
// string and zero or more NAME=VALUE tags. This is the only officially
// supported tagging mechanism in FLAC; the stream encoder always emits
// one with zero tags and a fixed vendor string.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_vorbis_comment
type VorbisComment struct {
	Vendor string
	Tags   []VorbisTag
}

// VorbisTag is a single NAME=VALUE comment entry.
type VorbisTag struct {
	Name, Value string
}

// Len returns the number of bytes the encoded block body will occupy.
func (vc *VorbisComment) Len() int64 {
	const u32Len = 4
	n := int64(u32Len) + int64(len(vc.Vendor)) + u32Len
	for _, tag := range vc.Tags {
		n += u32Len + int64(len(tag.Name)+1+len(tag.Value))
	}
	return n
}

// Bytes encodes the block body: a length-prefixed vendor string followed
// by a little-endian tag count and each length-prefixed "NAME=VALUE" tag.
func (vc *VorbisComment) Bytes() []byte {
	buf := make([]byte, 0, vc.Len())
	buf = appendLenStr(buf, vc.Vendor)
	buf = appendU32(buf, uint32(len(vc.Tags)))
	for _, tag := range vc.Tags {
		buf = appendLenStr(buf, tag.Name+"="+tag.Value)
	}
	return buf
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendLenStr(buf []byte, s string) []byte {
	buf = appendU32(buf, uint32(len(s)))
	return append(buf, s...)
}
