package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

// PNGHeader returns a PNG signature and IHDR chunk declaring a 1-bit grayscale
// image of width x height, with no pixel data. image.DecodeConfig accepts it;
// a full decode would allocate the declared pixel buffer before failing.
func PNGHeader(width, height uint32) []byte {
	var ihdr bytes.Buffer
	ihdr.WriteString("IHDR")
	_ = binary.Write(&ihdr, binary.BigEndian, width)
	_ = binary.Write(&ihdr, binary.BigEndian, height)
	ihdr.Write([]byte{1, 0, 0, 0, 0}) // bit depth, color type, compression, filter, interlace

	var out bytes.Buffer
	out.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&out, binary.BigEndian, uint32(ihdr.Len()-4))
	out.Write(ihdr.Bytes())
	_ = binary.Write(&out, binary.BigEndian, crc32.ChecksumIEEE(ihdr.Bytes()))
	return out.Bytes()
}
