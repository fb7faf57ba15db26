package dexread

const (
	// https://source.android.com/devices/tech/dalvik/dex-format.html#endian-constant
	endianConstant     = 0x12345678
	reverseEndianConst = 0x78563412
	dexFileHeaderSize  = 0x70
	stringIdItemSize   = 4
)

//
// Byte offsets of the header fields we consume. See
// https://source.android.com/devices/tech/dalvik/dex-format.html#header-item
// for the full layout; checksum, signature and the remaining id/data
// tables are never looked at.
//
const (
	offMagic         = 0x00
	offHeaderSize    = 0x24
	offEndianTag     = 0x28
	offStringIdsSize = 0x38
	offStringIdsOff  = 0x3C
)

var (
	dexMagicPrefix  = []byte("dex\n")
	expectedVersion = []byte("035")
)

// Header is a read-only view of the fixed-size DEX file header. It
// refers into the buffer it was decoded from and must not outlive it.
type Header struct {
	b []byte
}

// Magic returns the eight magic bytes.
func (h Header) Magic() []byte {
	return h.b[offMagic : offMagic+8]
}

// Version returns the three version characters from the magic, e.g. "035".
func (h Header) Version() string {
	return string(h.b[4:7])
}

func (h Header) HeaderSize() uint32 {
	return mustU32(h.b, offHeaderSize)
}

func (h Header) EndianTag() uint32 {
	return mustU32(h.b, offEndianTag)
}

func (h Header) StringIdsSize() uint32 {
	return mustU32(h.b, offStringIdsSize)
}

func (h Header) StringIdsOff() uint32 {
	return mustU32(h.b, offStringIdsOff)
}
