package dexread

import (
	"encoding/binary"
)

// readU32At reads a little-endian uint32 at byte offset off, checking
// that all four bytes lie inside buf.
func readU32At(buf []byte, off uint64) (uint32, error) {
	if off > uint64(len(buf)) || uint64(len(buf))-off < 4 {
		return 0, formatError("read of 4 bytes at offset %#x outside %d byte buffer", off, len(buf))
	}
	return binary.LittleEndian.Uint32(buf[off : off+4]), nil
}

// mustU32 is readU32At for offsets already known to be in range
// (header fields, after the header length check).
func mustU32(buf []byte, off uint64) uint32 {
	v, err := readU32At(buf, off)
	if err != nil {
		panic(err)
	}
	return v
}

// StringIdTable is a bounds-checked view of the string_ids section.
type StringIdTable struct {
	buf  []byte
	off  uint32
	size uint32
}

// NewStringIdTable locates the string_ids section described by hdr
// within buf. The whole extent must fit inside buf.
func NewStringIdTable(buf []byte, hdr Header) (StringIdTable, error) {
	off, size := hdr.StringIdsOff(), hdr.StringIdsSize()
	end := uint64(off) + uint64(size)*stringIdItemSize
	if end > uint64(len(buf)) {
		return StringIdTable{}, formatError("string id table [%#x, %#x) extends past end of file (%d bytes)",
			off, end, len(buf))
	}
	return StringIdTable{buf: buf, off: off, size: size}, nil
}

// Len returns the number of entries in the table.
func (t StringIdTable) Len() uint32 {
	return t.size
}

// Scanner returns a cursor positioned before the first entry.
func (t StringIdTable) Scanner() *StringIdScanner {
	return &StringIdScanner{t: t}
}

// StringIdScanner walks string_data_off values in table order. Like
// bufio.Scanner it is single-use: once Scan returns false it stays
// false.
type StringIdScanner struct {
	t    StringIdTable
	next uint32
	idx  uint32
	cur  uint32
	err  error
	done bool
}

// Scan advances to the next entry, reporting whether there is one.
func (s *StringIdScanner) Scan() bool {
	if s.done {
		return false
	}
	if s.next >= s.t.size {
		s.done = true
		return false
	}
	v, err := readU32At(s.t.buf, uint64(s.t.off)+uint64(s.next)*stringIdItemSize)
	if err != nil {
		s.err = err
		s.done = true
		return false
	}
	s.idx, s.cur = s.next, v
	s.next++
	return true
}

// Index is the table index of the current entry.
func (s *StringIdScanner) Index() uint32 { return s.idx }

// Offset is the string_data_off of the current entry.
func (s *StringIdScanner) Offset() uint32 { return s.cur }

// Err returns the first read error, if any.
func (s *StringIdScanner) Err() error { return s.err }

// Verdict is the outcome of an order check.
type Verdict struct {
	Ordered bool
	// Entries is the table length; Inspected is how many entries
	// were read before the check concluded.
	Entries   uint32
	Inspected uint32

	// Only meaningful when !Ordered.
	Index    uint32
	Offset   uint32
	Previous uint32
}

// CheckStringOrder verifies that string_data_off values never
// decrease. It stops at the first entry smaller than its predecessor.
func CheckStringOrder(t StringIdTable) (Verdict, error) {
	v := Verdict{Entries: t.Len()}
	var prev uint32
	sc := t.Scanner()
	for sc.Scan() {
		v.Inspected++
		cur := sc.Offset()
		if cur < prev {
			v.Index, v.Offset, v.Previous = sc.Index(), cur, prev
			return v, nil
		}
		prev = cur
	}
	if err := sc.Err(); err != nil {
		return Verdict{}, err
	}
	v.Ordered = true
	return v, nil
}
