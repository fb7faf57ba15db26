package dexread

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/errors"
)

// WarningKind identifies an advisory header check.
type WarningKind int

const (
	WarnVersion WarningKind = iota
	WarnHeaderSize
	WarnEndianTag
)

// Warning is a non-fatal header anomaly. Processing continues after
// any number of these.
type Warning struct {
	Kind WarningKind
	// Observed value, already formatted.
	Got string
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnVersion:
		return fmt.Sprintf("Dex file version != 035 (got %q)", w.Got)
	case WarnHeaderSize:
		return fmt.Sprintf("Header size != 0x70 (got %s)", w.Got)
	case WarnEndianTag:
		return fmt.Sprintf("Endian tag != 0x12345678 (got %s)", w.Got)
	}
	return fmt.Sprintf("unknown warning %d (%s)", int(w.Kind), w.Got)
}

// DecodeHeader interprets the start of buf as a DEX header. Magic
// mismatches are fatal; version, header size and endian tag mismatches
// are returned as warnings, in that order. Fields are always read as
// little-endian, whatever the endian tag says.
func DecodeHeader(buf []byte) (Header, []Warning, error) {
	if len(buf) < dexFileHeaderSize {
		return Header{}, nil, formatError("file too short for dex header (%d < %d bytes)",
			len(buf), dexFileHeaderSize)
	}
	hdr := Header{b: buf[:dexFileHeaderSize]}

	magic := hdr.Magic()
	if !bytes.Equal(magic[:4], dexMagicPrefix) || magic[7] != 0 {
		return Header{}, nil, errors.Mark(ErrNotDex, ErrFormat)
	}

	var warnings []Warning
	if !bytes.Equal(magic[4:7], expectedVersion) {
		warnings = append(warnings, Warning{Kind: WarnVersion, Got: hdr.Version()})
	}
	if hs := hdr.HeaderSize(); hs != dexFileHeaderSize {
		warnings = append(warnings, Warning{Kind: WarnHeaderSize, Got: fmt.Sprintf("%#x", hs)})
	}
	if et := hdr.EndianTag(); et != endianConstant {
		got := fmt.Sprintf("%#x", et)
		if et == reverseEndianConst {
			got += ", byte-swapped"
		}
		warnings = append(warnings, Warning{Kind: WarnEndianTag, Got: got})
	}
	return hdr, warnings, nil
}
