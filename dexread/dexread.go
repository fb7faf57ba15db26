package dexread

//
// Package for checking the string table ordering of DEX files. See:
//
//   https://source.android.com/devices/tech/dalvik/dex-format.html
//
// for a specification of the DEX file format.
//
// Only the header and the string_ids section are examined. The
// string_ids entries of a file produced by the standard toolchain are
// sorted by string_data_off; files rewritten by some repackaging
// tools are not. Results are delivered to a visitor object: one
// VisitDEX, zero or more VisitWarning, then one VisitStringOrder per
// DEX file.
//

import (
	"bytes"
	"io"

	"github.com/hugo-glez/androsoo/dexapkvisit"
)

type dexState struct {
	apk     *string
	dexName string
	buf     []byte
	header  Header
	visitor dexapkvisit.DexApkVisitor
}

// ReadDEXFile loads the DEX file at dexFilePath and checks it.
func ReadDEXFile(dexFilePath string, visitor dexapkvisit.DexApkVisitor) error {
	buf, err := LoadFile(dexFilePath)
	if err != nil {
		return dexError(nil, dexFilePath, err)
	}
	return ReadDEXBytes(nil, dexFilePath, buf, visitor)
}

// ReadDEX checks the DEX file read from 'reader', which must yield
// exactly expectedSize bytes. In the case that the DEX file is
// embedded within an APK file, 'apk' will point to the APK name (for
// error reporting purposes).
func ReadDEX(apk *string, dexName string, reader io.Reader, expectedSize uint64, visitor dexapkvisit.DexApkVisitor) error {
	var b bytes.Buffer
	nread, err := io.Copy(&b, reader)
	if err != nil {
		return dexError(apk, dexName, ioError(err, "unable to read"))
	}
	if uint64(nread) != expectedSize {
		return dexError(apk, dexName,
			ioError(io.ErrUnexpectedEOF, "expected %d bytes read %d", expectedSize, nread))
	}
	return ReadDEXBytes(apk, dexName, b.Bytes(), visitor)
}

// ReadDEXBytes checks a DEX file already held in memory. buf is not
// modified or retained.
func ReadDEXBytes(apk *string, dexName string, buf []byte, visitor dexapkvisit.DexApkVisitor) error {
	state := dexState{apk: apk, dexName: dexName, buf: buf, visitor: visitor}

	hdr, warnings, err := DecodeHeader(buf)
	if err != nil {
		return dexError(apk, dexName, err)
	}
	state.header = hdr

	visitor.VisitDEX(dexName, hdr.Version(), hdr.StringIdsSize())
	for _, w := range warnings {
		visitor.VisitWarning(dexName, w.String())
	}

	return examineStrings(&state)
}

func examineStrings(state *dexState) error {
	hdr := state.header
	state.visitor.Verbose(1, "string_ids at %#x, %d entries", hdr.StringIdsOff(), hdr.StringIdsSize())

	table, err := NewStringIdTable(state.buf, hdr)
	if err != nil {
		return dexError(state.apk, state.dexName, err)
	}
	verdict, err := CheckStringOrder(table)
	if err != nil {
		return dexError(state.apk, state.dexName, err)
	}

	if verdict.Ordered {
		state.visitor.Verbose(1, "all %d string offsets in order", verdict.Entries)
	} else {
		state.visitor.Verbose(1, "string id %d offset %#x below previous %#x (%d of %d inspected)",
			verdict.Index, verdict.Offset, verdict.Previous, verdict.Inspected, verdict.Entries)
	}
	state.visitor.VisitStringOrder(state.dexName, verdict.Ordered, verdict.Index)
	return nil
}
