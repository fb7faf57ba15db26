//
// This package contains helper functions that are common to the
// unit tests for the dexread, apkread and dexreport packages: a
// visitor class for capturing callbacks, a whitespace squeeze helper
// routine, and builders for synthetic DEX and APK files.
//
package dexapktest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"regexp"
)

// A visitor to pass to ReadDEX/ReadAPK during unit testing. It
// captures any callbacks into a slice of strings, which can then be
// examined/verified.
//
type CaptureDexApkVisitOperations struct {
	Result []string
}

func (c *CaptureDexApkVisitOperations) VisitAPK(apk string) {
	c.Result = append(c.Result, fmt.Sprintf("APK %s", apk))
}

func (c *CaptureDexApkVisitOperations) VisitDEX(dexname string, version string, nstrings uint32) {
	c.Result = append(c.Result, fmt.Sprintf(" DEX %s version %s strings %d", dexname, version, nstrings))
}

func (c *CaptureDexApkVisitOperations) VisitWarning(dexname string, warning string) {
	c.Result = append(c.Result, fmt.Sprintf("  warning %s", warning))
}

func (c *CaptureDexApkVisitOperations) VisitStringOrder(dexname string, ordered bool, index uint32) {
	if ordered {
		c.Result = append(c.Result, fmt.Sprintf("  ordered %s", dexname))
		return
	}
	c.Result = append(c.Result, fmt.Sprintf("  unordered %s at %d", dexname, index))
}

func (c *CaptureDexApkVisitOperations) Verbose(vlevel int, s string, a ...interface{}) {
}

// Squeeze repeated whitespace and convert tabs/newlines to spaces.
func SqueezeWhite(s string) string {
	re := regexp.MustCompile(`[ \n\t]+`)
	return re.ReplaceAllLiteralString(s, " ")
}

// DexLayout describes a synthetic DEX file. Zero values produce a
// well-formed header: magic "dex\n035\0", header size 0x70, the
// standard endian tag, and a string_ids table placed right after the
// header.
type DexLayout struct {
	Magic      []byte
	HeaderSize uint32
	EndianTag  uint32

	// Values written into the string_ids table.
	StringOffsets []uint32

	// If non-zero these override the header fields describing the
	// table, without changing what is actually written.
	StringIdsSize uint32
	StringIdsOff  uint32
}

// BuildDEX lays out a DEX header followed by the string_ids table.
// Nothing else of the format is emitted.
func BuildDEX(layout DexLayout) []byte {
	var b bytes.Buffer
	magic := layout.Magic
	if magic == nil {
		magic = []byte("dex\n035\x00")
	}
	hdr := make([]byte, 0x70)
	copy(hdr, magic)

	headerSize := layout.HeaderSize
	if headerSize == 0 {
		headerSize = 0x70
	}
	endian := layout.EndianTag
	if endian == 0 {
		endian = 0x12345678
	}
	size := uint32(len(layout.StringOffsets))
	if layout.StringIdsSize != 0 {
		size = layout.StringIdsSize
	}
	off := uint32(0x70)
	if layout.StringIdsOff != 0 {
		off = layout.StringIdsOff
	}

	binary.LittleEndian.PutUint32(hdr[0x24:], headerSize)
	binary.LittleEndian.PutUint32(hdr[0x28:], endian)
	binary.LittleEndian.PutUint32(hdr[0x38:], size)
	binary.LittleEndian.PutUint32(hdr[0x3C:], off)
	b.Write(hdr)

	for _, o := range layout.StringOffsets {
		binary.Write(&b, binary.LittleEndian, o)
	}
	return b.Bytes()
}

// APKEntry is one file to place in a synthetic APK.
type APKEntry struct {
	Name string
	Data []byte
}

// BuildAPK writes entries, in order, into an in-memory ZIP archive.
func BuildAPK(entries ...APKEntry) ([]byte, error) {
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
