//
// Package for checking the DEX files inside Android APK files. An APK
// file is basically a ZIP file that contains an Android manifest and a
// series of DEX files, strings, resources, bitmaps, and assorted other
// items. This reader looks only at the DEX entries and hands each one
// to dexread.
//
package apkread

import (
	"archive/zip"
	"bytes"
	"regexp"

	"github.com/cockroachdb/errors"

	. "github.com/hugo-glez/androsoo/dexapkvisit"
	"github.com/hugo-glez/androsoo/dexread"
)

var (
	zipMagic = []byte("PK\x03\x04")
	isDex    = regexp.MustCompile(`^\S+\.dex$`)
)

// IsAPK reports whether buf looks like a ZIP archive.
func IsAPK(buf []byte) bool {
	return bytes.HasPrefix(buf, zipMagic)
}

// ReadFile loads path and checks it as an APK if it is a ZIP archive,
// otherwise as a bare DEX file.
func ReadFile(path string, visitor DexApkVisitor) error {
	buf, err := dexread.LoadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	if IsAPK(buf) {
		return readAPKBytes(path, buf, visitor)
	}
	return dexread.ReadDEXBytes(nil, path, buf, visitor)
}

// ReadAPK opens the specified APK file 'apk' and checks every DEX
// file it contains, in archive order, making callbacks through a
// user-supplied visitor object 'visitor'. Checking stops at the first
// DEX that cannot be decoded.
func ReadAPK(apk string, visitor DexApkVisitor) error {
	buf, err := dexread.LoadFile(apk)
	if err != nil {
		return errors.Wrapf(err, "reading apk %s", apk)
	}
	return readAPKBytes(apk, buf, visitor)
}

func readAPKBytes(apk string, buf []byte, visitor DexApkVisitor) error {
	z, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "unable to open APK %s", apk), dexread.ErrFormat)
	}

	visitor.VisitAPK(apk)
	visitor.Verbose(1, "APK %s contains %d entries", apk, len(z.File))

	ndex := 0
	for i, f := range z.File {
		if !isDex.MatchString(f.Name) {
			continue
		}
		ndex++
		visitor.Verbose(1, "dex file %s at entry %d", f.Name, i)
		reader, err := f.Open()
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "opening apk %s dex %s", apk, f.Name), dexread.ErrIO)
		}
		err = dexread.ReadDEX(&apk, f.Name, reader, f.UncompressedSize64, visitor)
		reader.Close()
		if err != nil {
			return err
		}
	}
	if ndex == 0 {
		return errors.Mark(errors.Newf("APK %s contains no dex files", apk), dexread.ErrFormat)
	}
	return nil
}
