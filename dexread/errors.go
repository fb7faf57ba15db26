package dexread

import (
	"github.com/cockroachdb/errors"
)

// Fatal error classes. Every error returned from this package carries
// exactly one of these marks; test with errors.Is.
var (
	// ErrIO covers missing, unreadable or short-read input.
	ErrIO = errors.New("dex i/o error")

	// ErrFormat covers input that cannot be decoded as a DEX file.
	ErrFormat = errors.New("dex format error")
)

// ErrNotDex is the cause of the format error returned for a magic
// mismatch.
var ErrNotDex = errors.New("not a DEX file")

func ioError(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrIO)
}

func formatError(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrFormat)
}

// dexError prefixes err with the name of the DEX (and containing APK,
// if any) being read.
func dexError(apk *string, dexName string, err error) error {
	if apk != nil {
		return errors.Wrapf(err, "reading apk %s dex %s", *apk, dexName)
	}
	return errors.Wrapf(err, "reading dex %s", dexName)
}
