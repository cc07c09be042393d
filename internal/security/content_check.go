package security

import (
	"io"
	"os"
)

// ContentChecker sniffs candidate files before they are cached, so binary
// data disguised under a text extension never lands in the token index.

const (
	// sniffHeaderSize is how much of the file is examined for binary data
	sniffHeaderSize = 64 * 1024

	// binaryRatioThreshold is the non-printable byte ratio above which a
	// file is treated as binary
	binaryRatioThreshold = 0.3
)

type ContentChecker struct {
	headerSize int64
}

// NewContentChecker creates a checker with the default 64KB sniff window
func NewContentChecker() *ContentChecker {
	return &ContentChecker{headerSize: sniffHeaderSize}
}

// CheckFile opens path and reports whether its header looks like text.
// I/O failures are reported as errors; a binary verdict is not an error,
// it is a skip decision for the caller.
func (cc *ContentChecker) CheckFile(path string) (isText bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, cc.headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	return !IsBinaryData(header[:n]), nil
}

// IsBinaryData checks if data contains binary content by counting
// non-printable characters
func IsBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	nonPrintable := 0
	for _, b := range data {
		// Control characters (0-8, 14-31) and DEL (127).
		// Tab, LF, CR and friends (9-13) count as printable.
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}

	ratio := float64(nonPrintable) / float64(len(data))
	return ratio > binaryRatioThreshold
}
