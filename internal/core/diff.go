package core

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	BinarySampleSize   = 8192 // Bytes to sample for text/binary detection
	BinaryThresholdPct = 10   // Max % non-printable chars for text files
)

// IsText reports whether data looks like text: no NUL bytes, valid UTF-8
// in the sampled prefix and at most BinaryThresholdPct control characters.
func IsText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if bytes.IndexByte(data, 0) != -1 {
		return false
	}

	sample := data[:min(len(data), BinarySampleSize)]
	if len(sample) < len(data) {
		sample = trimPartialRune(sample)
	}
	if !utf8.Valid(sample) {
		return false
	}

	nonPrintable := 0
	for _, b := range sample {
		if (b < 32 && b != '\t' && b != '\n' && b != '\r') || b == 127 {
			nonPrintable++
		}
	}
	return nonPrintable <= len(sample)*BinaryThresholdPct/100
}

// trimPartialRune drops a multibyte rune cut off by the sample boundary
func trimPartialRune(sample []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(sample); i++ {
		start := len(sample) - i
		if !utf8.RuneStart(sample[start]) {
			continue
		}
		if !utf8.FullRune(sample[start:]) {
			return sample[:start]
		}
		break
	}
	return sample
}

// GenerateUnifiedDiff returns a patch turning the sealed content into the
// local content, or "" when they are identical.
func GenerateUnifiedDiff(path string, sealed, local []byte) (string, error) {
	if bytes.Equal(sealed, local) {
		return "", nil
	}

	if !IsText(sealed) || !IsText(local) {
		return fmt.Sprintf("Binary file %s has changed\n", path), nil
	}

	dmp := diffmatchpatch.New()

	sealedStr, localStr := string(sealed), string(local)
	a, b, lineArray := dmp.DiffLinesToChars(sealedStr, localStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(sealedStr, diffs)
	if len(patches) == 0 {
		return "", nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "--- sealed/%s\n", path)
	fmt.Fprintf(&result, "+++ local/%s\n", path)
	result.WriteString(dmp.PatchToText(patches))

	return result.String(), nil
}
