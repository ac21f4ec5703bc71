package loader

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format is a spreadsheet container detected from file content
type Format string

const (
	FormatUnknown Format = "unknown"
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
)

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// AcceptedExtensions are offered by file pickers. Load itself ignores names.
var AcceptedExtensions = []string{".xlsx", ".xls"}

// Detect sniffs the container format from the leading bytes
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS
	default:
		return FormatUnknown
	}
}

// Accepts reports whether path carries one of the accepted extensions
func Accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, accepted := range AcceptedExtensions {
		if ext == accepted {
			return true
		}
	}
	return false
}
