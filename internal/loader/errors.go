package loader

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOrCorruptFile indicates the bytes could not be decoded as a
// supported spreadsheet container, or the workbook holds no sheets.
var ErrUnsupportedOrCorruptFile = errors.New("unsupported or corrupt spreadsheet file")

// LoadError describes a failed decode. It always matches
// ErrUnsupportedOrCorruptFile with errors.Is and unwraps to the decoder cause.
type LoadError struct {
	Format Format
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v (format: %s)", ErrUnsupportedOrCorruptFile, e.Format)
	}
	return fmt.Sprintf("%v (format: %s): %v", ErrUnsupportedOrCorruptFile, e.Format, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinel
func (e *LoadError) Is(target error) bool {
	return target == ErrUnsupportedOrCorruptFile
}

func newLoadError(format Format, err error) *LoadError {
	return &LoadError{Format: format, Err: err}
}
