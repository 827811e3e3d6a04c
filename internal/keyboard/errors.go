package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLayout is returned when a layout definition cannot be used.
var ErrInvalidLayout = errors.New("invalid layout")

// UnknownKeyError reports a key that is not part of a layout.
type UnknownKeyError struct {
	Key    rune
	Layout string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("key %q is not on layout %s", e.Key, e.Layout)
}

// UnsupportedLayoutError reports a layout name with no registered definition.
type UnsupportedLayoutError struct {
	Name      string
	Available []string
}

func (e *UnsupportedLayoutError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unsupported layout %q", e.Name)
	}
	return fmt.Sprintf("unsupported layout %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
