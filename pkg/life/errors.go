package life

import (
	"errors"
	"fmt"
)

// ErrDimension matches every *DimensionError through errors.Is.
var ErrDimension = errors.New("life: invalid grid dimensions")

// DimensionError reports a construction whose width or height would not be
// strictly positive, or whose explicit size cannot hold the supplied cells.
type DimensionError struct {
	Width  int
	Height int
	Reason string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("life: invalid grid dimensions %dx%d: %s", e.Width, e.Height, e.Reason)
}

// Is lets errors.Is(err, ErrDimension) match.
func (e *DimensionError) Is(target error) bool { return target == ErrDimension }
