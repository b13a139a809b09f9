package frame

import (
	"errors"
	"fmt"
)

// Kind classifies compose failures.
type Kind int

const (
	ImageDecode Kind = iota + 1
	SurfaceAcquisition
	Encoding
)

var (
	ErrImageDecode = errors.New("image decode failed")
	ErrSurface     = errors.New("drawing surface unavailable")
	ErrEncoding    = errors.New("encoding produced no output")
)

func (k Kind) sentinel() error {
	switch k {
	case ImageDecode:
		return ErrImageDecode
	case SurfaceAcquisition:
		return ErrSurface
	case Encoding:
		return ErrEncoding
	}
	return nil
}

func (k Kind) String() string {
	switch k {
	case ImageDecode:
		return "ImageDecodeError"
	case SurfaceAcquisition:
		return "SurfaceAcquisitionError"
	case Encoding:
		return "EncodingError"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a fatal compose failure. No partial output accompanies it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	var errs []error
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func decodeError(op string, err error) error {
	return &Error{Kind: ImageDecode, Op: op, Err: err}
}
