package errdefs

import "fmt"

type ErrorType int

const (
	ErrTypeGeneric ErrorType = iota
	ErrTypeNoWaylandDisplay
	ErrTypeFatalInit
	ErrTypeUnsupported
	ErrTypeParentMissing
	ErrTypeSizeMissing
	ErrTypeSurfaceCreationFailed
	ErrTypePositionerCreationFailed
	ErrTypePopupCreationFailed
	ErrTypeLayerSurfaceCreationFailed
	ErrTypeLayerShellNotSupported
	ErrTypeTransient
	ErrTypeOutOfMemory
	ErrTypeClosed
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeNoWaylandDisplay:
		return "no wayland display"
	case ErrTypeFatalInit:
		return "fatal init"
	case ErrTypeUnsupported:
		return "unsupported"
	case ErrTypeParentMissing:
		return "parent missing"
	case ErrTypeSizeMissing:
		return "size missing"
	case ErrTypeSurfaceCreationFailed:
		return "surface creation failed"
	case ErrTypePositionerCreationFailed:
		return "positioner creation failed"
	case ErrTypePopupCreationFailed:
		return "popup creation failed"
	case ErrTypeLayerSurfaceCreationFailed:
		return "layer surface creation failed"
	case ErrTypeLayerShellNotSupported:
		return "layer shell not supported"
	case ErrTypeTransient:
		return "transient"
	case ErrTypeOutOfMemory:
		return "out of memory"
	case ErrTypeClosed:
		return "closed"
	default:
		return "generic"
	}
}

type CustomError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is matches any CustomError of the same Type, so wrapped variants compare
// equal to the package sentinels.
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

func NewCustomError(errType ErrorType, message string) error {
	return &CustomError{
		Type:    errType,
		Message: message,
	}
}

// Wrap attaches an underlying reason to an error kind.
func Wrap(errType ErrorType, message string, err error) error {
	return &CustomError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// TypeOf reports the kind of err, or ErrTypeGeneric when err carries none.
func TypeOf(err error) ErrorType {
	for err != nil {
		if ce, ok := err.(*CustomError); ok {
			return ce.Type
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ErrTypeGeneric
		}
		err = u.Unwrap()
	}
	return ErrTypeGeneric
}

var (
	ErrNoWaylandDisplay       = NewCustomError(ErrTypeNoWaylandDisplay, "no wayland display")
	ErrMissingGlobal          = NewCustomError(ErrTypeFatalInit, "required wayland global missing")
	ErrUnsupported            = NewCustomError(ErrTypeUnsupported, "unsupported by compositor")
	ErrParentMissing          = NewCustomError(ErrTypeParentMissing, "popup parent not found")
	ErrSizeMissing            = NewCustomError(ErrTypeSizeMissing, "popup size not set")
	ErrLayerShellNotSupported = NewCustomError(ErrTypeLayerShellNotSupported, "layer shell not supported")
	ErrOutOfMemory            = NewCustomError(ErrTypeOutOfMemory, "out of memory while presenting")
	ErrClosed                 = NewCustomError(ErrTypeClosed, "dispatcher closed")
)
