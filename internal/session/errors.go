package session

import "fmt"

// ErrorKind classifies session failures
type ErrorKind int

const (
	KindDecode ErrorKind = iota
	KindSeek
	KindConversion
	KindMetadataWrite
	KindFilesystem
)

func (k ErrorKind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindSeek:
		return "seek"
	case KindConversion:
		return "conversion"
	case KindMetadataWrite:
		return "metadata write"
	case KindFilesystem:
		return "filesystem"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by the Controller and the Finalizer. Use errors.As to
// inspect the kind.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error on %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error ends the session. Seek and delete
// failures are only reported.
func (e *Error) Fatal() bool {
	return e.Kind != KindSeek && e.Kind != KindFilesystem
}

func newError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}
