package pipeline

import "errors"

// ReadError reports that a source file could not be turned into a grid or
// table. The wrapped error carries the underlying cause.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return "failed to read file " + e.Path + ": " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// MappingError reports that the mapping service failed or broke its
// response contract.
type MappingError struct {
	Err error
}

func (e *MappingError) Error() string {
	return "header mapping failed: " + e.Err.Error()
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// IsReadError returns true if err or any error in its chain is a ReadError.
func IsReadError(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}

// IsMappingError returns true if err or any error in its chain is a
// MappingError.
func IsMappingError(err error) bool {
	var me *MappingError
	return errors.As(err, &me)
}
