// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import "fmt"

// ErrWriteFile is returned when an output destination cannot be created
// or written. Fatal for the run; partial writes are not cleaned up.
type ErrWriteFile struct {
	Op   string // mkdir, write
	Path string
	Err  error
}

func (e *ErrWriteFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrWriteFile) Unwrap() error {
	return e.Err
}
