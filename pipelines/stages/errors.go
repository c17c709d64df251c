// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import "fmt"

// ErrReadSource is returned when an input file cannot be opened or read.
// This is always fatal for the run; row-level problems never raise it.
type ErrReadSource struct {
	Path string
	Err  error
}

func (e *ErrReadSource) Error() string {
	return fmt.Sprintf("read source %s: %v", e.Path, e.Err)
}

func (e *ErrReadSource) Unwrap() error {
	return e.Err
}

// ErrDatabase is returned when recording a run in the history store fails.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}
