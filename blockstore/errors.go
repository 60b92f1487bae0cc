// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockstore

import (
	"errors"
	"fmt"
)

// AssertError identifies an error that indicates an internal code consistency
// issue or a violated caller precondition. It is raised before any store
// access and should be treated as a critical and unrecoverable error.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// CorruptionError identifies a stored row that failed to deserialize. The
// store should never contain garbage, so this indicates on-disk damage
// rather than a normal miss.
type CorruptionError struct {
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e CorruptionError) Error() string {
	return fmt.Sprintf("corrupt row: %s: %v", e.Description, e.Err)
}

func (e CorruptionError) Unwrap() error {
	return e.Err
}

// corruptionError creates a CorruptionError given a set of arguments.
func corruptionError(desc string, err error) CorruptionError {
	return CorruptionError{Description: desc, Err: err}
}

// IsCorruption reports whether any error in err's chain is a CorruptionError.
func IsCorruption(err error) bool {
	var ce CorruptionError
	return errors.As(err, &ce)
}
