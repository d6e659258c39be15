// Copyright 2022 Ian Parberry
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package curvedline

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code. The web backend uses it to choose
// a status code, the command line uses it to decide if an error is fatal.
type Code string

const (
	// ErrCodeInvalidTile is reported when the source tile can't be read or is
	// unusable (empty or not square). The engine can't be created without a
	// valid tile, so this is a fatal initialization error.
	ErrCodeInvalidTile Code = "INVALID_TILE"

	// ErrCodeAllocation is reported when the mosaic buffer can't be created.
	ErrCodeAllocation Code = "ALLOCATION_FAILED"

	// ErrCodePrecondition marks violated call contracts, for example a grid
	// cell outside of the 8x8 grid. Errors with this code are raised as panics.
	ErrCodePrecondition Code = "PRECONDITION_VIOLATED"

	// ErrCodeInvalidInput is used for malformed user input (layout names,
	// colors, dimensions, config files).
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeUnsupported is used for unknown image formats.
	ErrCodeUnsupported Code = "UNSUPPORTED"

	// ErrCodeNotFound is used when a session or file does not exist.
	ErrCodeNotFound Code = "NOT_FOUND"
)

// Error is an error with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError returns a new Error with the given code and formatted message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns a new Error with the given code that wraps cause.
func WrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsCode reports whether err (or any error it wraps) is an *Error with the
// given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of err or the empty string if err is not an
// *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of err without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

func precondition(format string, args ...any) {
	panic(NewError(ErrCodePrecondition, format, args...))
}
