// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Error is a domain failure of a contract entry point.
// Codes are scoped per contract, so two contracts may share a code.
type Error struct {
	Code uint32
	Name string
}

func New(code uint32, name string) *Error {
	return &Error{Code: code, Name: name}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (err u%d)", e.Name, e.Code)
}

// Is reports whether target is a revert with the same code and name.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code && e.Name == t.Name
}

// IsRevert reports whether err is, or wraps, a revert.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	return errors.As(err, &e) && e != nil
}

// Code returns the code of the revert wrapped in err, or false if err is not a revert.
func Code(err error) (uint32, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code, true
	}
	return 0, false
}
