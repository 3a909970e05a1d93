// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"fmt"

	"github.com/pkg/errors"
)

// AssertionMismatch is returned when the observed counter value differs from
// the expected one.
//
type AssertionMismatch struct {
	Scenario string
	Edge     int
	Expected uint8
	Actual   uint8
}

func (e *AssertionMismatch) Error() string {
	s := fmt.Sprintf("edge %d: expected %d, got %d", e.Edge, e.Expected, e.Actual)
	if e.Scenario != "" {
		return e.Scenario + ": " + s
	}
	return s
}

// AsMismatch returns the *AssertionMismatch at the root of err, if any.
//
func AsMismatch(err error) (*AssertionMismatch, bool) {
	m, ok := errors.Cause(err).(*AssertionMismatch)
	return m, ok
}

// IsMismatch reports whether err is caused by an assertion mismatch.
//
func IsMismatch(err error) bool {
	_, ok := AsMismatch(err)
	return ok
}
