// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package counter

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Control word bit positions.
//
const (
	LPBit  = 0 // load enable
	CPBit  = 1 // count enable
	EPBit  = 2 // output enable
	CLRBit = 3 // clear line, 4-bit control words only
)

// Control is a decoded control word. The zero value has every signal low.
//
type Control struct {
	LP  bool
	CP  bool
	EP  bool
	CLR bool
}

// Counting is the control word used to count: CP and EP high, LP low.
//
var Counting = Control{CP: true, EP: true}

// Decode decodes a packed control word.
//
func Decode(word uint8) Control {
	return Control{
		LP:  word&(1<<LPBit) != 0,
		CP:  word&(1<<CPBit) != 0,
		EP:  word&(1<<EPBit) != 0,
		CLR: word&(1<<CLRBit) != 0,
	}
}

// Encode packs ctl into a control word.
//
func (ctl Control) Encode() uint8 {
	var w uint8
	if ctl.LP {
		w |= 1 << LPBit
	}
	if ctl.CP {
		w |= 1 << CPBit
	}
	if ctl.EP {
		w |= 1 << EPBit
	}
	if ctl.CLR {
		w |= 1 << CLRBit
	}
	return w
}

// EncodeWidth packs ctl into a control word of the given bit width (3 or 4).
// Signals that do not fit are dropped.
//
func (ctl Control) EncodeWidth(width int) uint8 {
	return ctl.Encode() & (1<<uint(width) - 1)
}

// WithLP returns a copy of ctl with LP set to v.
func (ctl Control) WithLP(v bool) Control { ctl.LP = v; return ctl }

// WithCP returns a copy of ctl with CP set to v.
func (ctl Control) WithCP(v bool) Control { ctl.CP = v; return ctl }

// WithEP returns a copy of ctl with EP set to v.
func (ctl Control) WithEP(v bool) Control { ctl.EP = v; return ctl }

// WithCLR returns a copy of ctl with CLR set to v.
func (ctl Control) WithCLR(v bool) Control { ctl.CLR = v; return ctl }

func (ctl Control) String() string {
	b := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	return fmt.Sprintf("{CLR=%d EP=%d CP=%d LP=%d}", b(ctl.CLR), b(ctl.EP), b(ctl.CP), b(ctl.LP))
}

// ClearMode selects how the CLR line is decoded into a synchronous clear.
//
type ClearMode int

// Supported clear modes.
//
const (
	// ClearRising clears on an edge where CLR is sampled high after having
	// been sampled low on the previous edge. Holding CLR either high or low
	// lets the counter run.
	ClearRising ClearMode = iota
	// ClearNone ignores the CLR line (3-bit control words).
	ClearNone
	// ClearActiveLow clears on every edge where CLR is low.
	ClearActiveLow
	// ClearActiveHigh clears on every edge where CLR is high.
	ClearActiveHigh
)

var clearModeNames = [...]string{
	ClearRising:     "rising",
	ClearNone:       "none",
	ClearActiveLow:  "low",
	ClearActiveHigh: "high",
}

func (m ClearMode) String() string {
	if m < 0 || int(m) >= len(clearModeNames) {
		return fmt.Sprintf("ClearMode(%d)", int(m))
	}
	return clearModeNames[m]
}

// ParseClearMode parses a clear mode name as returned by ClearMode.String.
//
func ParseClearMode(s string) (ClearMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, n := range clearModeNames {
		if n == s {
			return ClearMode(m), nil
		}
	}
	return 0, errors.Errorf("unknown clear mode %q", s)
}

// clear reports whether the clear condition holds for an edge where CLR is
// sampled as clr and was sampled as prev on the previous edge.
//
func (m ClearMode) clear(clr, prev bool) bool {
	switch m {
	case ClearRising:
		return clr && !prev
	case ClearActiveLow:
		return !clr
	case ClearActiveHigh:
		return clr
	}
	return false
}
