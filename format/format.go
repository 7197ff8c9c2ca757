// Package format provides the canonical finite-float text representation
// used for reply formatting and cursor encoding: shortest round-tripping
// decimal, trailing ".0" stripped. No library in the retrieved example
// pack offers a Go equivalent of the grounding source's ryu formatter, so
// this one component is built on strconv; see DESIGN.md for why.
package format

import "strconv"

// Score renders f canonically. f must be finite — the core rejects NaN
// and infinite scores before they ever reach this function. Unlike the
// grounding source's ryu formatter, which always emits a fractional part
// and then strips a trailing ".0", strconv's shortest-round-trip mode
// already omits the fraction for whole numbers, so no stripping step is
// needed here — the contract (no trailing ".0") holds by construction.
func Score(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
