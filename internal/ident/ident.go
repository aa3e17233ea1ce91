// Package ident normalizes the strings used as type-graph identifiers.
package ident

import "golang.org/x/text/unicode/norm"

// Normalize returns the NFC (canonical composition) form of s.
//
// Two visually identical names built from different Unicode code point
// sequences (e.g. "é" as one composed rune versus "e" + a combining acute
// accent) must resolve to the same graph identifier; comparing raw strings
// would let both coexist as distinct types. Normalize is applied to every
// name a kind factory turns into an identifier before it reaches the graph.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
