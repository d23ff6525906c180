// Package filter selects elements of a generated name sequence by a
// predicate over their 1-based position.
//
// A predicate is a small closed expression language: the only variable is
// the ordinal index i, literals are non-negative integers and the booleans
// True and False, and the operators are arithmetic (+ - * / // %),
// comparison (== != < <= > >=, chainable) and boolean (and or not, && || !).
// Predicates cannot reach any other state.
//
//	[1...10, if i % 2 == 0]     even positions
//	Room{A...C}, if 1 < i <= 2  second position only
//
// [Extract] separates a template from its trailing predicate, [Compile]
// parses a predicate once, and [Apply] keeps the elements it selects. A
// predicate that fails to compile selects nothing; one that fails at a given
// index (division by zero, int64 overflow) excludes only that index.
//
// Arithmetic is exact on int64. Only true division yields a float, and
// comparisons between a float and an integer do not round the integer.
package filter
