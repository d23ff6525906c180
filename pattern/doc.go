// Package pattern expands compact channel name templates into ordered
// sequences of names.
//
// A template is classified once by [Parse] into exactly one [Kind]:
//
//	[1...10:3]           numeric range     1 4 7 10
//	[Room, 01...03]      prefixed range    Room01 Room02 Room03
//	[Slot, 09:00...11:00] time range       Slot09:00 Slot10:00 Slot11:00
//	[Team, A...C]        alphabetic range  TeamA TeamB TeamC
//	Sector{A...B}{1...2} grid              SectorA1 SectorA2 SectorB1 SectorB2
//	[alpha, beta]        literal list      alpha beta
//
// Anything else passes through unchanged as a single name. A template that
// matches the shape of a range or grid but carries an inconsistent bound is
// rejected with [ErrFormat] instead of falling through to a later kind.
//
// Parsing and expansion are pure; every function in this package is safe for
// concurrent use.
package pattern
