package models

// String methods for the custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// Polarity
func (p Polarity) String() string { return string(p) }

// Method
func (m Method) String() string { return string(m) }

// WarningKind
func (k WarningKind) String() string { return string(k) }
