// Package password holds the password value type, its comparison and its
// persistence in a byte-addressable store.
package password

import (
	"fmt"
)

// Size is the number of bytes in a password.
const Size = 5

// Password is a fixed-size sequence of raw bytes.
type Password [Size]byte

// MatchStatus is the outcome of comparing two passwords.
type MatchStatus byte

// Match results, also used as the wire value of the provisioning result.
const (
	Mismatched MatchStatus = 0
	Matched    MatchStatus = 1
)

// String implements fmt.Stringer.
func (s MatchStatus) String() string {
	if s == Matched {
		return "matched"
	}
	return "mismatched"
}

// Compare compares two passwords byte by byte.
func Compare(a, b Password) MatchStatus {
	for i := 0; i < Size; i++ {
		if a[i] != b[i] {
			return Mismatched
		}
	}
	return Matched
}

// Parse converts a string of exactly Size digits into the digit values
// the keypad sends, e.g. "12345" -> {1, 2, 3, 4, 5}.
func Parse(s string) (pw Password, err error) {
	if len(s) != Size {
		return pw, fmt.Errorf("password must be %d digits, got %d", Size, len(s))
	}
	for i := 0; i < Size; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return pw, fmt.Errorf("invalid digit %q at %d", c, i)
		}
		pw[i] = c - '0'
	}
	return pw, nil
}

// String renders the password bytes without revealing them.
func (p Password) String() string {
	return "*****"
}
