package ir

import (
	"regexp"
	"strings"
)

// AssemblyCode is a dotted hierarchical classification token such as
// "C.01.02". It keys a view into the classification matrix.
type AssemblyCode string

// InvalidAssemblyCode represents the absence of a code.
const InvalidAssemblyCode AssemblyCode = "INVALID_AC"

var assemblyCodePattern = regexp.MustCompile(`^C\.\d{2,3}(?:\.\d{2,3})+`)

// ExtractAssemblyCode returns the leading assembly code of s, or
// InvalidAssemblyCode when s does not start with one.
//
//	ExtractAssemblyCode("C.01.02 - Muros - RNG") // "C.01.02"
//	ExtractAssemblyCode("C.01.02desc-RNG")       // "C.01.02"
//	ExtractAssemblyCode("Muros C.01.02")         // "INVALID_AC"
func ExtractAssemblyCode(s string) AssemblyCode {
	m := assemblyCodePattern.FindString(strings.TrimSpace(s))
	if m == "" {
		return InvalidAssemblyCode
	}
	return AssemblyCode(m)
}

// Valid reports whether c is a real code rather than the sentinel.
func (c AssemblyCode) Valid() bool {
	return c != "" && c != InvalidAssemblyCode
}

func (c AssemblyCode) String() string {
	return string(c)
}
