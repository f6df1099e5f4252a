// Package compiler turns CUE rule profiles into ir.Profile.
//
// A profile directory holds one CUE package with a top-level "profile"
// struct. Every field is optional: the CUE value is checked against the
// closed #Profile schema, then overlaid on ir.DefaultProfile, and the
// result is validated.
//
//	profile: {
//		company: value: "ACME"
//		max_filters: 6
//	}
package compiler
