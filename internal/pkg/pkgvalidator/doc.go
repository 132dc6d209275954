// Package pkgvalidator runs struct-tag validation at the HTTP boundary and
// reports violations as a pkgerror validation error keyed by JSON field name.
package pkgvalidator
