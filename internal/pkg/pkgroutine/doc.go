// Package pkgroutine runs bounded groups of goroutines.
//
// The Manager type limits concurrency, joins returned errors and turns panics
// into errors, so a caller fanning out work can trust a nil Wait.
package pkgroutine
