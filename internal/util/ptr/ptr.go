// Package ptr provides helper functions for creating pointers to primitive types.
package ptr

// String returns a pointer to the given string value.
func String(s string) *string { return &s }
