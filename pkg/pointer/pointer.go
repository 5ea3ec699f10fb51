// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

// Package pointer provides generic helpers for working with pointers,
// primarily for optional fields in update requests.
package pointer

// To returns a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value of T when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Fallback dereferences p, returning def when p is nil.
func Fallback[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
