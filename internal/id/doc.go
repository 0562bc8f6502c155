// Package id mints battle identifiers.
//
// An id is a random UUID written as 26 lowercase base32 characters without
// padding. Valid checks that shape before an id reaches storage.
package id
