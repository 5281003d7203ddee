package model

import "github.com/rotisserie/eris"

var (
	// ErrInvalidInput marks structurally invalid caller input such as an
	// empty query or a record without a name. It is never retried.
	ErrInvalidInput = eris.New("invalid input")

	// ErrInvalidConfig marks unusable configuration such as an empty source
	// list.
	ErrInvalidConfig = eris.New("invalid configuration")
)
