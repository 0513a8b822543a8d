package domain

import "errors"

var (
	// ErrLoad is returned when the catalog cannot be fetched or read.
	ErrLoad = errors.New("catalog load failed")

	// ErrNotAdmissible is returned when a record lacks a title or a link.
	ErrNotAdmissible = errors.New("resource requires a title and a link")
)
