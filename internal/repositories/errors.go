package repositories

import "errors"

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientStock is returned when an exit would take a product below zero.
var ErrInsufficientStock = errors.New("insufficient stock")
