// Package repository contains persistence contracts for the catalog.
// Implementations live in subpackages (e.g., postgres) and contain no
// business rules beyond what a single statement or transaction enforces.
package repository

import "errors"

var (
	// ErrDuplicateKey is returned when a unique constraint rejects a write
	// (user email, or the (user_id, product_id) association key).
	ErrDuplicateKey = errors.New("duplicate key value")

	// ErrForeignKey is returned when a write references a row that does not exist.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrProductLinked is returned by ProductRepository.DeleteUnlinked when
	// the product still has association rows.
	ErrProductLinked = errors.New("product has associations")
)
