package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product ID does not exist in the store.
	ErrProductNotFound = errors.New("product not found")
	// ErrReportNotFound is returned when no report has been generated for a product yet.
	ErrReportNotFound = errors.New("transparency report not found")
	// ErrInvalidProduct indicates a submission missing its required name or category.
	ErrInvalidProduct = errors.New("product name and category are required")
	// ErrInvalidCategory indicates a category outside the supported list.
	ErrInvalidCategory = errors.New("unknown product category")
)
