package catalog

import "errors"

var (
	// ErrProductNotFound is returned when no product matches a barcode or query.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidDataset is returned when the product dataset cannot be decoded or fails validation.
	ErrInvalidDataset = errors.New("invalid product dataset")

	// ErrEmptyQuery is returned for a search query with no usable characters.
	ErrEmptyQuery = errors.New("empty search query")
)
