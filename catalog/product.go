package catalog

import (
	"embed"
	"encoding/json"
	"io"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

//go:embed data/products.json
var bundled embed.FS

// Product is one record of the dataset. Nutrient values are as-fed percentages.
type Product struct {
	Barcode  string  `json:"barcode" validate:"required,number,min=8,max=14"`
	Brand    string  `json:"brand"`
	Title    string  `json:"title" validate:"required"`
	Protein  float64 `json:"protein" validate:"gte=0,lte=100"`
	Fat      float64 `json:"fat" validate:"gte=0,lte=100"`
	Fiber    float64 `json:"fiber" validate:"gte=0,lte=100"`
	Moisture float64 `json:"moisture" validate:"gte=0,lt=100"`
	Ash      float64 `json:"ash" validate:"gte=0,lte=100"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var barcodePattern = regexp.MustCompile(`^[0-9]{8,14}$`)

// IsBarcode reports whether s looks like an EAN/UPC barcode.
func IsBarcode(s string) bool {
	return barcodePattern.MatchString(s)
}

// Decode reads a JSON array of products and validates every record.
func Decode(r io.Reader) ([]Product, error) {
	var products []Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, errors.Wrap(ErrInvalidDataset, err.Error())
	}

	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if err := validate.Struct(p); err != nil {
			return nil, errors.Wrapf(ErrInvalidDataset, "record %d: %v", i, err)
		}
		if _, dup := seen[p.Barcode]; dup {
			return nil, errors.Wrapf(ErrInvalidDataset, "record %d: duplicate barcode %s", i, p.Barcode)
		}
		seen[p.Barcode] = struct{}{}
	}
	return products, nil
}

// LoadFile decodes the dataset stored at path.
func LoadFile(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open product dataset")
	}
	defer f.Close()

	return Decode(f)
}

// Bundled decodes the dataset shipped with the binary.
func Bundled() ([]Product, error) {
	f, err := bundled.Open("data/products.json")
	if err != nil {
		return nil, errors.Wrap(err, "open bundled dataset")
	}
	defer f.Close()

	return Decode(f)
}
