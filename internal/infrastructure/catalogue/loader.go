package catalogue

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mrops-br/inventory-browser/internal/domain"
)

//go:embed data/products.json
var defaultCatalogue []byte

// Load reads the catalogue from path, or the built-in catalogue when path is
// empty.
func Load(path string) ([]domain.Product, error) {
	if path == "" {
		return Decode(bytes.NewReader(defaultCatalogue))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a JSON array of products and validates every record.
func Decode(r io.Reader) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue: %w", err)
	}

	seen := make(map[int]struct{}, len(products))
	for i := range products {
		p := &products[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalogue entry %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalogue entry %d: %w: %d", i, domain.ErrDuplicateProductID, p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Suppliers == nil {
			p.Suppliers = []string{}
		}
	}

	return products, nil
}
