// Package catalog serves product lookups and nutrition scores from a dataset
// loaded once at startup, memoizing results in the shared cache registry.
package catalog

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	cache "github.com/kibblescan/sitecache"
)

const defaultSearchLimit = 10

type indexed struct {
	product  Product
	words    []string
	haystack string
}

// Catalog is safe for concurrent use. The product set never changes after New.
type Catalog struct {
	byBarcode map[string]Product
	index     []indexed
	cache     cache.Memoizer
}

// New indexes products. c must have the cache.API and cache.Search roles registered.
func New(products []Product, c cache.Memoizer) *Catalog {
	cat := &Catalog{
		byBarcode: make(map[string]Product, len(products)),
		index:     make([]indexed, 0, len(products)),
		cache:     c,
	}
	for _, p := range products {
		words := normalize(p.Brand + " " + p.Title)
		cat.byBarcode[p.Barcode] = p
		cat.index = append(cat.index, indexed{
			product:  p,
			words:    words,
			haystack: strings.Join(words, " "),
		})
	}
	return cat
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.index)
}

// ByBarcode returns the product with the exact barcode.
func (c *Catalog) ByBarcode(ctx context.Context, barcode string) (Product, error) {
	return cache.CachedCall(ctx, c.cache, cache.API, "product:"+barcode, func(context.Context) (Product, error) {
		p, ok := c.byBarcode[barcode]
		if !ok {
			return Product{}, errors.Wrapf(ErrProductNotFound, "barcode %s", barcode)
		}
		return p, nil
	})
}

// Score rates the product with the given barcode.
func (c *Catalog) Score(ctx context.Context, barcode string) (Score, error) {
	return cache.CachedCall(ctx, c.cache, cache.API, "score:"+barcode, func(ctx context.Context) (Score, error) {
		p, err := c.ByBarcode(ctx, barcode)
		if err != nil {
			return Score{}, err
		}
		return Rate(p), nil
	})
}

/*
Search returns up to limit products whose brand and title contain every
query word, ignoring case and accents.

Ranking:
1. More query words matching the start of a product word
2. Shorter title
3. Barcode
*/
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	terms := normalize(query)
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	key := "search:" + strings.Join(terms, " ") + ":" + strconv.Itoa(limit)
	found, err := cache.CachedCall(ctx, c.cache, cache.Search, key, func(context.Context) ([]Product, error) {
		return c.search(terms, limit), nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(found), nil
}

// Lookup resolves a free-form query: barcodes are looked up exactly,
// anything else returns the best search hit.
func (c *Catalog) Lookup(ctx context.Context, query string) (Product, error) {
	query = strings.TrimSpace(query)
	if IsBarcode(query) {
		return c.ByBarcode(ctx, query)
	}

	found, err := c.Search(ctx, query, 1)
	if err != nil {
		return Product{}, err
	}
	if len(found) == 0 {
		return Product{}, errors.Wrapf(ErrProductNotFound, "query %q", query)
	}
	return found[0], nil
}

type match struct {
	product  Product
	prefixes int
}

func (c *Catalog) search(terms []string, limit int) []Product {
	var matches []match
	for _, ix := range c.index {
		m, ok := score(ix, terms)
		if ok {
			matches = append(matches, m)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.prefixes != b.prefixes {
			return a.prefixes > b.prefixes
		}
		if len(a.product.Title) != len(b.product.Title) {
			return len(a.product.Title) < len(b.product.Title)
		}
		return a.product.Barcode < b.product.Barcode
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Product, len(matches))
	for i, m := range matches {
		out[i] = m.product
	}
	return out
}

func score(ix indexed, terms []string) (match, bool) {
	m := match{product: ix.product}
	for _, term := range terms {
		if !strings.Contains(ix.haystack, term) {
			return match{}, false
		}
		for _, w := range ix.words {
			if strings.HasPrefix(w, term) {
				m.prefixes++
				break
			}
		}
	}
	return m, true
}
