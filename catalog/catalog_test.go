package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "github.com/kibblescan/sitecache"
	"github.com/kibblescan/sitecache/catalog"
)

func newCatalog(t *testing.T) (*catalog.Catalog, *cache.Registry) {
	t.Helper()
	products, err := catalog.Bundled()
	require.NoError(t, err)

	r := cache.NewDefaultRegistry()
	return catalog.New(products, r), r
}

func titles(products []catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}

func TestBundled(t *testing.T) {
	products, err := catalog.Bundled()
	require.NoError(t, err)
	assert.Len(t, products, 10)
}

func TestDecode_Validation(t *testing.T) {
	cases := map[string]string{
		"not json":          `{`,
		"short barcode":     `[{"barcode":"123","title":"x"}]`,
		"missing title":     `[{"barcode":"12345678"}]`,
		"negative nutrient": `[{"barcode":"12345678","title":"x","fat":-1}]`,
		"all water":         `[{"barcode":"12345678","title":"x","moisture":100}]`,
		"duplicate":         `[{"barcode":"12345678","title":"x"},{"barcode":"12345678","title":"y"}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Decode(strings.NewReader(doc))
			assert.True(t, errors.Is(err, catalog.ErrInvalidDataset), "got %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"barcode":"87654321","brand":"Test","title":"Sample"}]`), 0o600))

	products, err := catalog.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sample", products[0].Title)

	_, err = catalog.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestByBarcode(t *testing.T) {
	ctx := context.Background()
	c, r := newCatalog(t)

	t.Run("hit is memoized", func(t *testing.T) {
		p, err := c.ByBarcode(ctx, "0012345678905")
		require.NoError(t, err)
		assert.Equal(t, "Northern Paws", p.Brand)

		has, err := r.Has(cache.API, "product:0012345678905")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		_, err := c.ByBarcode(ctx, "9999999999999")
		assert.True(t, errors.Is(err, catalog.ErrProductNotFound))

		has, err := r.Has(cache.API, "product:9999999999999")
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c, r := newCatalog(t)

	t.Run("ranks shorter titles first", func(t *testing.T) {
		got, err := c.Search(ctx, "salmon", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Salmon Oil Topper", "Wild Salmon & Sweet Potato Adult Dry Food"}, titles(got))
	})

	t.Run("accent and case insensitive", func(t *testing.T) {
		got, err := c.Search(ctx, "PATE", 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"Turkey Pâté Wet Food for Cats"}, titles(got))

		got, err = c.Search(ctx, "crème", 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"Duck Crème Kitten Mousse"}, titles(got))
	})

	t.Run("every word must match", func(t *testing.T) {
		got, err := c.Search(ctx, "chick formula", 5)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Grain-Free Chicken Puppy Formula", "Chicken & Vegetable Light Formula"}, titles(got))

		got, err = c.Search(ctx, "chicken salmon", 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("brand participates", func(t *testing.T) {
		got, err := c.Search(ctx, "trailhound", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("results are cached and isolated", func(t *testing.T) {
		first, err := c.Search(ctx, "meadow", 5)
		require.NoError(t, err)
		require.Len(t, first, 2)
		first[0].Title = "mutated"

		second, err := c.Search(ctx, "Meadow", 5)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", second[0].Title)

		has, err := r.Has(cache.Search, "search:meadow:5")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := c.Search(ctx, " -- ", 5)
		assert.ErrorIs(t, err, catalog.ErrEmptyQuery)
	})
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	p, err := c.Lookup(ctx, " 0056789012345 ")
	require.NoError(t, err)
	assert.Equal(t, "High Protein Venison Working Dog", p.Title)

	p, err = c.Lookup(ctx, "whitefish")
	require.NoError(t, err)
	assert.Equal(t, "0045678901236", p.Barcode)

	_, err = c.Lookup(ctx, "unicorn kibble")
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))
}

func TestCatalog_RequiresConfiguredRoles(t *testing.T) {
	products, err := catalog.Bundled()
	require.NoError(t, err)

	c := catalog.New(products, cache.NewRegistry())
	_, err = c.ByBarcode(context.Background(), "0012345678905")
	assert.True(t, cache.IsConfigurationError(err))
}
