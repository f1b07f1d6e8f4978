package service

import (
	"context"
	"testing"

	"marketplace/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProductValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []AddProductRequest{
		{Name: "", Price: 10, Images: []string{"a"}},
		{Name: "Phone", Price: 0, Images: []string{"a"}},
		{Name: "Phone", Price: -5, Images: []string{"a"}},
		{Name: "Phone", Price: 10},
		{Name: "Phone", Price: 10, Images: []string{""}},
	}
	for _, req := range cases {
		_, err := f.catalog.AddProduct(ctx, req)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "%+v", req)
	}
	assert.Empty(t, f.catalog.ListProducts(""))
}

func TestAddListDeleteProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	laptop, err := f.catalog.AddProduct(ctx, AddProductRequest{Name: " Laptop Pro X1 ", Price: 450000, Images: []string{"l1"}})
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro X1", laptop.Name)
	assert.NotEmpty(t, laptop.ID)

	_, err = f.catalog.AddProduct(ctx, AddProductRequest{Name: "Wireless Headphones", Price: 25000, Images: []string{"h1"}})
	require.NoError(t, err)

	assert.Len(t, f.catalog.ListProducts(""), 2)
	found := f.catalog.ListProducts("LAPTOP")
	require.Len(t, found, 1)
	assert.Equal(t, laptop.ID, found[0].ID)

	require.NoError(t, f.catalog.DeleteProduct(ctx, laptop.ID))
	err = f.catalog.DeleteProduct(ctx, laptop.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = f.catalog.Product(laptop.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestImageSliderWrapsPerSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.catalog.AddProduct(ctx, AddProductRequest{Name: "Phone", Price: 1, Images: []string{"a", "b", "c"}})
	require.NoError(t, err)

	alice := f.customer(t, "alice")
	bob := f.customer(t, "bob")

	img, err := f.catalog.CurrentImage(alice, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", img)

	img, _ = f.catalog.PrevImage(alice, p.ID)
	assert.Equal(t, "c", img)
	img, _ = f.catalog.NextImage(alice, p.ID)
	assert.Equal(t, "a", img)
	img, _ = f.catalog.NextImage(alice, p.ID)
	assert.Equal(t, "b", img)

	img, _ = f.catalog.CurrentImage(bob, p.ID)
	assert.Equal(t, "a", img)

	_, err = f.catalog.NextImage(alice, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSeedSampleCatalogOnlyWhenEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.catalog.SeedSampleCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = f.catalog.SeedSampleCatalog(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, f.catalog.ListProducts(""), 3)
}
