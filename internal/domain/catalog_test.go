package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_Sizes(t *testing.T) {
	sized := &Product{Sizes: []string{"S", "M"}}
	assert.Equal(t, "S", sized.DefaultSize())
	assert.True(t, sized.HasSize("M"))
	assert.False(t, sized.HasSize(DefaultSize))

	unsized := &Product{}
	assert.Equal(t, []string{DefaultSize}, unsized.AvailableSizes())
	assert.Equal(t, DefaultSize, unsized.DefaultSize())
	assert.True(t, unsized.HasSize(DefaultSize))
}

func TestParseSizes(t *testing.T) {
	assert.Equal(t, []string{"S", "M", "L"}, ParseSizes(" S, M ,,L, S"))
	assert.Empty(t, ParseSizes(""))
}

func TestMediaType_Valid(t *testing.T) {
	assert.True(t, MediaImage.Valid())
	assert.True(t, MediaVideo.Valid())
	assert.False(t, MediaType("gif").Valid())
}

func TestGroupProducts(t *testing.T) {
	cats := []Category{{ID: "vestidos", Order: 1}, {ID: "blusas", Order: 2}}
	prods := []*Product{
		{ID: "1", CategoryID: "vestidos"},
		{ID: "2", CategoryID: "vestidos"},
		{ID: "3", CategoryID: "otros"},
	}
	got := GroupProducts(cats, prods)

	assert.Equal(t, cats, got.Categories)
	assert.Len(t, got.Products["vestidos"], 2)
	assert.Equal(t, "2", got.Products["vestidos"][1].ID)
	assert.NotNil(t, got.Products["blusas"])
	assert.Empty(t, got.Products["blusas"])
	assert.Len(t, got.Products["otros"], 1)
}
