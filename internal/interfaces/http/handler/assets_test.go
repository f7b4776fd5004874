package handler

import (
	"testing"

	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
)

func TestAssetResolver_ImageURL(t *testing.T) {
	r := NewAssetResolver("https://cdn.example.com/assets/")

	assert.Equal(t, "https://cdn.example.com/assets/shirts/a_640.webp", r.ImageURL("shirts/a_640.webp"))
	assert.Equal(t, "https://cdn.example.com/assets/shirts/a_640.webp", r.ImageURL("/shirts/a_640.webp"))
	assert.Equal(t, "https://other.example.com/b.webp", r.ImageURL("https://other.example.com/b.webp"))
	assert.Equal(t, "", r.ImageURL(""))

	empty := NewAssetResolver("")
	assert.Equal(t, "shirts/a_640.webp", empty.ImageURL("shirts/a_640.webp"))
}

func TestAssetResolver_ResolveImageSets(t *testing.T) {
	r := NewAssetResolver("https://cdn.example.com")

	sets := catalog.ImageSets{
		{
			{Size: 640, Image: "a_640.webp"},
			{Size: 1280, Image: "a_1280.webp"},
		},
	}

	resolved := r.ResolveImageSets(sets)
	assert.Equal(t, "https://cdn.example.com/a_640.webp", resolved[0][0].Image)
	assert.Equal(t, "https://cdn.example.com/a_1280.webp", resolved[0][1].Image)

	// originals stay untouched so cached projections are not mutated
	assert.Equal(t, "a_640.webp", sets[0][0].Image)
}
