package handler

import (
	"strings"

	"github.com/VindFlainger/maplapi/internal/domain/catalog"
)

// AssetResolver composes public image URLs from stored object names. The
// catalog persists object names only; the base moves between environments
// and CDNs without touching the data.
type AssetResolver struct {
	base string
}

// NewAssetResolver creates a resolver over the configured asset base. An
// empty base leaves object names untouched.
func NewAssetResolver(baseURL string) *AssetResolver {
	return &AssetResolver{base: strings.TrimRight(baseURL, "/")}
}

// ImageURL returns the public URL for one object name. Values that already
// carry a scheme pass through unchanged.
func (r *AssetResolver) ImageURL(object string) string {
	if r == nil || r.base == "" || object == "" {
		return object
	}
	if strings.Contains(object, "://") {
		return object
	}
	return r.base + "/" + strings.TrimLeft(object, "/")
}

// ResolveImageSets rewrites every rendition of every photo to its public URL
func (r *AssetResolver) ResolveImageSets(sets catalog.ImageSets) catalog.ImageSets {
	if r == nil || r.base == "" || len(sets) == 0 {
		return sets
	}
	out := make(catalog.ImageSets, len(sets))
	for i, set := range sets {
		resolved := make(catalog.ImageSet, len(set))
		for j, img := range set {
			img.Image = r.ImageURL(img.Image)
			resolved[j] = img
		}
		out[i] = resolved
	}
	return out
}
