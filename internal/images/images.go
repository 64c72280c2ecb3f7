// Package images wraps the hosted image-asset collaborator.
package images

import "context"

type Store interface {
	// Upload accepts a data URL or remote URL and returns the hosted
	// asset URL stored on the product.
	Upload(ctx context.Context, image string) (string, error)
	// Destroy removes the asset a previous Upload returned.
	Destroy(ctx context.Context, assetURL string) error
}
