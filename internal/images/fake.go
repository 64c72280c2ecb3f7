package images

import (
	"context"
	"fmt"
	"sync"
)

// Fake records uploads and destroys for tests.
type Fake struct {
	mu        sync.Mutex
	seq       int
	Destroyed []string

	UploadErr error
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Upload(_ context.Context, _ string) (string, error) {
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("https://assets.example.com/products/img_%d.jpg", f.seq), nil
}

func (f *Fake) Destroy(_ context.Context, assetURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Destroyed = append(f.Destroyed, assetURL)
	return nil
}
