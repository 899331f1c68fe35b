package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore stores normalized images on local disk and serves them from
// a configured base URL. It fills the external object-storage role in
// deployments without a hosted image service.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore returns a DiskStore rooted at dir, serving from baseURL.
func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Dir returns the storage root, for wiring a static file route.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Upload normalizes data and writes the JPEG master plus a WebP
// rendition under an opaque public ID.
func (s *DiskStore) Upload(ctx context.Context, folder string, data []byte) (Asset, error) {
	jpegData, webpData, err := Normalize(data, MasterMaxSize)
	if err != nil {
		return Asset{}, err
	}

	publicID := filepath.Join(folder, uuid.NewString())
	dir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("create media dir: %w", err)
	}

	jpegPath := filepath.Join(s.dir, publicID+".jpg")
	if err := os.WriteFile(jpegPath, jpegData, 0o644); err != nil {
		return Asset{}, fmt.Errorf("write image: %w", err)
	}
	// WebP rendition is best-effort; the JPEG master is authoritative.
	_ = os.WriteFile(filepath.Join(s.dir, publicID+".webp"), webpData, 0o644)

	return Asset{
		PublicID: publicID,
		URL:      s.baseURL + "/" + filepath.ToSlash(publicID) + ".jpg",
	}, nil
}

// Destroy removes the stored renditions for publicID. Absent files are
// ignored so cascade re-runs stay idempotent.
func (s *DiskStore) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	// Refuse path escapes in stored IDs.
	clean := filepath.Clean(publicID)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid public id %q", publicID)
	}

	for _, ext := range []string{".jpg", ".webp"} {
		err := os.Remove(filepath.Join(s.dir, clean+ext))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", clean+ext, err)
		}
	}
	return nil
}
