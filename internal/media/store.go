// Package media implements the external object-storage collaborator:
// uploaded images are normalized, stored under an opaque public ID, and
// referenced by {public_id, url} pairs.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Asset is the reference a stored image is known by.
type Asset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Store is the object-storage interface used by the services.
// Destroying an absent asset is a no-op, not an error: the account
// deletion cascade relies on idempotent re-runs.
type Store interface {
	Upload(ctx context.Context, folder string, data []byte) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// ErrEmptyImage is returned when an upload carries no decodable payload.
var ErrEmptyImage = errors.New("empty image payload")

// DecodeDataURI decodes a base64 data URI ("data:image/...;base64,....")
// or a bare base64 string into raw bytes.
func DecodeDataURI(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyImage
	}
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URI")
		}
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	return data, nil
}
