package memory

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"funded/contexts/identity-access/account-service/ports"
)

const defaultUploadTTL = 15 * time.Minute

// DocumentStorage stands in for object storage when no bucket is configured.
// It issues deterministic upload URLs under BaseURL and remembers every key.
type DocumentStorage struct {
	BaseURL string
	TTL     time.Duration
	Err     error

	mu   sync.Mutex
	keys []string
}

func NewDocumentStorage(baseURL string) *DocumentStorage {
	return &DocumentStorage{BaseURL: strings.TrimRight(baseURL, "/"), TTL: defaultUploadTTL}
}

func (d *DocumentStorage) PresignUpload(_ context.Context, objectKey string, contentType string) (ports.PresignedUpload, error) {
	if d.Err != nil {
		return ports.PresignedUpload{}, d.Err
	}
	d.mu.Lock()
	d.keys = append(d.keys, objectKey)
	d.mu.Unlock()

	ttl := d.TTL
	if ttl <= 0 {
		ttl = defaultUploadTTL
	}
	objectURL := d.BaseURL + "/" + (&url.URL{Path: objectKey}).EscapedPath()
	return ports.PresignedUpload{
		ObjectKey: objectKey,
		UploadURL: objectURL + "?upload=1",
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": contentType},
		ObjectURL: objectURL,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

func (d *DocumentStorage) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.keys...)
}
