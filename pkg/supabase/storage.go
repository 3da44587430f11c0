package supabase

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

type UploadOptions struct {
	ContentType  string
	CacheControl int
	Upsert       bool
}

// Bucket scopes object operations to one storage bucket.
type Bucket struct {
	client *Client
	name   string
}

func (c *Client) Bucket(name string) *Bucket {
	return &Bucket{client: c, name: name}
}

func (b *Bucket) Name() string { return b.name }

// Upload stores data under objectPath. Writes use the service key so the
// bucket's row level policies do not apply.
func (b *Bucket) Upload(ctx context.Context, objectPath string, data []byte, opts UploadOptions) error {
	if err := ctxError(ctx); err != nil {
		return err
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	cacheControl := "no-cache"
	if opts.CacheControl > 0 {
		cacheControl = "max-age=" + strconv.Itoa(opts.CacheControl)
	}
	upsert := opts.Upsert

	b.client.uploadMu.Lock()
	defer b.client.uploadMu.Unlock()
	_, err := b.client.storage.UploadFile(b.name, objectKey(objectPath), bytes.NewReader(data), storage_go.FileOptions{
		ContentType:  &contentType,
		CacheControl: &cacheControl,
		Upsert:       &upsert,
	})
	return storageError(err)
}

// PublicURL is the retrieval URL of an object in a public bucket. No request is made.
func (b *Bucket) PublicURL(objectPath string) string {
	return b.client.storage.GetPublicUrl(b.name, objectKey(objectPath)).SignedURL
}

func objectKey(objectPath string) string {
	parts := strings.Split(strings.TrimLeft(objectPath, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
