package fetch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/peterbourgon/diskv/v3"
)

// ImageHeight is the height images are scaled to before caching.
const ImageHeight = 300

const maxImageSize = 16 << 20

// ImageFetcher returns the local path of a set's image, downloading it on
// first use.
type ImageFetcher interface {
	FetchImage(ctx context.Context, number string) (string, error)
}

// ImageCache keeps scaled set images in a flat directory.
type ImageCache struct {
	HTTP    *http.Client
	SetsURL string

	d    *diskv.Diskv
	base string
}

// NewImageCache caches images under dir.
func NewImageCache(dir string, timeout time.Duration) *ImageCache {
	return &ImageCache{
		HTTP:    &http.Client{Timeout: timeout},
		SetsURL: DefaultSetsURL,
		d: diskv.New(diskv.Options{
			BasePath: dir,
			TempDir:  filepath.Join(dir, ".tmp"),
			AdvancedTransform: func(key string) *diskv.PathKey {
				return &diskv.PathKey{FileName: key}
			},
			InverseTransform: func(pk *diskv.PathKey) string {
				return pk.FileName
			},
			CacheSizeMax: 0,
		}),
		base: dir,
	}
}

func imageKey(number string) string {
	return number + ".jpg"
}

// Path is where the image of number lives once cached.
func (c *ImageCache) Path(number string) string {
	return filepath.Join(c.base, imageKey(number))
}

// Has reports whether the image of number is cached.
func (c *ImageCache) Has(number string) bool {
	return c.d.Has(imageKey(number))
}

func (c *ImageCache) FetchImage(ctx context.Context, number string) (string, error) {
	key := imageKey(number)
	if c.d.Has(key) {
		return c.Path(number), nil
	}

	raw, err := get(ctx, c.HTTP, c.SetsURL+"/"+key, maxImageSize)
	if err != nil {
		return "", err
	}
	scaled, err := Scale(raw)
	if err != nil {
		return "", fmt.Errorf("fetch: image %s: %w", number, err)
	}
	if err := c.d.Write(key, scaled); err != nil {
		return "", fmt.Errorf("fetch: cache image %s: %w", number, err)
	}
	return c.Path(number), nil
}

// Scale decodes an image, resizes it to ImageHeight keeping the aspect ratio
// and re-encodes it as JPEG.
func Scale(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if img.Bounds().Dy() != ImageHeight {
		img = imaging.Resize(img, 0, ImageHeight, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Disabled never touches the network.
type Disabled struct{}

func (Disabled) FetchSetWeightGrams(context.Context, string) (*int, error) {
	return nil, ErrDisabled
}

func (Disabled) FetchImage(context.Context, string) (string, error) {
	return "", ErrDisabled
}
