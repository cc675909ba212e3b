// Package fetch retrieves set weights and images from the public catalog
// sites. Everything here is best effort; callers treat failures as unknown.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWeightURL is the catalog page carrying a set's weight.
	DefaultWeightURL = "https://www.bricklink.com/v2/catalog/catalogitem.page"
	// DefaultSetsURL serves set images as <number>.jpg.
	DefaultSetsURL = "https://cdn.rebrickable.com/media/sets"

	partsURL = "https://img.bricklink.com/ItemImage/PL"
	figsURL  = "https://img.bricklink.com/ItemImage/MN/0"

	userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	weightMarker = `-info">`
	// Only this many bytes after the marker can hold the weight.
	weightWindow = 6
	maxPageSize  = 4 << 20
)

var (
	// ErrDisabled is returned by Disabled fetchers.
	ErrDisabled = errors.New("fetch: network access disabled")
	// ErrWeightNotFound is returned when the page has no weight field.
	ErrWeightNotFound = errors.New("fetch: weight not found")
)

// WeightFetcher looks up the weight of a set in grams. A nil weight with a
// nil error means the site lists the weight as unknown.
type WeightFetcher interface {
	FetchSetWeightGrams(ctx context.Context, number string) (*int, error)
}

// WeightClient scrapes the weight from the catalog item page.
type WeightClient struct {
	HTTP    *http.Client
	BaseURL string
}

// NewWeightClient returns a client using DefaultWeightURL.
func NewWeightClient(timeout time.Duration) *WeightClient {
	return &WeightClient{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: DefaultWeightURL,
	}
}

func (c *WeightClient) FetchSetWeightGrams(ctx context.Context, number string) (*int, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultWeightURL
	}
	body, err := get(ctx, c.HTTP, base+"?S="+number, maxPageSize)
	if err != nil {
		return nil, err
	}
	return ParseWeight(string(body))
}

// ParseWeight extracts the integer gram weight following the info marker.
// "?" means the weight is unknown.
func ParseWeight(page string) (*int, error) {
	i := strings.Index(page, weightMarker)
	if i < 0 {
		return nil, ErrWeightNotFound
	}
	field := page[i+len(weightMarker):]
	if len(field) > weightWindow {
		field = field[:weightWindow]
	}
	field, _, _ = strings.Cut(field, "g")
	if field == "" {
		return nil, ErrWeightNotFound
	}
	if field[0] == '?' {
		return nil, nil
	}
	whole, _, _ := strings.Cut(field, ".")
	grams, err := strconv.Atoi(strings.TrimSpace(whole))
	if err != nil {
		return nil, fmt.Errorf("fetch: parse weight %q: %w", field, err)
	}
	return &grams, nil
}

// PartURL is the image of a part.
func PartURL(partNumber string) string {
	return fmt.Sprintf("%s/%s.png", partsURL, partNumber)
}

// FigURL is the image of a minifigure.
func FigURL(figNumber string) string {
	return fmt.Sprintf("%s/%s.png", figsURL, figNumber)
}

// get issues a GET with a browser user agent. The sites answer 418 to some
// clients while still serving the page, so it counts as success.
func get(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusTeapot {
		return nil, fmt.Errorf("fetch: get %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s: %w", url, err)
	}
	return body, nil
}
