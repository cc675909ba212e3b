package fetch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseWeight(t *testing.T) {
	tests := []struct {
		page    string
		want    int
		unknown bool
		err     bool
	}{
		{page: `<span id="item-weight-info">850g</span>`, want: 850},
		{page: `<span id="item-weight-info">1305.5g</span>`, want: 1305},
		{page: `<span id="item-weight-info">?</span>`, unknown: true},
		{page: `<span id="item-weight-info">12g`, want: 12},
		{page: `<html>no weight here</html>`, err: true},
		{page: `<span id="item-weight-info">abc</span>`, err: true},
	}
	for _, tt := range tests {
		got, err := ParseWeight(tt.page)
		switch {
		case tt.err:
			if err == nil {
				t.Fatalf("%q: expected error, got %v", tt.page, got)
			}
		case tt.unknown:
			if err != nil || got != nil {
				t.Fatalf("%q: expected unknown weight, got %v (%v)", tt.page, got, err)
			}
		default:
			if err != nil || got == nil || *got != tt.want {
				t.Fatalf("%q: expected %d, got %v (%v)", tt.page, tt.want, got, err)
			}
		}
	}
}

func TestWeightClient(t *testing.T) {
	var agent, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.UserAgent()
		query = r.URL.Query().Get("S")
		// The site sometimes answers 418 with a full page.
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`<div id="item-weight-info">1343g</div>`))
	}))
	defer srv.Close()

	c := &WeightClient{HTTP: srv.Client(), BaseURL: srv.URL}
	got, err := c.FetchSetWeightGrams(context.Background(), "8880-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if *got != 1343 || query != "8880-1" || !strings.HasPrefix(agent, "Mozilla/") {
		t.Fatalf("unexpected result %d query=%q agent=%q", *got, query, agent)
	}
}

func TestWeightClientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := &WeightClient{HTTP: srv.Client(), BaseURL: srv.URL}
	if _, err := c.FetchSetWeightGrams(context.Background(), "8880-1"); err == nil {
		t.Fatalf("expected error for 503")
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageCacheDownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	raw := pngBytes(t, 120, 60)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/7140-1.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	c := NewImageCache(t.TempDir(), time.Second)
	c.HTTP = srv.Client()
	c.SetsURL = srv.URL

	path, err := c.FetchImage(context.Background(), "7140-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if path != c.Path("7140-1") || !c.Has("7140-1") {
		t.Fatalf("unexpected path %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if format != "jpeg" || cfg.Height != ImageHeight || cfg.Width != 2*ImageHeight {
		t.Fatalf("unexpected image %s %dx%d", format, cfg.Width, cfg.Height)
	}

	if _, err := c.FetchImage(context.Background(), "7140-1"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single download, got %d", hits.Load())
	}

	if _, err := c.FetchImage(context.Background(), "9-1"); err == nil {
		t.Fatalf("expected error for missing image")
	}
}

func TestDisabled(t *testing.T) {
	var d Disabled
	if _, err := d.FetchSetWeightGrams(context.Background(), "9-1"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if _, err := d.FetchImage(context.Background(), "9-1"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestImageURLs(t *testing.T) {
	if got := PartURL("3001"); got != "https://img.bricklink.com/ItemImage/PL/3001.png" {
		t.Fatalf("unexpected part url %s", got)
	}
	if got := FigURL("sw0001"); got != "https://img.bricklink.com/ItemImage/MN/0/sw0001.png" {
		t.Fatalf("unexpected fig url %s", got)
	}
}
