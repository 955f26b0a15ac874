package remote_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lenscheck/internal/logging"
	"lenscheck/internal/remote"
	"lenscheck/internal/services"
	"lenscheck/internal/testsupport"
)

func newClient(t *testing.T, maxBytes int64) *remote.Client {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithMaxDownloadBytes(maxBytes))
	return remote.NewClient(cfg.Fetch, logging.NewNop())
}

func TestFetchDownloadsBody(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	userAgents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	src, err := newClient(t, 1024).Fetch(context.Background(), srv.URL+"/photo.jpg")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !bytes.Equal(src.Data, payload) {
		t.Fatalf("unexpected body % x", src.Data)
	}
	if src.Name != srv.URL+"/photo.jpg" {
		t.Fatalf("unexpected name %q", src.Name)
	}
	if userAgent := <-userAgents; userAgent != "lenscheck/dev" {
		t.Fatalf("unexpected user agent %q", userAgent)
	}
}

func TestFetchClassifiesFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{0x42}, 4096))
	})
	mux.HandleFunc("/chunked", func(w http.ResponseWriter, r *http.Request) {
		flusher, _ := w.(http.Flusher)
		for i := 0; i < 8; i++ {
			_, _ = w.Write(bytes.Repeat([]byte{0x42}, 512))
			if flusher != nil {
				flusher.Flush()
			}
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newClient(t, 1024)
	tests := []struct {
		path   string
		marker error
	}{
		{"/missing", services.ErrNotFound},
		{"/boom", services.ErrUnreadable},
		{"/big", services.ErrTooLarge},
		{"/chunked", services.ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := client.Fetch(context.Background(), srv.URL+tt.path)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
		})
	}
}

func TestFetchHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, 1024).Fetch(ctx, srv.URL)
	if !errors.Is(err, services.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestFetchRejectsNonHTTP(t *testing.T) {
	_, err := newClient(t, 0).Fetch(context.Background(), "ftp://example.com/a.jpg")
	if !errors.Is(err, services.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a.jpg": true,
		"HTTP://example.com":        true,
		"http://":                   false,
		"photos/a.jpg":              false,
		"/tmp/http.jpg":             false,
		"file:///tmp/a.jpg":         false,
	}
	for input, want := range tests {
		if got := remote.IsURL(input); got != want {
			t.Fatalf("IsURL(%q) = %v, want %v", input, got, want)
		}
	}
}
