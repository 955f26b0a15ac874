package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"lenscheck/internal/config"
	"lenscheck/internal/logging"
	"lenscheck/internal/provenance"
	"lenscheck/internal/testsupport"
)

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*Server, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	analyzer := provenance.NewAnalyzer(cfg, logging.NewNop())
	srv, err := New(cfg, analyzer, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return srv, cfg
}

func uploadRequest(t *testing.T, target, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("note", "ignored"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func phoneJPEG(t *testing.T) []byte {
	return testsupport.JPEG(t, testsupport.JPEGOptions{
		Width:  1200,
		Height: 900,
		Exif:   testsupport.ExifBlock(testsupport.PhoneExif()),
		PadTo:  150 * 1024,
	})
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestIndexServesDropPage(t *testing.T) {
	srv, _ := newTestServer(t)
	w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	body := w.Body.String()
	for _, fragment := range []string{`id="dropzone"`, `name="photo"`, "image/webp", "up to 32 MiB"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in page", fragment)
		}
	}
	if _, err := uuid.Parse(w.Header().Get(requestIDHeader)); err != nil {
		t.Fatalf("expected uuid request id, got %q", w.Header().Get(requestIDHeader))
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	if w := serve(srv, httptest.NewRequest(http.MethodGet, "/nope", nil)); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	w := serve(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status": "ok"`) {
		t.Fatalf("unexpected health response %d %s", w.Code, w.Body.String())
	}
}

func TestAnalyzePageRendersPanels(t *testing.T) {
	srv, _ := newTestServer(t)
	w := serve(srv, uploadRequest(t, "/analyze", "photo", "phone.jpg", phoneJPEG(t)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, fragment := range []string{
		`class="banner success"`,
		"Captured with Apple iPhone",
		"Apple iPhone 15 Pro",
		"1200x900",
		"2024:05:01 10:21:33",
		"GPS coordinates embedded (redacted in this report)",
		"looks_like_camera",
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in result page", fragment)
		}
	}
}

func TestAnalyzePageShowsInlineError(t *testing.T) {
	srv, _ := newTestServer(t)
	w := serve(srv, uploadRequest(t, "/analyze", "photo", "notes.txt", []byte("plain text")))

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `role="alert"`) {
		t.Fatal("expected inline warning panel")
	}
}

func TestAnalyzePageGetRedirects(t *testing.T) {
	srv, _ := newTestServer(t)
	w := serve(srv, httptest.NewRequest(http.MethodGet, "/analyze", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestAnalyzeAPIReturnsReport(t *testing.T) {
	srv, _ := newTestServer(t)
	w := serve(srv, uploadRequest(t, "/api/analyze", "photo", "phone.jpg", phoneJPEG(t)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var report provenance.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.File != "phone.jpg" || !report.LooksLikeCamera || report.Make != "Apple" {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestAnalyzeAPIErrors(t *testing.T) {
	srv, _ := newTestServer(t, testsupport.WithMaxUploadBytes(4096))

	tests := []struct {
		name   string
		req    *http.Request
		status int
		kind   string
	}{
		{
			name:   "too large",
			req:    uploadRequest(t, "/api/analyze", "photo", "big.jpg", bytes.Repeat([]byte{0xFF}, 16*1024)),
			status: http.StatusRequestEntityTooLarge,
			kind:   "too_large",
		},
		{
			name:   "unsupported",
			req:    uploadRequest(t, "/api/analyze", "photo", "a.txt", []byte("hello")),
			status: http.StatusUnsupportedMediaType,
			kind:   "unsupported_format",
		},
		{
			name:   "corrupt",
			req:    uploadRequest(t, "/api/analyze", "photo", "a.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}),
			status: http.StatusUnprocessableEntity,
			kind:   "corrupt",
		},
		{
			name:   "missing field",
			req:    uploadRequest(t, "/api/analyze", "other", "a.jpg", []byte("x")),
			status: http.StatusBadRequest,
			kind:   "unreadable",
		},
		{
			name:   "not multipart",
			req:    httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{}")),
			status: http.StatusBadRequest,
			kind:   "unreadable",
		},
		{
			name:   "wrong method",
			req:    httptest.NewRequest(http.MethodGet, "/api/analyze", nil),
			status: http.StatusMethodNotAllowed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(srv, tt.req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Error == "" || resp.Kind != tt.kind {
				t.Fatalf("unexpected error response %+v", resp)
			}
		})
	}
}

func TestAPITokenGuardsAPIOnly(t *testing.T) {
	srv, _ := newTestServer(t, testsupport.WithAPIToken("secret"))
	data := testsupport.BMP(t, 16, 16)

	w := serve(srv, uploadRequest(t, "/api/analyze", "photo", "a.bmp", data))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req := uploadRequest(t, "/api/analyze", "photo", "a.bmp", data)
	req.Header.Set("Authorization", "Bearer wrong")
	if w := serve(srv, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}

	req = uploadRequest(t, "/api/analyze", "photo", "a.bmp", data)
	req.Header.Set("Authorization", "Bearer secret")
	if w := serve(srv, req); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}

	if w := serve(srv, uploadRequest(t, "/analyze", "photo", "a.bmp", data)); w.Code != http.StatusOK {
		t.Fatalf("expected page upload to stay open, got %d", w.Code)
	}
}

func TestStartServesAndStops(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "ok") {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}

	srv.Stop()
	if _, err := client.Get("http://" + srv.Addr() + "/healthz"); err == nil {
		t.Fatal("expected request to fail after Stop")
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := New(nil, provenance.NewAnalyzer(cfg, nil), nil); err == nil {
		t.Fatal("expected error without config")
	}
	if _, err := New(cfg, nil, nil); err == nil {
		t.Fatal("expected error without analyzer")
	}
}
