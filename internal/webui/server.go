package webui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"lenscheck/internal/config"
	"lenscheck/internal/imaging"
	"lenscheck/internal/logging"
	"lenscheck/internal/provenance"
	"lenscheck/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

const uploadField = "photo"

// Analyzer analyzes in-memory uploads.
type Analyzer interface {
	AnalyzeSource(ctx context.Context, src imaging.Source) (provenance.Report, error)
}

// Server is the web UI HTTP server.
type Server struct {
	bind      string
	maxUpload int64
	analyzer  Analyzer
	logger    *slog.Logger
	page      *template.Template
	handler   http.Handler

	listener net.Listener
	server   *http.Server
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// New builds the server and its routes. It does not start listening.
func New(cfg *config.Config, analyzer Analyzer, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("webui: config is required")
	}
	if analyzer == nil {
		return nil, errors.New("webui: analyzer is required")
	}
	page, err := template.New("index.html").Funcs(template.FuncMap{
		"yesno": yesNo,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("webui: parse templates: %w", err)
	}

	s := &Server{
		bind:      strings.TrimSpace(cfg.Server.Bind),
		maxUpload: cfg.Server.MaxUploadBytes,
		analyzer:  analyzer,
		logger:    logging.NewComponentLogger(logger, "webui"),
		page:      page,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/analyze", s.handleAnalyzePage)
	mux.HandleFunc("/api/analyze", authMiddleware(cfg.Server.APIToken, s.handleAnalyzeAPI))
	mux.HandleFunc("/healthz", s.handleHealth)
	s.handler = withRequestID(s.logger, mux)

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves in the background until
// ctx is canceled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("webui listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("web ui listening", logging.String("address", "http://"+listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, useful when binding to port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	s.renderPage(w, http.StatusOK, s.newPage())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyzePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := s.newPage()
	report, status, err := s.analyzeUpload(w, r)
	if err != nil {
		data.Error = err.Error()
		s.renderPage(w, status, data)
		return
	}
	view, err := newResultView(report)
	if err != nil {
		data.Error = err.Error()
		s.renderPage(w, http.StatusInternalServerError, data)
		return
	}
	data.Result = view
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) handleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	report, status, err := s.analyzeUpload(w, r)
	if err != nil {
		s.writeError(w, status, err.Error(), services.Kind(err))
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// analyzeUpload streams the photo part into memory and analyzes it. The
// returned status is the HTTP code to use when err is non-nil.
func (s *Server) analyzeUpload(w http.ResponseWriter, r *http.Request) (provenance.Report, int, error) {
	src, err := s.readUpload(w, r)
	if err != nil {
		return provenance.Report{}, statusFor(err), err
	}
	report, err := s.analyzer.AnalyzeSource(r.Context(), src)
	if err != nil {
		return report, statusFor(err), err
	}
	return report, http.StatusOK, nil
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (imaging.Source, error) {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return imaging.Source{}, services.Wrap(services.ErrUnreadable, "upload", "expected multipart/form-data", nil)
	}
	reader, err := r.MultipartReader()
	if err != nil {
		return imaging.Source{}, services.Wrap(services.ErrUnreadable, "upload", "", err)
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return imaging.Source{}, services.Wrap(services.ErrUnreadable, "upload", "missing "+uploadField+" field", nil)
		}
		if err != nil {
			return imaging.Source{}, s.uploadReadError(err)
		}
		if part.FormName() != uploadField {
			_ = part.Close()
			continue
		}
		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return imaging.Source{}, s.uploadReadError(err)
		}
		name := strings.TrimSpace(part.FileName())
		if name == "" {
			name = "upload"
		}
		return imaging.Source{Name: name, Data: data}, nil
	}
}

func (s *Server) uploadReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return services.Wrap(services.ErrTooLarge, "upload", fmt.Sprintf("upload exceeds %d bytes", maxErr.Limit), nil)
	}
	return services.Wrap(services.ErrUnreadable, "upload", "", err)
}

func statusFor(err error) int {
	switch services.Kind(err) {
	case services.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case services.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case services.KindCorrupt:
		return http.StatusUnprocessableEntity
	case services.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", logging.Error(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, payload, s.logger)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, kind string) {
	s.writeJSON(w, status, errorResponse{Error: message, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", logging.Error(err))
	}
}
