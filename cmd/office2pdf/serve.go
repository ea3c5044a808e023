package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	office2pdf "github.com/alnah/go-office2pdf"
	"github.com/alnah/go-office2pdf/internal/fileutil"
)

// HTTP headers set on every response.
const (
	headerRequestID = "X-Request-ID"
	headerTier      = "X-Conversion-Tier"
)

const (
	defaultUploadMB   = 50
	multipartMemory   = 8 << 20
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	fallbackFilename  = "document"
)

type ctxKey int

const requestIDKey ctxKey = iota

// server serves conversions over HTTP. Conversions run on at most
// cap(sem) goroutines; further requests wait for a slot.
type server struct {
	conv      DocumentConverter
	logger    *slog.Logger
	maxUpload int64
	sem       chan struct{}
}

func newServer(conv DocumentConverter, logger *slog.Logger, maxUploadMB, workers int) *server {
	if maxUploadMB <= 0 {
		maxUploadMB = defaultUploadMB
	}
	return &server{
		conv:      conv,
		logger:    logger,
		maxUpload: int64(maxUploadMB) << 20,
		sem:       make(chan struct{}, max(workers, 1)),
	}
}

// routes builds the router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/capabilities", s.handleCapabilities)
		r.Post("/convert", s.handleConvert)
	})
	return r
}

// requestID keeps a client-supplied UUID or assigns a new one.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.conv.Capabilities(r.Context()))
}

// handleConvert accepts a multipart upload in field "file" with an
// optional "category" and responds with the PDF, whichever tier made it.
func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-r.Context().Done():
		s.fail(w, r, http.StatusServiceUnavailable, "request cancelled while waiting for a worker")
		return
	}

	if r.ContentLength > s.maxUpload {
		s.fail(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
			return
		}
		s.fail(w, r, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, `missing form field "file"`)
		return
	}
	defer file.Close()

	name := uploadName(header.Filename)
	var category office2pdf.FormatCategory
	if v := r.FormValue("category"); v != "" {
		c, ok := office2pdf.ParseFormatCategory(v)
		if !ok {
			s.fail(w, r, http.StatusBadRequest, fmt.Sprintf("unknown category %q", v))
			return
		}
		category = c
	} else if !office2pdf.DetectCategory(name).Valid() {
		s.fail(w, r, http.StatusUnsupportedMediaType,
			fmt.Sprintf("unsupported extension %q (supported: %s)", filepath.Ext(name), strings.Join(office2pdf.SupportedExtensions(), ", ")))
		return
	}

	dir, err := os.MkdirTemp("", fileutil.TempPrefix+"serve-*")
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "creating work directory")
		return
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, name)
	if err := saveUpload(in, file); err != nil {
		s.fail(w, r, http.StatusInternalServerError, "storing upload")
		return
	}
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, dirPermissions); err != nil {
		s.fail(w, r, http.StatusInternalServerError, "creating work directory")
		return
	}
	pdfName := strings.TrimSuffix(name, filepath.Ext(name)) + ".pdf"

	res, err := s.conv.Convert(r.Context(), office2pdf.Request{
		InputPath:  in,
		OutputPath: filepath.Join(outDir, pdfName),
		Category:   category,
	})
	if err != nil {
		if errors.Is(err, office2pdf.ErrInvalidRequest) {
			s.fail(w, r, http.StatusBadRequest, err.Error())
			return
		}
		s.fail(w, r, http.StatusInternalServerError, office2pdf.ErrConversionFailed.Error())
		return
	}

	s.sendPDF(w, r, res, pdfName)
}

func (s *server) sendPDF(w http.ResponseWriter, r *http.Request, res *office2pdf.Result, filename string) {
	f, err := os.Open(res.OutputPath) // #nosec G304 -- path built by this handler
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "reading output")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "reading output")
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set(headerTier, res.Tier.String())
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, f); err != nil {
		s.logger.Warn("sending PDF", "id", requestIDFrom(r.Context()), "error", err)
	}
}

// uploadName reduces a client file name to a safe base name.
func uploadName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." || base == "/" || base == ".." {
		return fallbackFilename
	}
	return base
}

func saveUpload(dst string, src io.Reader) error {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) // #nosec G304 -- dst is inside our temp dir
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: requestIDFrom(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// runServeCmd parses flags and serves until ctx is cancelled.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common, env)
	if err != nil {
		return err
	}
	if flags.workers != 0 {
		if err := validateWorkers(flags.workers); err != nil {
			return err
		}
		cfg.Convert.Workers = flags.workers
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}

	logger := newLogger(env.Stderr, cfg.Log, &flags.common, slog.LevelDebug)
	conv, err := newConverter(cfg, logger, env)
	if err != nil {
		return err
	}
	defer conv.Close()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}

	workers := office2pdf.ResolveWorkers(cfg.Convert.Workers)
	srv := &http.Server{
		Handler:           newServer(conv, logger, cfg.Server.MaxUploadMB, workers).routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	logger.Info("serving", "addr", ln.Addr().String(), "workers", workers)
	return serveHTTP(ctx, srv, ln, logger)
}

// serveHTTP serves on ln until ctx is done, then shuts down gracefully.
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serving HTTP: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}
