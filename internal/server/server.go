// Package server exposes the ingestion pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/latspace/mapping-agent/internal/config"
	"github.com/latspace/mapping-agent/internal/model"
)

// ServiceName is reported by the health check.
const ServiceName = "LatSpace Data Mapping Agent"

// Response details for rejected uploads.
const (
	detailInvalidType = "Invalid file type. Please upload an Excel or CSV file."
	detailNoFile      = "No file uploaded. Send the spreadsheet in the \"file\" form field."
	detailTooLarge    = "File too large."
)

var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// Processor turns a stored upload into a ParseResult.
type Processor interface {
	Process(ctx context.Context, path string) (*model.ParseResult, error)
}

// Options configures upload handling.
type Options struct {
	TempDir        string
	MaxUploadBytes int64
	ParseTimeout   time.Duration
	AllowedOrigins []string
}

// OptionsFromConfig converts server config values to Options.
func OptionsFromConfig(cfg config.ServerConfig) Options {
	return Options{
		TempDir:        cfg.TempDir,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		ParseTimeout:   time.Duration(cfg.ParseTimeoutSecs) * time.Second,
		AllowedOrigins: cfg.AllowedOrigins,
	}
}

// Server routes health and parse requests to a Processor.
type Server struct {
	proc Processor
	opts Options
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// New creates a Server. Empty options fall back to the OS temp dir, a 32MB
// upload cap, a two-minute parse timeout and any origin.
func New(proc Processor, opts Options) *Server {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.ParseTimeout <= 0 {
		opts.ParseTimeout = 2 * time.Minute
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{proc: proc, opts: opts}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/parse", s.handleParse)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{Status: "healthy", Service: ServiceName})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	log := zap.L().With(zap.String("request_id", middleware.GetReqID(r.Context())))

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, fh, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, detailTooLarge)
			return
		}
		writeError(w, r, http.StatusBadRequest, detailNoFile)
		return
	}
	defer file.Close() //nolint:errcheck

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		log.Info("server: rejected upload", zap.String("filename", fh.Filename))
		writeError(w, r, http.StatusBadRequest, detailInvalidType)
		return
	}

	path, err := s.store(file, ext)
	if path != "" {
		defer func() {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Warn("server: remove upload", zap.String("path", path), zap.Error(rmErr))
			}
		}()
	}
	if err != nil {
		log.Error("server: store upload", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.ParseTimeout)
	defer cancel()

	result, err := s.proc.Process(ctx, path)
	if err != nil {
		log.Error("server: parse failed",
			zap.String("filename", fh.Filename),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info("server: parse complete",
		zap.String("filename", fh.Filename),
		zap.Int("observations", len(result.Observations)),
		zap.Int("unmapped", len(result.UnmappedColumns)),
	)
	render.JSON(w, r, result)
}

// store copies the upload to a uniquely named file. The returned path is
// set whenever a file was created, even if the copy failed.
func (s *Server) store(src io.Reader, ext string) (string, error) {
	path := filepath.Join(s.opts.TempDir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "server: create temp file")
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close() //nolint:errcheck
		return path, eris.Wrap(err, "server: write temp file")
	}
	if err := dst.Close(); err != nil {
		return path, eris.Wrap(err, "server: close temp file")
	}
	return path, nil
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Detail: detail})
}

// requestLogger logs one line per request with the zap global logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			zap.L().Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
