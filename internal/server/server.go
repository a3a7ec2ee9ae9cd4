// Package server exposes the reshape and missing-data scans as file-in,
// file-out HTTP endpoints.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"household-reshaper/internal/config"
	"household-reshaper/internal/exporter"
	"household-reshaper/internal/layout"
	"household-reshaper/internal/logger"
	"household-reshaper/internal/model"
	"household-reshaper/internal/reader"
	"household-reshaper/internal/reshape"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server holds the router and the configuration every request is run with
type Server struct {
	cfg    *config.Config
	layout *layout.Layout
	router *chi.Mux
}

// New builds a Server and registers its routes
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:    cfg,
		layout: layout.New(cfg),
	}
	s.setupRouter()
	return s
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/reformat", s.handleReformat)
		r.Post("/missing", s.handleMissing)
	})

	s.router = r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleReformat(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runUpload(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteReshaped(&buf, result); err != nil {
		s.fail(w, r, fmt.Errorf("failed to build reshaped workbook: %w", err))
		return
	}

	logger.Info("Generated %d new rows", len(result.Rows))
	sendWorkbook(w, s.cfg.Output.FileName+".xlsx", &buf)
}

func (s *Server) handleMissing(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runUpload(w, r)
	if !ok {
		return
	}

	if !result.HasFindings() {
		logger.Info("No missing data found")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteMissing(&buf, result.Findings); err != nil {
		s.fail(w, r, fmt.Errorf("failed to build missing-data workbook: %w", err))
		return
	}

	logger.Info("Found %d members with missing data", len(result.Findings))
	sendWorkbook(w, s.cfg.Output.MissingName+".xlsx", &buf)
}

// runUpload reads the multipart "file" field and runs one reshape pass over
// it. On failure the error response has already been written.
func (s *Server) runUpload(w http.ResponseWriter, r *http.Request) (*model.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadMB<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Render(w, r, ErrBadRequest("File too large"))
			return nil, false
		}
		render.Render(w, r, ErrBadRequest("No file provided"))
		return nil, false
	}
	defer file.Close()

	rows, err := reader.Read(header.Filename, file, reader.Options{
		Sheet:     s.cfg.Input.Sheet,
		Encoding:  s.cfg.Input.Encoding,
		RawValues: s.cfg.Input.RawValues,
	})
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}

	logger.Info("Original Row Count: %d", len(rows))

	result, err := reshape.NewPass(s.layout).
		BlankRepeatedHousehold(s.cfg.Layout.BlankRepeatedHousehold).
		Run(r.Context(), rows)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}

	result.Summary.Stamp(header.Filename, time.Now())
	w.Header().Set("X-Run-ID", result.Summary.RunID)
	return result, true
}

// fail maps an error to a JSON response: input problems are 400, the rest 500
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reader.ErrNoSheet):
		render.Render(w, r, ErrBadRequest("No sheet found in workbook"))
	case errors.Is(err, reshape.ErrEmptyInput):
		render.Render(w, r, ErrBadRequest("No data found in sheet"))
	case errors.Is(err, reader.ErrUnsupportedFormat):
		render.Render(w, r, ErrBadRequest("Unsupported file format"))
	default:
		logger.Error("Request %s failed: %v", middleware.GetReqID(r.Context()), err)
		render.Render(w, r, ErrInternal(err))
	}
}

func sendWorkbook(w http.ResponseWriter, name string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", body.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}
