package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/confprogram/internal/logging"
	page "github.com/JonMunkholm/confprogram/internal/render"
	"github.com/JonMunkholm/confprogram/internal/sheet"
)

// multipartMemory is how much of an upload ParseMultipartForm keeps in
// memory before spilling to a temp file.
const multipartMemory = 8 << 20

// multipartOverhead allows for the form boundaries around the file.
const multipartOverhead = 64 << 10

var errNoFile = errors.New("no file provided")

// handleProgramPage renders the published program. ?diagnostics shows the
// data-quality warnings above it.
func (s *Server) handleProgramPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.programs.Current()
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}

	opts := page.Options{ShowDiagnostics: r.URL.Query().Has("diagnostics")}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.WriteHTML(r.Context(), w, p, opts); err != nil {
		logging.FromContext(r.Context()).Error("render program page", "error", err)
	}
}

// handleProgram returns the published program as JSON.
func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	p, err := s.programs.Current()
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	render.JSON(w, r, p)
}

// handlePreview classifies an uploaded spreadsheet without publishing it,
// so organizers can check an export before replacing the input file.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.previews.Acquire(ctx); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	defer s.previews.Release()

	if s.metrics != nil {
		s.metrics.PreviewStarted()
		defer s.metrics.PreviewDone()
	}

	maxSize := s.cfg.Input.MaxFileSize
	if maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.respondError(w, r, uploadError(err), 0)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile, 0)
		return
	}
	defer file.Close()

	logger := logging.WithFields(ctx, "file", header.Filename, "size", header.Size)
	logger.Info("preview received")

	table, err := sheet.Read(ctx, file, header.Filename, sheet.Options{
		Sheet:    r.FormValue("sheet"),
		MaxBytes: maxSize,
	})
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	program, err := s.service.Build(ctx, table, header.Filename)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	render.JSON(w, r, program)
}

// uploadError classifies a multipart parsing failure.
func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w: limit %d bytes", sheet.ErrTooLarge, tooLargeLimit(tooLarge))
	}
	return fmt.Errorf("%w: %v", errNoFile, err)
}

func tooLargeLimit(err *http.MaxBytesError) int64 {
	if err == nil {
		return 0
	}
	return err.Limit
}

type healthResponse struct {
	Status   string        `json:"status"`
	Program  RefreshStatus `json:"program"`
	Previews LimiterStatus `json:"previews"`
}

// handleHealth always answers 200 while the process is up. Status is
// "degraded" until a program has been built.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Program:  s.programs.Status(),
		Previews: s.previews.Status(),
	}
	if !resp.Program.Ready {
		resp.Status = "degraded"
	}
	render.JSON(w, r, resp)
}
