package web

import (
	"context"
	"io"
	"net/http"

	"github.com/ysalama/plantdoc/internal/domain"
	"github.com/ysalama/plantdoc/internal/session"
)

const maxUploadSize = 20 * 1024 * 1024 // 20 MB

// allowedImageTypes is the set of MIME types accepted for uploads, per the
// inbound contract: JPEG or PNG, sniffed from magic bytes rather than trusted
// from the form.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// readUpload extracts and validates the uploaded image. On failure it has
// already written the error response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, mimeType string, ok bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse upload form")
		return nil, "", false
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file required")
		return nil, "", false
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error("failed to close upload file", "error", err)
		}
	}()

	data, err = io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return nil, "", false
	}

	mimeType = http.DetectContentType(data)
	if !allowedImageTypes[mimeType] {
		writeError(w, http.StatusBadRequest, "unsupported image format, upload a JPEG or PNG photo")
		return nil, "", false
	}
	return data, mimeType, true
}

func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	s.handleDetection(w, r, s.service.Identify)
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	s.handleDetection(w, r, s.service.Diagnose)
}

func (s *Server) handleDetection(w http.ResponseWriter, r *http.Request,
	detect func(context.Context, *session.Session, []byte, string) (*domain.DetectionResult, error),
) {
	sess := s.session(w, r)

	data, mimeType, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := detect(r.Context(), sess, data, mimeType)
	if err != nil {
		// Provider failures arrive here as an aggregated, user-renderable
		// message; they are an expected outcome, not a server fault.
		s.logger.Warn("detection failed", "session", sess.ID, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	reader, mimeType, err := s.service.OpenPhoto(r.Context(), sess)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if reader == nil {
		http.NotFound(w, r)
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.logger.Error("failed to close photo reader", "error", err)
		}
	}()

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "session", sess.ID, "error", err)
	}
}
