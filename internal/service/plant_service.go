package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ysalama/plantdoc/internal/domain"
	"github.com/ysalama/plantdoc/internal/imageutil"
	"github.com/ysalama/plantdoc/internal/photostore"
	"github.com/ysalama/plantdoc/internal/plant"
	"github.com/ysalama/plantdoc/internal/session"
)

// orchestrator is the subset of plant.Fallback that PlantService requires.
type orchestrator interface {
	Identify(ctx context.Context, img plant.ImageInput, prompt string) (*domain.DetectionResult, error)
	Chat(ctx context.Context, system, message string) string
	IdentifierNames() []string
	ChatterNames() []string
}

// historyRepository is the subset of store.HistoryStore that PlantService requires.
type historyRepository interface {
	Create(ctx context.Context, sessionID, plantName, scientificName, kind, disease string) (*domain.DetectionRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]*domain.DetectionRecord, error)
	ClearBySession(ctx context.Context, sessionID string) error
}

type PlantService struct {
	providers orchestrator
	history   historyRepository
	photoStg  photostore.PhotoStore
	logger    *slog.Logger
}

func NewPlantService(providers orchestrator, history historyRepository, photoStg photostore.PhotoStore, logger *slog.Logger) *PlantService {
	return &PlantService{
		providers: providers,
		history:   history,
		photoStg:  photoStg,
		logger:    logger,
	}
}

// Identify runs the identification chain on an uploaded photo, stores the
// photo for re-display, replaces the session's plant context, and appends a
// history record. The whole chain is synchronous: one upload, one pass over
// the providers.
func (s *PlantService) Identify(ctx context.Context, sess *session.Session, imageData []byte, mimeType string) (*domain.DetectionResult, error) {
	s.logger.Info("identify started", "session", sess.ID, "mime_type", mimeType, "bytes", len(imageData))

	img, err := s.prepare(imageData)
	if err != nil {
		return nil, err
	}

	result, err := s.providers.Identify(ctx, img, plant.IdentifyPrompt)
	if err != nil {
		return nil, err
	}

	s.savePhoto(ctx, sess, imageData, mimeType)

	sess.SetContext(&domain.PlantContext{
		PlantName:      result.PlantName,
		ScientificName: result.ScientificName,
		Family:         result.Family,
		Confidence:     result.Confidence,
	})

	if _, err := s.history.Create(ctx, sess.ID, result.PlantName, result.ScientificName, domain.KindIdentification, ""); err != nil {
		// History is a convenience record; the identification itself succeeded.
		s.logger.Error("failed to record detection", "session", sess.ID, "error", err)
	}

	s.logger.Info("identify complete", "session", sess.ID, "plant", result.PlantName, "provider", result.SourceProvider)
	return result, nil
}

// Diagnose runs the health-check chain. On success the session context keeps
// the plant identity and gains the health findings, and a "disease" history
// record is appended.
func (s *PlantService) Diagnose(ctx context.Context, sess *session.Session, imageData []byte, mimeType string) (*domain.DetectionResult, error) {
	s.logger.Info("diagnose started", "session", sess.ID, "mime_type", mimeType, "bytes", len(imageData))

	img, err := s.prepare(imageData)
	if err != nil {
		return nil, err
	}

	result, err := s.providers.Identify(ctx, img, plant.DiagnosePrompt)
	if err != nil {
		return nil, err
	}

	s.savePhoto(ctx, sess, imageData, mimeType)

	health := "diseased"
	if result.IsHealthy != nil && *result.IsHealthy {
		health = "healthy"
	}
	sess.SetContext(&domain.PlantContext{
		PlantName:      result.PlantName,
		ScientificName: result.ScientificName,
		Family:         result.Family,
		Confidence:     result.Confidence,
		HealthStatus:   health,
		Disease:        result.Disease,
	})

	if _, err := s.history.Create(ctx, sess.ID, result.PlantName, result.ScientificName, domain.KindDisease, result.Disease); err != nil {
		s.logger.Error("failed to record detection", "session", sess.ID, "error", err)
	}

	s.logger.Info("diagnose complete", "session", sess.ID, "plant", result.PlantName, "disease", result.Disease)
	return result, nil
}

// Chat answers one user message. Only the latest message plus the
// instruction/context prompt goes to the provider; the multi-turn history
// lives in the session alone. The returned string is always displayable.
func (s *PlantService) Chat(ctx context.Context, sess *session.Session, message string) string {
	sess.AppendChat("user", message)

	system := plant.ChatSystemPrompt(sess.Context())
	reply := s.providers.Chat(ctx, system, message)

	sess.AppendChat("assistant", reply)
	return reply
}

func (s *PlantService) History(ctx context.Context, sess *session.Session) ([]*domain.DetectionRecord, error) {
	return s.history.ListBySession(ctx, sess.ID)
}

func (s *PlantService) ClearHistory(ctx context.Context, sess *session.Session) error {
	return s.history.ClearBySession(ctx, sess.ID)
}

// Providers reports the configured candidate lists so the UI can show, at
// startup, whether any capability is missing credentials entirely.
func (s *PlantService) Providers() (identify, chat []string) {
	return s.providers.IdentifierNames(), s.providers.ChatterNames()
}

// OpenPhoto returns the session's stored upload for re-display, with its
// MIME type. A nil reader with nil error means no photo has been uploaded.
func (s *PlantService) OpenPhoto(ctx context.Context, sess *session.Session) (io.ReadCloser, string, error) {
	key := sess.PhotoKey()
	if key == "" {
		return nil, "", nil
	}
	return s.photoStg.Get(ctx, key)
}

func (s *PlantService) prepare(imageData []byte) (plant.ImageInput, error) {
	prepared, err := imageutil.Prepare(imageData)
	if err != nil {
		return plant.ImageInput{}, fmt.Errorf("failed to prepare image: %w", err)
	}
	return plant.ImageInput{Data: prepared, MimeType: "image/jpeg"}, nil
}

// savePhoto stores the original upload. A storage failure is logged, not
// fatal: the detection result is still returned.
func (s *PlantService) savePhoto(ctx context.Context, sess *session.Session, imageData []byte, mimeType string) {
	key, err := s.photoStg.Save(ctx, "session_"+sess.ID, mimeType, bytes.NewReader(imageData))
	if err != nil {
		s.logger.Error("failed to save photo", "session", sess.ID, "error", err)
		return
	}
	sess.SetPhotoKey(key)
}
