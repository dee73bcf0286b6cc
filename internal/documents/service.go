package documents

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/analyses"
	"resume-builder/internal/extract"
	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

var allowedExtensions = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// Service stores uploaded resumes and turns them into profiles.
type Service struct {
	Store           object.ObjectStore
	StorageProvider string
	Repo            Repo
	Analyses        *analyses.Service
	Now             func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Upload saves the file to object storage and records the document.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(fileName))] {
		return Document{}, fmt.Errorf("%w: only PDF, DOCX and TXT files are supported", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, io.LimitReader(r, extract.MaxFileSize+1))
	if err != nil {
		return Document{}, err
	}
	if size > extract.MaxFileSize {
		s.discard(ctx, userID, storageKey, "too_large")
		return Document{}, ErrTooLarge
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      storageKey,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		s.discard(ctx, userID, storageKey, "record_failed")
		return Document{}, err
	}

	telemetry.Info("document.uploaded", map[string]any{
		"user_id":     userID,
		"document_id": doc.ID,
		"mime_type":   mimeType,
		"size_bytes":  size,
	})
	return doc, nil
}

// discard removes a stored upload that will not be recorded.
func (s *Service) discard(ctx context.Context, userID, storageKey, reason string) {
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Warn("document.cleanup_failed", map[string]any{
			"user_id":     userID,
			"storage_key": storageKey,
			"reason":      reason,
			"error":       err,
		})
	}
}

// Current returns the most recent upload.
func (s *Service) Current(ctx context.Context, userID string) (Document, error) {
	if userID == "" {
		return Document{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.GetCurrentByUser(ctx, userID)
}

// List returns uploads newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Text returns the document's extracted text, extracting it on first use.
func (s *Service) Text(ctx context.Context, userID, documentID string) (string, error) {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return "", err
	}

	if doc.ExtractedTextKey != "" {
		text, err := s.readObject(ctx, doc.ExtractedTextKey)
		if err == nil {
			return text, nil
		}
		telemetry.Warn("document.cached_text_unreadable", map[string]any{
			"document_id": doc.ID,
			"error":       err,
		})
	}

	text, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if err := s.Repo.UpdateExtraction(ctx, userID, doc.ID, doc.StorageKey+".extracted.txt", s.now().UTC()); err != nil {
		telemetry.Warn("document.extraction_record_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err,
		})
	}
	return text, nil
}

func (s *Service) readObject(ctx context.Context, key string) (string, error) {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Parse extracts the document's text and has the model structure it into a profile.
func (s *Service) Parse(ctx context.Context, userID, documentID string) (profiles.ProfileData, error) {
	text, err := s.Text(ctx, userID, documentID)
	if err != nil {
		return profiles.ProfileData{}, err
	}
	if strings.TrimSpace(text) == "" {
		return profiles.ProfileData{}, fmt.Errorf("%w: no text found in document", ErrInvalidInput)
	}
	return s.Analyses.ParseResumeText(ctx, userID, text)
}
