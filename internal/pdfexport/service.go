package pdfexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
)

const (
	kindResume      = "resume"
	kindCoverLetter = "cover_letter"
)

// ErrEmptyLetter is returned when a cover letter export has no text.
var ErrEmptyLetter = errors.New("cover letter text is required")

// File is a rendered export ready to download.
type File struct {
	Name       string
	Data       []byte
	StorageKey string
}

// Service renders profiles and cover letters to PDF. Store is optional; when
// set, every export is also kept under exports/<user hash>/.
type Service struct {
	Printer Printer
	Store   object.ObjectStore
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ResumePDF prints the profile. A non-empty jobTitle goes into the file name.
func (s *Service) ResumePDF(ctx context.Context, userID string, p profiles.ProfileData, jobTitle string) (File, error) {
	html, err := RenderResumeHTML(p)
	if err != nil {
		return File{}, err
	}
	return s.print(ctx, userID, kindResume, ResumeFileName(p, jobTitle), html)
}

// CoverLetterPDF prints letter text.
func (s *Service) CoverLetterPDF(ctx context.Context, userID, letter string) (File, error) {
	if strings.TrimSpace(letter) == "" {
		return File{}, ErrEmptyLetter
	}
	html, err := RenderCoverLetterHTML(letter)
	if err != nil {
		return File{}, err
	}
	return s.print(ctx, userID, kindCoverLetter, CoverLetterFileName, html)
}

func (s *Service) print(ctx context.Context, userID, kind, fileName string, html []byte) (File, error) {
	start := s.now()
	data, err := s.Printer.PrintPDF(ctx, html)
	elapsed := float64(s.now().Sub(start).Milliseconds())
	metrics.ObservePDFExport(kind, err == nil, elapsed)
	if err != nil {
		telemetry.Error("pdf.export_failed", map[string]any{
			"user_id": userID,
			"kind":    kind,
			"error":   err,
		})
		return File{}, err
	}

	out := File{Name: fileName, Data: data}
	if s.Store != nil {
		key := path.Join("exports", util.HashUserKey(userID), fmt.Sprintf("%d_%s", start.UnixMilli(), fileName))
		if _, err := s.Store.SaveWithKey(ctx, key, "application/pdf", bytes.NewReader(data)); err != nil {
			telemetry.Warn("pdf.export_store_failed", map[string]any{"user_id": userID, "key": key, "error": err})
		} else {
			out.StorageKey = key
		}
	}

	telemetry.Info("pdf.exported", map[string]any{
		"user_id":     userID,
		"kind":        kind,
		"bytes":       len(data),
		"duration_ms": elapsed,
	})
	return out, nil
}
