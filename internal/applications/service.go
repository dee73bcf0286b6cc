package applications

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"resume-builder/internal/jobs"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/validation"
)

const notesPreviewRunes = 200

// ValidationError carries per-field failures; it matches ErrInvalidInput.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid application: %d field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Service manages the application tracker.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// List returns applications newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Application, error) {
	return s.Repo.List(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Application, error) {
	now := s.now()
	a := Application{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	in.apply(&a, now.Format(time.DateOnly))
	if err := s.insert(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in Input) (Application, error) {
	a, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Application{}, err
	}
	in.apply(&a, a.DateApplied)
	if fields := validation.Struct(a); len(fields) > 0 {
		return Application{}, &ValidationError{Fields: fields}
	}
	a.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}

// AddFromJob tracks a job posting as a pending application.
// A posting already tracked under the same company and position returns ErrDuplicate.
func (s *Service) AddFromJob(ctx context.Context, userID string, job jobs.Job) (Application, error) {
	existing, err := s.Repo.List(ctx, userID)
	if err != nil {
		return Application{}, err
	}
	company := strings.TrimSpace(job.Company)
	position := strings.TrimSpace(job.Title)
	for _, a := range existing {
		if strings.EqualFold(a.Company, company) && strings.EqualFold(a.Position, position) {
			return a, ErrDuplicate
		}
	}

	now := s.now()
	jobURL := strings.TrimSpace(job.URL)
	if jobURL == "#" {
		jobURL = ""
	}
	a := Application{
		ID:          uuid.NewString(),
		UserID:      userID,
		Company:     company,
		Position:    position,
		DateApplied: now.Format(time.DateOnly),
		Status:      StatusPending,
		JobURL:      jobURL,
		Location:    strings.TrimSpace(job.Location),
		Salary:      strings.TrimSpace(job.Salary),
		Notes:       notesPreview(job.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.insert(ctx, a); err != nil {
		return Application{}, err
	}
	telemetry.Info("application.from_job", map[string]any{"user_id": userID, "application_id": a.ID, "source": job.Source})
	return a, nil
}

// Stats counts applications per status; every status is present.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	list, err := s.Repo.List(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(list), ByStatus: make(map[string]int, len(Statuses))}
	for _, status := range Statuses {
		st.ByStatus[status] = 0
	}
	for _, a := range list {
		st.ByStatus[a.Status]++
	}
	return st, nil
}

func (s *Service) insert(ctx context.Context, a Application) error {
	if fields := validation.Struct(a); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return s.Repo.Create(ctx, a)
}

func notesPreview(description string) string {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > notesPreviewRunes {
		description = string([]rune(description)[:notesPreviewRunes])
	}
	return description + "..."
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
