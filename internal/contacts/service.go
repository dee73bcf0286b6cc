package contacts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/validation"
)

// ValidationError carries per-field failures; it matches ErrInvalidInput.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid contact: %d field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Service manages a principal's network.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

func (s *Service) List(ctx context.Context, userID string) ([]Contact, error) {
	return s.Repo.List(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Contact, error) {
	now := s.now()
	c := Contact{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	in.apply(&c)
	if fields := validation.Struct(c); len(fields) > 0 {
		return Contact{}, &ValidationError{Fields: fields}
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return Contact{}, err
	}
	telemetry.Info("contact.created", map[string]any{"user_id": userID, "contact_id": c.ID})
	return c, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in Input) (Contact, error) {
	c, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Contact{}, err
	}
	in.apply(&c)
	if fields := validation.Struct(c); len(fields) > 0 {
		return Contact{}, &ValidationError{Fields: fields}
	}
	c.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}

// CompaniesWithConnections lists the distinct companies, lowercased and trimmed,
// where the principal has at least one contact.
func (s *Service) CompaniesWithConnections(ctx context.Context, userID string) ([]string, error) {
	list, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, c := range list {
		key := companyKey(c.Company)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out, nil
}

func (s *Service) HasConnectionAt(ctx context.Context, userID, company string) (bool, error) {
	list, err := s.ContactsAtCompany(ctx, userID, company)
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

// ContactsAtCompany matches company names ignoring case and surrounding space.
func (s *Service) ContactsAtCompany(ctx context.Context, userID, company string) ([]Contact, error) {
	key := companyKey(company)
	if key == "" {
		return []Contact{}, nil
	}
	list, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []Contact{}
	for _, c := range list {
		if companyKey(c.Company) == key {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
