package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"resume-builder/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("guest and account user ids are required")

// Claimer moves rows owned by one user to another. The memory repos of
// documents, analyses, applications and contacts implement it.
type Claimer interface {
	ClaimGuest(ctx context.Context, from, to string) (int, error)
}

// ProfileClaimer moves a saved profile when the target has none.
type ProfileClaimer interface {
	ClaimGuest(ctx context.Context, from, to string) (bool, error)
}

// Service hands guest data over to a signed-in account. With a DB every
// table moves inside one transaction; otherwise the in-memory claimers run
// one after another.
type Service struct {
	DB *sql.DB

	Documents    Claimer
	Analyses     Claimer
	Applications Claimer
	Contacts     Claimer
	Profile      ProfileClaimer
}

type ClaimResult struct {
	Documents    int  `json:"migratedDocuments"`
	Analyses     int  `json:"migratedAnalyses"`
	Applications int  `json:"migratedApplications"`
	Contacts     int  `json:"migratedContacts"`
	Profile      bool `json:"migratedProfile"`
}

// claimTables lists the tables whose user_id moves wholesale, in order.
var claimTables = []struct {
	table string
	where string
}{
	{"documents", "deleted_at IS NULL"},
	{"analyses", ""},
	{"applications", ""},
	{"contacts", ""},
}

func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	guestUserID = strings.TrimSpace(guestUserID)
	authedUserID = strings.TrimSpace(authedUserID)
	if guestUserID == "" || authedUserID == "" || guestUserID == authedUserID {
		return ClaimResult{}, ErrInvalidInput
	}

	var (
		res ClaimResult
		err error
	)
	if s.DB != nil {
		res, err = claimWithTx(ctx, s.DB, guestUserID, authedUserID)
	} else {
		res, err = s.claimInMemory(ctx, guestUserID, authedUserID)
	}
	if err != nil {
		telemetry.Error("account.claim_failed", map[string]any{"guest_id": guestUserID, "user_id": authedUserID, "error": err})
		return ClaimResult{}, err
	}
	telemetry.Info("account.claimed", map[string]any{
		"guest_id":     guestUserID,
		"user_id":      authedUserID,
		"documents":    res.Documents,
		"analyses":     res.Analyses,
		"applications": res.Applications,
		"contacts":     res.Contacts,
		"profile":      res.Profile,
	})
	return res, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, from, to string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	counts := make([]int, len(claimTables))
	for i, t := range claimTables {
		q := fmt.Sprintf(`UPDATE %s SET user_id = $1 WHERE user_id = $2`, t.table)
		if t.where != "" {
			q += " AND " + t.where
		}
		r, err := tx.ExecContext(ctx, q, to, from)
		if err != nil {
			return ClaimResult{}, fmt.Errorf("claim %s: %w", t.table, err)
		}
		n, _ := r.RowsAffected()
		counts[i] = int(n)
	}

	r, err := tx.ExecContext(ctx, `
UPDATE profiles SET user_id = $1, updated_at = now()
WHERE user_id = $2 AND NOT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1)`, to, from)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("claim profile: %w", err)
	}
	moved, _ := r.RowsAffected()
	if moved > 0 {
		if _, err := tx.ExecContext(ctx, `
UPDATE profile_backups SET user_id = $1
WHERE user_id = $2 AND ts NOT IN (SELECT ts FROM profile_backups WHERE user_id = $1)`, to, from); err != nil {
			return ClaimResult{}, fmt.Errorf("claim profile backups: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{
		Documents:    counts[0],
		Analyses:     counts[1],
		Applications: counts[2],
		Contacts:     counts[3],
		Profile:      moved > 0,
	}, nil
}

func (s *Service) claimInMemory(ctx context.Context, from, to string) (ClaimResult, error) {
	var res ClaimResult
	steps := []struct {
		name string
		c    Claimer
		dst  *int
	}{
		{"documents", s.Documents, &res.Documents},
		{"analyses", s.Analyses, &res.Analyses},
		{"applications", s.Applications, &res.Applications},
		{"contacts", s.Contacts, &res.Contacts},
	}
	for _, st := range steps {
		if st.c == nil {
			continue
		}
		n, err := st.c.ClaimGuest(ctx, from, to)
		if err != nil {
			return ClaimResult{}, fmt.Errorf("claim %s: %w", st.name, err)
		}
		*st.dst = n
	}
	if s.Profile != nil {
		moved, err := s.Profile.ClaimGuest(ctx, from, to)
		if err != nil {
			return ClaimResult{}, fmt.Errorf("claim profile: %w", err)
		}
		res.Profile = moved
	}
	return res, nil
}
