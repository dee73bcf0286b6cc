package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

const (
	// MaxBackups is how many snapshots survive each save.
	MaxBackups = 5

	exportDateLayout = "2006-01-02"
)

// Service owns the profile lifecycle for a principal.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Load returns the saved profile, or an empty one when nothing has been saved yet.
func (s *Service) Load(ctx context.Context, userID string) (ProfileData, error) {
	raw, err := s.Repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Empty(), nil
		}
		return ProfileData{}, err
	}
	var p ProfileData
	if err := json.Unmarshal(raw, &p); err != nil {
		return ProfileData{}, fmt.Errorf("decode stored profile: %w", err)
	}
	return Normalize(p), nil
}

// Save validates and stores p, snapshots it as a backup and prunes old backups.
func (s *Service) Save(ctx context.Context, userID string, p ProfileData) (ProfileData, error) {
	return s.save(ctx, userID, p, "save")
}

func (s *Service) save(ctx context.Context, userID string, p ProfileData, origin string) (ProfileData, error) {
	p = Normalize(p)
	if err := Validate(p); err != nil {
		return ProfileData{}, err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return ProfileData{}, err
	}
	ts := s.now().UnixMilli()
	if err := s.Repo.SaveWithBackup(ctx, userID, ts, raw, MaxBackups); err != nil {
		telemetry.Error("profile.save_failed", map[string]any{"user_id": userID, "origin": origin, "error": err})
		return ProfileData{}, fmt.Errorf("store profile: %w", err)
	}

	metrics.IncProfileSave(origin)
	telemetry.Info("profile.saved", map[string]any{"user_id": userID, "origin": origin, "bytes": len(raw), "backup_ts": ts})
	return p, nil
}

// Export returns the stored profile as 2-space indented JSON with its download name.
func (s *Service) Export(ctx context.Context, userID string) (string, []byte, error) {
	p, err := s.Load(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", nil, err
	}
	return ExportFileName(s.now()), data, nil
}

// ExportFileName is resume_profile_<YYYY-MM-DD>.json for the UTC date of t.
func ExportFileName(t time.Time) string {
	return "resume_profile_" + t.UTC().Format(exportDateLayout) + ".json"
}

// ParseImport checks that data is a JSON profile document and decodes it.
func ParseImport(data []byte) (ProfileData, error) {
	if !json.Valid(bytes.TrimSpace(data)) {
		return ProfileData{}, ErrInvalidJSON
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return ProfileData{}, ErrInvalidStructure
	}
	if !isJSONKind(doc["personalInfo"], '{') {
		return ProfileData{}, ErrInvalidStructure
	}
	for _, section := range Sections {
		if !isJSONKind(doc[section], '[') {
			return ProfileData{}, ErrInvalidStructure
		}
	}
	var p ProfileData
	if err := json.Unmarshal(data, &p); err != nil {
		return ProfileData{}, ErrInvalidStructure
	}
	return Normalize(p), nil
}

// Import parses data, fills in missing entry ids and saves it as the current profile.
func (s *Service) Import(ctx context.Context, userID string, data []byte) (ProfileData, error) {
	p, err := ParseImport(data)
	if err != nil {
		return ProfileData{}, err
	}
	AssignMissingIDs(&p)
	return s.save(ctx, userID, p, "import")
}

func isJSONKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}

// ListBackups returns backups newest first.
func (s *Service) ListBackups(ctx context.Context, userID string) ([]Backup, error) {
	stamps, err := s.Repo.ListBackups(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Backup, 0, len(stamps))
	for _, ts := range stamps {
		out = append(out, Backup{
			Timestamp: ts,
			Date:      time.UnixMilli(ts).UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// RestoreBackup saves the backup at ts as the current profile. The restore is
// itself a save, so it produces a new backup.
func (s *Service) RestoreBackup(ctx context.Context, userID string, ts int64) (ProfileData, error) {
	raw, err := s.Repo.GetBackup(ctx, userID, ts)
	if err != nil {
		return ProfileData{}, err
	}
	var p ProfileData
	if err := json.Unmarshal(raw, &p); err != nil {
		return ProfileData{}, fmt.Errorf("decode backup %d: %w", ts, err)
	}
	return s.save(ctx, userID, p, "restore")
}

// ClearAll deletes the profile and every backup.
func (s *Service) ClearAll(ctx context.Context, userID string) error {
	if err := s.Repo.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.Repo.PruneBackups(ctx, userID, 0); err != nil {
		return err
	}
	telemetry.Info("profile.cleared", map[string]any{"user_id": userID})
	return nil
}

// PatchField updates one nested field of the stored profile and saves it.
func (s *Service) PatchField(ctx context.Context, userID, path string, value json.RawMessage) (ProfileData, error) {
	p, err := s.Load(ctx, userID)
	if err != nil {
		return ProfileData{}, err
	}
	updated, err := ApplyPatch(p, path, value)
	if err != nil {
		return ProfileData{}, err
	}
	return s.save(ctx, userID, updated, "patch")
}

// AddEntry appends entry to section with a fresh id and saves the profile.
func (s *Service) AddEntry(ctx context.Context, userID, section string, entry json.RawMessage) (ProfileData, string, error) {
	p, err := s.Load(ctx, userID)
	if err != nil {
		return ProfileData{}, "", err
	}
	updated, id, err := AddEntry(p, section, entry)
	if err != nil {
		return ProfileData{}, "", err
	}
	saved, err := s.save(ctx, userID, updated, "patch")
	if err != nil {
		return ProfileData{}, "", err
	}
	return saved, id, nil
}

// RemoveEntry deletes the entry id from section and saves the profile.
func (s *Service) RemoveEntry(ctx context.Context, userID, section, id string) (ProfileData, error) {
	p, err := s.Load(ctx, userID)
	if err != nil {
		return ProfileData{}, err
	}
	updated, err := RemoveEntry(p, section, id)
	if err != nil {
		return ProfileData{}, err
	}
	return s.save(ctx, userID, updated, "patch")
}

// SaveFrom stores p on behalf of another feature (tailoring, resume parsing).
func (s *Service) SaveFrom(ctx context.Context, userID string, p ProfileData, origin string) (ProfileData, error) {
	return s.save(ctx, userID, p, origin)
}

// Stats reports storage used by the profile and its backups.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	profileBytes, backupBytes, count, err := s.Repo.Sizes(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		ProfileBytes: profileBytes,
		BackupBytes:  backupBytes,
		BackupCount:  count,
		Used:         FormatBytes(profileBytes + backupBytes),
	}, nil
}

// FormatBytes renders n as "0 Bytes", "512 Bytes", "1.5 KB" or "2 MB".
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := float64(n) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + units[i]
}
