package profiles

import "context"

// Repo persists profile documents and their backups as raw JSON.
type Repo interface {
	Get(ctx context.Context, userID string) ([]byte, error)
	Put(ctx context.Context, userID string, data []byte) error
	Delete(ctx context.Context, userID string) error
	// SaveWithBackup stores data as the profile, records it as the backup at
	// ts and prunes to the newest keep backups. Either all three happen or none.
	SaveWithBackup(ctx context.Context, userID string, ts int64, data []byte, keep int) error

	PutBackup(ctx context.Context, userID string, ts int64, data []byte) error
	GetBackup(ctx context.Context, userID string, ts int64) ([]byte, error)
	// ListBackups returns backup timestamps newest first.
	ListBackups(ctx context.Context, userID string) ([]int64, error)
	// PruneBackups keeps the newest keep backups and deletes the rest.
	PruneBackups(ctx context.Context, userID string, keep int) error

	// Sizes reports bytes stored for the profile and for all backups.
	Sizes(ctx context.Context, userID string) (profileBytes, backupBytes int64, backups int, err error)
}
