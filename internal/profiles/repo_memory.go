package profiles

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string][]byte
	backups  map[string]map[int64][]byte
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		profiles: make(map[string][]byte),
		backups:  make(map[string]map[int64][]byte),
	}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (r *MemoryRepo) Put(ctx context.Context, userID string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = append([]byte(nil), data...)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, userID)
	return nil
}

func (r *MemoryRepo) SaveWithBackup(ctx context.Context, userID string, ts int64, data []byte, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = append([]byte(nil), data...)
	if r.backups[userID] == nil {
		r.backups[userID] = make(map[int64][]byte)
	}
	r.backups[userID][ts] = append([]byte(nil), data...)
	r.pruneLocked(userID, keep)
	return nil
}

func (r *MemoryRepo) PutBackup(ctx context.Context, userID string, ts int64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backups[userID] == nil {
		r.backups[userID] = make(map[int64][]byte)
	}
	r.backups[userID][ts] = append([]byte(nil), data...)
	return nil
}

func (r *MemoryRepo) GetBackup(ctx context.Context, userID string, ts int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.backups[userID][ts]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (r *MemoryRepo) ListBackups(ctx context.Context, userID string) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedTimestamps(userID), nil
}

func (r *MemoryRepo) PruneBackups(ctx context.Context, userID string, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(userID, keep)
	return nil
}

func (r *MemoryRepo) pruneLocked(userID string, keep int) {
	ts := r.sortedTimestamps(userID)
	if keep < 0 {
		keep = 0
	}
	for i := keep; i < len(ts); i++ {
		delete(r.backups[userID], ts[i])
	}
	if len(r.backups[userID]) == 0 {
		delete(r.backups, userID)
	}
}

func (r *MemoryRepo) Sizes(ctx context.Context, userID string) (int64, int64, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var backupBytes int64
	for _, data := range r.backups[userID] {
		backupBytes += int64(len(data))
	}
	return int64(len(r.profiles[userID])), backupBytes, len(r.backups[userID]), nil
}

// sortedTimestamps must be called with r.mu held.
func (r *MemoryRepo) sortedTimestamps(userID string) []int64 {
	out := make([]int64, 0, len(r.backups[userID]))
	for ts := range r.backups[userID] {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

var _ Repo = (*MemoryRepo)(nil)

// ClaimGuest moves the profile and backups of from to to unless to already
// has a profile. It reports whether anything moved.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, from, to string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.profiles[from]
	if !ok {
		return false, nil
	}
	if _, exists := r.profiles[to]; exists {
		return false, nil
	}
	r.profiles[to] = data
	delete(r.profiles, from)
	if len(r.backups[from]) > 0 {
		if r.backups[to] == nil {
			r.backups[to] = make(map[int64][]byte)
		}
		for ts, b := range r.backups[from] {
			if _, taken := r.backups[to][ts]; !taken {
				r.backups[to][ts] = b
			}
		}
	}
	delete(r.backups, from)
	return true, nil
}
