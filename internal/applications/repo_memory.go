package applications

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps applications in process; used in dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Application)}
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	src := r.data[userID]
	out := make([]Application, len(src))
	for i := range src {
		out[len(src)-1-i] = src[i]
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.data[userID] {
		if a.ID == id {
			return a, nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, a Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[a.UserID] = append(r.data[a.UserID], a)
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, a Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[a.UserID]
	for i := range list {
		if list[i].ID == a.ID {
			list[i] = a
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[userID]
	for i := range list {
		if list[i].ID == id {
			r.data[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)

func (r *MemoryRepo) ClaimGuest(ctx context.Context, from, to string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := r.data[from]
	for i := range moved {
		moved[i].UserID = to
	}
	r.data[to] = append(r.data[to], moved...)
	delete(r.data, from)
	return len(moved), nil
}
