package contacts

import (
	"context"
	"sync"
)

// MemoryRepo keeps contacts in insertion order.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Contact
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Contact)}
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Contact, len(r.data[userID]))
	copy(out, r.data[userID])
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return Contact{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.data[userID] {
		if c.ID == id {
			return c, nil
		}
	}
	return Contact{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, c Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[c.UserID] = append(r.data[c.UserID], c)
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, c Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[c.UserID]
	for i := range list {
		if list[i].ID == c.ID {
			list[i] = c
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
