package contacts

import "context"

// Repo persists contacts per principal.
type Repo interface {
	List(ctx context.Context, userID string) ([]Contact, error)
	Get(ctx context.Context, userID, id string) (Contact, error)
	Create(ctx context.Context, c Contact) error
	Update(ctx context.Context, c Contact) error
	Delete(ctx context.Context, userID, id string) error
}
