package applications

import "context"

// Repo persists applications per principal. List returns newest first.
type Repo interface {
	List(ctx context.Context, userID string) ([]Application, error)
	Get(ctx context.Context, userID, id string) (Application, error)
	Create(ctx context.Context, a Application) error
	Update(ctx context.Context, a Application) error
	Delete(ctx context.Context, userID, id string) error
}
