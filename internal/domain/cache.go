package domain

import "context"

// UserCache caches resolved trader identities so repeated runs do not hammer
// the user endpoint. Implementations return ErrNotFound on cache miss.
type UserCache interface {
	Get(ctx context.Context, id string) (User, error)
	Set(ctx context.Context, user User) error
}
