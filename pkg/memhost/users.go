package memhost

import (
	"context"
	"net/url"
)

// User is the acting account. Caps holds granted capabilities; a capability
// is also granted by its plural form ("edit_book" by "edit_books").
type User struct {
	ID    int64
	Login string
	Caps  map[string]bool
}

// Can reports whether the user holds capability.
func (u *User) Can(capability string) bool {
	if u == nil {
		return false
	}
	return u.Caps[capability] || u.Caps[capability+"s"]
}

type userKey struct{}

type requestKey struct{}

// WithUser returns a context carrying user as the acting account.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom returns the acting account, nil for anonymous requests.
func UserFrom(ctx context.Context) *User {
	user, _ := ctx.Value(userKey{}).(*User)
	return user
}

// WithRequest returns a context carrying submitted form values.
func WithRequest(ctx context.Context, values url.Values) context.Context {
	return context.WithValue(ctx, requestKey{}, values)
}

func userID(ctx context.Context) int64 {
	if user := UserFrom(ctx); user != nil {
		return user.ID
	}
	return 0
}

// CurrentUserCan checks capability against the user carried on ctx.
func (s *Site) CurrentUserCan(ctx context.Context, capability string, objectID int64) bool {
	allowed := UserFrom(ctx).Can(capability)
	if !allowed {
		s.logger.DebugContext(ctx, "capability denied", "capability", capability, "object_id", objectID, "user_id", userID(ctx))
	}
	return allowed
}

// PostValue reads a submitted value from the request carried on ctx.
func (s *Site) PostValue(ctx context.Context, key string) ([]string, bool) {
	values, _ := ctx.Value(requestKey{}).(url.Values)
	submitted, ok := values[key]
	if !ok {
		return nil, false
	}
	return append([]string(nil), submitted...), true
}
