// Package policy decides, per request, whether the caller may reach an
// endpoint and with which visibility.
//
// A Guard loads the caller's user row on every check; nothing is cached
// between requests, so a role change takes effect on the next request.
package policy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/client-portal/auth"
	"github.com/diewo77/client-portal/httpx"
	"github.com/diewo77/client-portal/internal/models"
	"github.com/diewo77/client-portal/internal/storage"
)

// Reason explains a denied Decision.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthenticated
	ReasonForbidden
	ReasonNotFound
	ReasonStorage
)

// Status maps the reason to its HTTP status code.
func (r Reason) Status() int {
	switch r {
	case ReasonNone:
		return http.StatusOK
	case ReasonUnauthenticated:
		return http.StatusUnauthorized
	case ReasonForbidden:
		return http.StatusForbidden
	case ReasonNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message is the client-facing text for the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonUnauthenticated:
		return "Unauthorized"
	case ReasonForbidden:
		return "Access denied"
	case ReasonNotFound:
		return "User not found"
	default:
		return "Internal server error"
	}
}

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonForbidden:
		return "forbidden"
	case ReasonNotFound:
		return "not_found"
	case ReasonStorage:
		return "storage"
	}
	return "unknown"
}

// Principal is the authenticated caller and what it may see.
// Client is nil for admins, who see every client's data.
type Principal struct {
	User   *models.User
	Client *models.Client
	Admin  bool
}

// ClientID returns the id of the caller's own client, or nil for admins.
func (p Principal) ClientID() *uint {
	if p.Admin || p.Client == nil {
		return nil
	}
	id := p.Client.ID
	return &id
}

// CanSee reports whether the principal may read data tied to clientID.
// Admins see everything; a client only its own rows.
func (p Principal) CanSee(clientID *uint) bool {
	if p.Admin {
		return true
	}
	if p.Client == nil || clientID == nil {
		return false
	}
	return *clientID == p.Client.ID
}

// Decision is either an allowed Principal or a denial Reason.
type Decision struct {
	Principal Principal
	Reason    Reason
	Err       error
}

// Allow grants access to p.
func Allow(p Principal) Decision { return Decision{Principal: p} }

// Deny refuses access. err is the underlying cause, if any, and is only logged.
func Deny(reason Reason, err error) Decision { return Decision{Reason: reason, Err: err} }

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool { return d.Reason == ReasonNone }

// Users is the slice of storage the guard needs.
type Users interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindOrCreateClientForUser(ctx context.Context, user *models.User) (*models.Client, bool, error)
}

// Guard evaluates authorization checks against the store.
type Guard struct {
	users Users
	log   *slog.Logger
}

// NewGuard builds a Guard. A nil logger falls back to slog.Default().
func NewGuard(users Users, log *slog.Logger) *Guard {
	if log == nil {
		log = slog.Default()
	}
	return &Guard{users: users, log: log}
}

// Session requires an identity in ctx backed by a user row.
func (g *Guard) Session(ctx context.Context) Decision {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return Deny(ReasonUnauthenticated, nil)
	}
	user, err := g.users.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Deny(ReasonNotFound, err)
		}
		return Deny(ReasonStorage, err)
	}
	return Allow(Principal{User: user, Admin: user.IsAdmin()})
}

// Admin requires the caller to have the admin role.
func (g *Guard) Admin(ctx context.Context) Decision {
	d := g.Session(ctx)
	if !d.Allowed() {
		return d
	}
	if !d.Principal.Admin {
		return Deny(ReasonForbidden, nil)
	}
	return d
}

// ClientScope resolves what the caller may see. Admins get full visibility.
// Clients get their own client record, created on first access.
func (g *Guard) ClientScope(ctx context.Context) Decision {
	d := g.Session(ctx)
	if !d.Allowed() || d.Principal.Admin {
		return d
	}
	client, created, err := g.users.FindOrCreateClientForUser(ctx, d.Principal.User)
	if err != nil {
		return Deny(ReasonStorage, err)
	}
	if created {
		g.log.InfoContext(ctx, "client record created on first access", "user_id", d.Principal.User.ID, "client_id", client.ID)
	}
	d.Principal.Client = client
	return d
}

// RequireSession returns middleware that admits any known user.
func (g *Guard) RequireSession() func(http.Handler) http.Handler {
	return g.require(g.Session)
}

// RequireAdmin returns middleware that only admits admins.
func (g *Guard) RequireAdmin() func(http.Handler) http.Handler {
	return g.require(g.Admin)
}

// RequireClientScope returns middleware that admits any known user and
// attaches its visibility scope.
func (g *Guard) RequireClientScope() func(http.Handler) http.Handler {
	return g.require(g.ClientScope)
}

func (g *Guard) require(check func(context.Context) Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := check(r.Context())
			if !d.Allowed() {
				if d.Reason == ReasonStorage {
					g.log.ErrorContext(r.Context(), "authorization check failed", "path", r.URL.Path, "error", d.Err)
				}
				httpx.JSONError(w, d.Reason.Status(), d.Reason.Message(), nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), d.Principal)))
		})
	}
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal attached by a Require middleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
