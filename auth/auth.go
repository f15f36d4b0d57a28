// Package auth resolves the caller's identity from a signed session cookie.
// Session rows live in the database; the cookie only carries their id.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/client-portal/internal/config"
	"github.com/diewo77/client-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// CookieName is the name of the session cookie.
	CookieName   = "session"
	userIDCtxKey = ctxKey("userID")
)

// Sessions issues, validates and revokes login sessions.
type Sessions struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions builds a session manager over the sessions table.
func NewSessions(db *gorm.DB, cfg config.SessionConfig) *Sessions {
	return &Sessions{
		db:     db,
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		secure: cfg.SecureCookie,
		now:    time.Now,
	}
}

// Create stores a new session for userID and sets the cookie on w.
func (s *Sessions) Create(ctx context.Context, w http.ResponseWriter, userID string) error {
	if userID == "" {
		return errors.New("create session: empty user id")
	}
	expire := s.now().Add(s.ttl)
	sess := models.Session{
		SID:    uuid.NewString(),
		Sess:   models.SessionData{UserID: userID},
		Expire: expire,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.sign(sess.SID),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
	})
	return nil
}

// Destroy deletes the session named by the request cookie, if any, and
// clears the cookie.
func (s *Sessions) Destroy(w http.ResponseWriter, r *http.Request) error {
	defer s.clear(w)
	sid, ok := s.sidFrom(r)
	if !ok {
		return nil
	}
	if err := s.db.WithContext(r.Context()).Where("sid = ?", sid).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// Lookup returns the user id bound to the request's session. Expired
// sessions are deleted and reported as absent.
func (s *Sessions) Lookup(r *http.Request) (string, bool, error) {
	sid, ok := s.sidFrom(r)
	if !ok {
		return "", false, nil
	}
	ctx := r.Context()
	var sess models.Session
	if err := s.db.WithContext(ctx).Where("sid = ?", sid).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(s.now()) {
		if err := s.db.WithContext(ctx).Delete(&sess).Error; err != nil {
			return "", false, fmt.Errorf("drop expired session: %w", err)
		}
		return "", false, nil
	}
	if sess.Sess.UserID == "" {
		return "", false, nil
	}
	return sess.Sess.UserID, true, nil
}

// PurgeExpired deletes every session whose expiry has passed.
func (s *Sessions) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expire <= ?", s.now()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Middleware attaches the session's user id to the request context when
// the cookie is valid. It never rejects a request; the policy layer does.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok, err := s.Lookup(r)
		if err != nil {
			slog.ErrorContext(r.Context(), "session lookup failed", "error", err)
		}
		if ok {
			r = r.WithContext(WithUserID(r.Context(), uid))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Sessions) sign(sid string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(sid))
	return sid + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// sidFrom validates the cookie signature and returns the session id.
func (s *Sessions) sidFrom(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	sid, _, found := strings.Cut(c.Value, ".")
	if !found || sid == "" {
		return "", false
	}
	if !hmac.Equal([]byte(c.Value), []byte(s.sign(sid))) {
		return "", false
	}
	return sid, true
}

func (s *Sessions) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDCtxKey).(string)
	return id, ok && id != ""
}
