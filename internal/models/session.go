package models

import "time"

// SessionData is the payload stored with a session.
type SessionData struct {
	UserID string `json:"userId"`
}

// Session is a server-side login session. The cookie only carries the
// signed SID.
type Session struct {
	SID    string      `gorm:"column:sid;primaryKey;size:255"`
	Sess   SessionData `gorm:"column:sess;type:jsonb;serializer:json;not null"`
	Expire time.Time   `gorm:"column:expire;not null;index:IDX_session_expire"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Expire)
}
