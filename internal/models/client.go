package models

import (
	"time"

	"gorm.io/gorm"
)

// ClientStatus tracks where a client relationship stands.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusPending  ClientStatus = "pending"
	ClientStatusInactive ClientStatus = "inactive"
)

// ClientStatuses lists the accepted values, in display order.
var ClientStatuses = []string{string(ClientStatusActive), string(ClientStatusPending), string(ClientStatusInactive)}

// Client is a business the agency works for. It is optionally linked to
// the User that logs in on its behalf; a user owns at most one client.
type Client struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       *string      `gorm:"uniqueIndex;size:255" json:"userId"`
	User         *User        `gorm:"foreignKey:UserID" json:"-"`
	BusinessName string       `gorm:"size:255;not null" json:"businessName"`
	ContactName  string       `gorm:"size:255;not null" json:"contactName"`
	Email        string       `gorm:"size:255;not null" json:"email"`
	Phone        *string      `gorm:"size:50" json:"phone"`
	Address      *string      `gorm:"type:text" json:"address"`
	Notes        *string      `gorm:"type:text" json:"notes"`
	Status       ClientStatus `gorm:"size:20;not null;default:active;index" json:"status"`
	CreatedAt    time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// BeforeCreate applies the default status.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = ClientStatusActive
	}
	return nil
}

// OwnedBy reports whether the client record belongs to the given user.
func (c *Client) OwnedBy(userID string) bool {
	return c.UserID != nil && *c.UserID == userID
}

// NewPendingClientFor builds the record created the first time a client
// user opens their dashboard.
func NewPendingClientFor(u *User) *Client {
	name := u.FullName()
	uid := u.ID
	return &Client{
		UserID:       &uid,
		BusinessName: name + "'s Business",
		ContactName:  name,
		Email:        deref(u.Email),
		Status:       ClientStatusPending,
	}
}
