package models

import "time"

// ContactFormStatus is the triage state of an inquiry.
type ContactFormStatus string

const (
	ContactFormUnread    ContactFormStatus = "unread"
	ContactFormRead      ContactFormStatus = "read"
	ContactFormResponded ContactFormStatus = "responded"
)

// ContactFormStatuses lists the accepted values.
var ContactFormStatuses = []string{string(ContactFormUnread), string(ContactFormRead), string(ContactFormResponded)}

// ContactForm is an inquiry submitted from the landing page. Only its
// status changes after creation.
type ContactForm struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	Email     string            `gorm:"size:255;not null" json:"email"`
	Company   *string           `gorm:"size:255" json:"company"`
	Message   string            `gorm:"type:text;not null" json:"message"`
	Status    ContactFormStatus `gorm:"size:20;not null;default:unread;index" json:"status"`
	CreatedAt time.Time         `gorm:"index" json:"createdAt"`
}
