package models

import "time"

// Message is a note exchanged between the agency and a client. Messages are
// polled rows, there is no live channel.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   *string   `gorm:"size:255;index" json:"senderId"`
	Sender     *User     `gorm:"foreignKey:SenderID" json:"-"`
	ReceiverID *string   `gorm:"size:255;index" json:"receiverId"`
	Receiver   *User     `gorm:"foreignKey:ReceiverID" json:"-"`
	ClientID   *uint     `gorm:"index" json:"clientId"`
	Client     *Client   `gorm:"foreignKey:ClientID" json:"-"`
	Subject    *string   `gorm:"size:255" json:"subject"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}
