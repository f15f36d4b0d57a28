package models

import (
	"time"

	"gorm.io/gorm"
)

// DocumentStatus is the review state of a document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentSigned   DocumentStatus = "signed"
	DocumentReviewed DocumentStatus = "reviewed"
)

// Document is metadata about a file kept outside the database; FilePath
// points at it.
type Document struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ClientID          *uint          `gorm:"index" json:"clientId"`
	Client            *Client        `gorm:"foreignKey:ClientID" json:"-"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	Type              string         `gorm:"size:50;not null" json:"type"` // pdf, doc, image...
	Size              *int64         `json:"size"`                         // bytes
	FilePath          string         `gorm:"size:500;not null" json:"filePath"`
	Status            DocumentStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	RequiresSignature bool           `gorm:"not null;default:false" json:"requiresSignature"`
	CreatedAt         time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// BeforeCreate applies the default status.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.Status == "" {
		d.Status = DocumentPending
	}
	return nil
}

// AwaitingSignature reports whether the client still has to sign.
func (d *Document) AwaitingSignature() bool {
	return d.RequiresSignature && d.Status == DocumentPending
}
