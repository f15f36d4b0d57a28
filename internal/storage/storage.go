// Package storage is the only path to persisted state. Every method maps to
// one query or one write; nothing here spans a transaction across calls.
package storage

import (
	"context"
	"errors"

	"github.com/diewo77/client-portal/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the data-access contract consumed by the guard and handlers.
// List methods return rows newest first.
type Storage interface {
	// Users
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpsertUser(ctx context.Context, user models.UpsertUser) (*models.User, error)

	// Clients
	GetClients(ctx context.Context) ([]models.Client, error)
	GetClientByUserID(ctx context.Context, userID string) (*models.Client, error)
	CreateClient(ctx context.Context, client *models.Client) (*models.Client, error)
	// FindOrCreateClientForUser looks up the user's client and inserts a
	// pending one when none exists. created reports whether it wrote a row.
	FindOrCreateClientForUser(ctx context.Context, user *models.User) (client *models.Client, created bool, err error)

	// Contact forms
	GetContactForms(ctx context.Context) ([]models.ContactForm, error)
	CreateContactForm(ctx context.Context, form *models.ContactForm) (*models.ContactForm, error)
	UpdateContactFormStatus(ctx context.Context, id uint, status models.ContactFormStatus) (*models.ContactForm, error)

	// Messages
	GetAllMessages(ctx context.Context) ([]models.Message, error)
	GetMessagesByClientID(ctx context.Context, clientID uint) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error)

	// Documents
	GetAllDocuments(ctx context.Context) ([]models.Document, error)
	GetDocumentsByClientID(ctx context.Context, clientID uint) ([]models.Document, error)

	GetAdminStats(ctx context.Context) (models.AdminStats, error)
}
