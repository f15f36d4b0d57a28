package server

import (
	"context"

	"github.com/diewo77/client-portal/internal/models"
	"github.com/diewo77/client-portal/internal/storage"
)

// spyStore records which storage operations a request performed.
type spyStore struct {
	inner storage.Storage
	calls map[string]int
}

func newSpy(inner storage.Storage) *spyStore {
	return &spyStore{inner: inner, calls: map[string]int{}}
}

var _ storage.Storage = (*spyStore)(nil)

func (s *spyStore) reset() { s.calls = map[string]int{} }

func (s *spyStore) total() int {
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *spyStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.calls["GetUser"]++
	return s.inner.GetUser(ctx, id)
}

func (s *spyStore) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	s.calls["UpsertUser"]++
	return s.inner.UpsertUser(ctx, in)
}

func (s *spyStore) GetClients(ctx context.Context) ([]models.Client, error) {
	s.calls["GetClients"]++
	return s.inner.GetClients(ctx)
}

func (s *spyStore) GetClientByUserID(ctx context.Context, userID string) (*models.Client, error) {
	s.calls["GetClientByUserID"]++
	return s.inner.GetClientByUserID(ctx, userID)
}

func (s *spyStore) CreateClient(ctx context.Context, c *models.Client) (*models.Client, error) {
	s.calls["CreateClient"]++
	return s.inner.CreateClient(ctx, c)
}

func (s *spyStore) FindOrCreateClientForUser(ctx context.Context, u *models.User) (*models.Client, bool, error) {
	s.calls["FindOrCreateClientForUser"]++
	return s.inner.FindOrCreateClientForUser(ctx, u)
}

func (s *spyStore) GetContactForms(ctx context.Context) ([]models.ContactForm, error) {
	s.calls["GetContactForms"]++
	return s.inner.GetContactForms(ctx)
}

func (s *spyStore) CreateContactForm(ctx context.Context, f *models.ContactForm) (*models.ContactForm, error) {
	s.calls["CreateContactForm"]++
	return s.inner.CreateContactForm(ctx, f)
}

func (s *spyStore) UpdateContactFormStatus(ctx context.Context, id uint, status models.ContactFormStatus) (*models.ContactForm, error) {
	s.calls["UpdateContactFormStatus"]++
	return s.inner.UpdateContactFormStatus(ctx, id, status)
}

func (s *spyStore) GetAllMessages(ctx context.Context) ([]models.Message, error) {
	s.calls["GetAllMessages"]++
	return s.inner.GetAllMessages(ctx)
}

func (s *spyStore) GetMessagesByClientID(ctx context.Context, clientID uint) ([]models.Message, error) {
	s.calls["GetMessagesByClientID"]++
	return s.inner.GetMessagesByClientID(ctx, clientID)
}

func (s *spyStore) CreateMessage(ctx context.Context, m *models.Message) (*models.Message, error) {
	s.calls["CreateMessage"]++
	return s.inner.CreateMessage(ctx, m)
}

func (s *spyStore) GetAllDocuments(ctx context.Context) ([]models.Document, error) {
	s.calls["GetAllDocuments"]++
	return s.inner.GetAllDocuments(ctx)
}

func (s *spyStore) GetDocumentsByClientID(ctx context.Context, clientID uint) ([]models.Document, error) {
	s.calls["GetDocumentsByClientID"]++
	return s.inner.GetDocumentsByClientID(ctx, clientID)
}

func (s *spyStore) GetAdminStats(ctx context.Context) (models.AdminStats, error) {
	s.calls["GetAdminStats"]++
	return s.inner.GetAdminStats(ctx)
}
