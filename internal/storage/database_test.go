package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/client-portal/internal/config"
	"github.com/diewo77/client-portal/internal/db"
	"github.com/diewo77/client-portal/internal/models"
	"github.com/diewo77/client-portal/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, *storage.DatabaseStorage) {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	conn, err := db.Open(config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return conn, storage.NewDatabaseStorage(conn)
}

func ptr[T any](v T) *T { return &v }

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

func TestGetUser_NotFound(t *testing.T) {
	_, store := setupTestDB(t)
	_, err := store.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpsertUser_InsertThenUpdate(t *testing.T) {
	conn, store := setupTestDB(t)
	ctx := context.Background()

	u, err := store.UpsertUser(ctx, models.UpsertUser{ID: "u1", Email: ptr("jane@x.com"), FirstName: ptr("Jane"), LastName: ptr("Doe")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, u.Role, "role defaults to client")
	assert.Equal(t, "Jane Doe", u.FullName())

	time.Sleep(5 * time.Millisecond)
	u2, err := store.UpsertUser(ctx, models.UpsertUser{ID: "u1", FirstName: ptr("Janet")})
	require.NoError(t, err)
	assert.Equal(t, "Janet Doe", u2.FullName(), "only supplied fields change")
	require.NotNil(t, u2.Email)
	assert.Equal(t, "jane@x.com", *u2.Email)
	assert.True(t, u2.UpdatedAt.After(u.UpdatedAt), "updated_at refreshed")
	assert.Equal(t, u.CreatedAt.Unix(), u2.CreatedAt.Unix(), "created_at kept")

	var count int64
	require.NoError(t, conn.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertUser_RoleKeptWhenNotSupplied(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()

	_, err := store.UpsertUser(ctx, models.UpsertUser{ID: "a1", Role: models.RoleAdmin})
	require.NoError(t, err)

	// A login without a role claim must not demote the admin.
	u, err := store.UpsertUser(ctx, models.UpsertUser{ID: "a1", FirstName: ptr("Ada")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestUpsertUser_MissingID(t *testing.T) {
	_, store := setupTestDB(t)
	_, err := store.UpsertUser(context.Background(), models.UpsertUser{})
	assert.Error(t, err)
}

func TestGetClients_NewestFirst(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()

	for i, minute := range []int{5, 1, 9, 3} {
		_, err := store.CreateClient(ctx, &models.Client{
			BusinessName: "Biz",
			ContactName:  "Contact",
			Email:        "c@x.com",
			CreatedAt:    at(minute),
		})
		require.NoError(t, err, "client %d", i)
	}

	clients, err := store.GetClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 4)
	for i := 1; i < len(clients); i++ {
		assert.False(t, clients[i].CreatedAt.After(clients[i-1].CreatedAt), "clients not newest-first at %d", i)
	}
	assert.True(t, clients[0].CreatedAt.Equal(at(9)))
}

func TestCreateClient_DefaultsActive(t *testing.T) {
	_, store := setupTestDB(t)
	c, err := store.CreateClient(context.Background(), &models.Client{BusinessName: "Acme", ContactName: "Wile", Email: "w@acme.test"})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, models.ClientStatusActive, c.Status)
}

func TestGetClientByUserID(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	_, err := store.UpsertUser(ctx, models.UpsertUser{ID: "u1"})
	require.NoError(t, err)

	_, err = store.GetClientByUserID(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	created, err := store.CreateClient(ctx, &models.Client{UserID: ptr("u1"), BusinessName: "B", ContactName: "C", Email: "e@x.com"})
	require.NoError(t, err)

	got, err := store.GetClientByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestFindOrCreateClientForUser_Idempotent(t *testing.T) {
	conn, store := setupTestDB(t)
	ctx := context.Background()

	user, err := store.UpsertUser(ctx, models.UpsertUser{
		ID: "u1", FirstName: ptr("Jane"), LastName: ptr("Doe"), Email: ptr("jane@x.com"), Role: models.RoleClient,
	})
	require.NoError(t, err)

	first, created, err := store.FindOrCreateClientForUser(ctx, user)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first.UserID)
	assert.Equal(t, "u1", *first.UserID)
	assert.Equal(t, "Jane Doe's Business", first.BusinessName)
	assert.Equal(t, "Jane Doe", first.ContactName)
	assert.Equal(t, "jane@x.com", first.Email)
	assert.Equal(t, models.ClientStatusPending, first.Status)

	second, created, err := store.FindOrCreateClientForUser(ctx, user)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, conn.Model(&models.Client{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestClientUserIDIsUnique(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	_, err := store.CreateClient(ctx, &models.Client{UserID: ptr("u1"), BusinessName: "A", ContactName: "A", Email: "a@x.com"})
	require.NoError(t, err)
	_, err = store.CreateClient(ctx, &models.Client{UserID: ptr("u1"), BusinessName: "B", ContactName: "B", Email: "b@x.com"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Unlinked clients do not collide.
	_, err = store.CreateClient(ctx, &models.Client{BusinessName: "C", ContactName: "C", Email: "c@x.com"})
	require.NoError(t, err)
	_, err = store.CreateClient(ctx, &models.Client{BusinessName: "D", ContactName: "D", Email: "d@x.com"})
	require.NoError(t, err)
}

func TestCreateContactForm_ForcesUnread(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()

	for _, status := range []models.ContactFormStatus{"", models.ContactFormRead, models.ContactFormResponded, "bogus"} {
		form, err := store.CreateContactForm(ctx, &models.ContactForm{Name: "N", Email: "n@x.com", Message: "hi", Status: status})
		require.NoError(t, err)
		assert.Equal(t, models.ContactFormUnread, form.Status)
	}

	forms, err := store.GetContactForms(ctx)
	require.NoError(t, err)
	for _, f := range forms {
		assert.Equal(t, models.ContactFormUnread, f.Status)
	}
}

func TestGetContactForms_NewestFirst(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	for _, minute := range []int{2, 7, 4} {
		_, err := store.CreateContactForm(ctx, &models.ContactForm{Name: "N", Email: "n@x.com", Message: "m", CreatedAt: at(minute)})
		require.NoError(t, err)
	}
	forms, err := store.GetContactForms(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 3)
	assert.True(t, forms[0].CreatedAt.Equal(at(7)))
	assert.True(t, forms[1].CreatedAt.Equal(at(4)))
	assert.True(t, forms[2].CreatedAt.Equal(at(2)))
}

func TestUpdateContactFormStatus(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	form, err := store.CreateContactForm(ctx, &models.ContactForm{Name: "N", Email: "n@x.com", Message: "m"})
	require.NoError(t, err)

	updated, err := store.UpdateContactFormStatus(ctx, form.ID, models.ContactFormResponded)
	require.NoError(t, err)
	assert.Equal(t, models.ContactFormResponded, updated.Status)
	assert.Equal(t, "m", updated.Message)
}

func TestUpdateContactFormStatus_NotFoundLeavesTableUnchanged(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	form, err := store.CreateContactForm(ctx, &models.ContactForm{Name: "N", Email: "n@x.com", Message: "m"})
	require.NoError(t, err)

	_, err = store.UpdateContactFormStatus(ctx, form.ID+100, models.ContactFormRead)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	forms, err := store.GetContactForms(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, models.ContactFormUnread, forms[0].Status)
}

func TestMessages(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()

	c1, err := store.CreateClient(ctx, &models.Client{BusinessName: "A", ContactName: "A", Email: "a@x.com"})
	require.NoError(t, err)
	c2, err := store.CreateClient(ctx, &models.Client{BusinessName: "B", ContactName: "B", Email: "b@x.com"})
	require.NoError(t, err)

	fixtures := []struct {
		client uint
		minute int
	}{{c1.ID, 3}, {c2.ID, 1}, {c1.ID, 8}, {c1.ID, 5}}
	for _, f := range fixtures {
		msg, err := store.CreateMessage(ctx, &models.Message{
			SenderID: ptr("u1"), ClientID: ptr(f.client), Content: "hello", IsRead: true, CreatedAt: at(f.minute),
		})
		require.NoError(t, err)
		assert.False(t, msg.IsRead, "messages are created unread")
	}

	all, err := store.GetAllMessages(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}
	for _, m := range all {
		assert.False(t, m.IsRead)
	}

	own, err := store.GetMessagesByClientID(ctx, c1.ID)
	require.NoError(t, err)
	require.Len(t, own, 3)
	assert.True(t, own[0].CreatedAt.Equal(at(8)))
	for _, m := range own {
		require.NotNil(t, m.ClientID)
		assert.Equal(t, c1.ID, *m.ClientID)
	}
}

func TestDocuments(t *testing.T) {
	conn, store := setupTestDB(t)
	ctx := context.Background()

	c1, err := store.CreateClient(ctx, &models.Client{BusinessName: "A", ContactName: "A", Email: "a@x.com"})
	require.NoError(t, err)

	docs := []models.Document{
		{ClientID: ptr(c1.ID), Name: "contract.pdf", Type: "pdf", FilePath: "/f/1", CreatedAt: at(2)},
		{ClientID: ptr(c1.ID + 1), Name: "other.pdf", Type: "pdf", FilePath: "/f/2", CreatedAt: at(6)},
		{ClientID: ptr(c1.ID), Name: "brief.doc", Type: "doc", FilePath: "/f/3", CreatedAt: at(4), RequiresSignature: true},
	}
	for i := range docs {
		require.NoError(t, conn.Create(&docs[i]).Error)
		assert.Equal(t, models.DocumentPending, docs[i].Status)
	}

	all, err := store.GetAllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "other.pdf", all[0].Name)
	assert.Equal(t, "brief.doc", all[1].Name)
	assert.Equal(t, "contract.pdf", all[2].Name)

	own, err := store.GetDocumentsByClientID(ctx, c1.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "brief.doc", own[0].Name)
	assert.True(t, own[0].RequiresSignature)
}

func TestGetAdminStats(t *testing.T) {
	conn, store := setupTestDB(t)
	ctx := context.Background()

	for _, status := range []models.ClientStatus{models.ClientStatusActive, models.ClientStatusActive, models.ClientStatusPending} {
		_, err := store.CreateClient(ctx, &models.Client{BusinessName: "B", ContactName: "C", Email: "e@x.com", Status: status})
		require.NoError(t, err)
	}
	for _, status := range []models.DocumentStatus{models.DocumentPending, models.DocumentPending, models.DocumentSigned, models.DocumentReviewed, models.DocumentSigned} {
		require.NoError(t, conn.Create(&models.Document{Name: "d", Type: "pdf", FilePath: "/d", Status: status}).Error)
	}
	for i := 0; i < 4; i++ {
		_, err := store.CreateContactForm(ctx, &models.ContactForm{Name: "N", Email: "n@x.com", Message: "m"})
		require.NoError(t, err)
	}
	// Three of the four inquiries get triaged.
	var forms []models.ContactForm
	require.NoError(t, conn.Order("id").Find(&forms).Error)
	for _, f := range forms[1:] {
		_, err := store.UpdateContactFormStatus(ctx, f.ID, models.ContactFormRead)
		require.NoError(t, err)
	}

	stats, err := store.GetAdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AdminStats{TotalClients: 3, ActiveProjects: 2, PendingSignatures: 2, NewInquiries: 1}, stats)
}
