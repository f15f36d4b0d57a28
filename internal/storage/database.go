package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/client-portal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseStorage implements Storage on top of gorm.
// The *gorm.DB should be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
type DatabaseStorage struct {
	db *gorm.DB
}

var _ Storage = (*DatabaseStorage)(nil)

// NewDatabaseStorage wraps an open connection.
func NewDatabaseStorage(db *gorm.DB) *DatabaseStorage {
	return &DatabaseStorage{db: db}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func (s *DatabaseStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UpsertUser inserts the user or, on an id conflict, overwrites the fields
// present in the input and refreshes updated_at. It runs as one statement,
// so concurrent upserts of the same id resolve last-writer-wins.
func (s *DatabaseStorage) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	if in.ID == "" {
		return nil, errors.New("upsert user: missing id")
	}
	user := models.User{
		ID:              in.ID,
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		ProfileImageURL: in.ProfileImageURL,
		Role:            in.Role,
	}
	if user.Role == "" {
		user.Role = models.RoleClient
	}

	columns := []string{"updated_at"}
	if in.Email != nil {
		columns = append(columns, "email")
	}
	if in.FirstName != nil {
		columns = append(columns, "first_name")
	}
	if in.LastName != nil {
		columns = append(columns, "last_name")
	}
	if in.ProfileImageURL != nil {
		columns = append(columns, "profile_image_url")
	}
	if in.Role != "" {
		columns = append(columns, "role")
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return s.GetUser(ctx, in.ID)
}

func (s *DatabaseStorage) GetClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := newestFirst(s.db.WithContext(ctx)).Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *DatabaseStorage) GetClientByUserID(ctx context.Context, userID string) (*models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get client by user: %w", err)
	}
	return &client, nil
}

func (s *DatabaseStorage) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	client.ID = 0
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (s *DatabaseStorage) FindOrCreateClientForUser(ctx context.Context, user *models.User) (*models.Client, bool, error) {
	client, err := s.GetClientByUserID(ctx, user.ID)
	if err == nil {
		return client, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	client = models.NewPendingClientFor(user)
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		// Another request created it between our read and write.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			client, err = s.GetClientByUserID(ctx, user.ID)
			return client, false, err
		}
		return nil, false, fmt.Errorf("create client for user: %w", err)
	}
	return client, true, nil
}

func (s *DatabaseStorage) GetContactForms(ctx context.Context) ([]models.ContactForm, error) {
	var forms []models.ContactForm
	if err := newestFirst(s.db.WithContext(ctx)).Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("list contact forms: %w", err)
	}
	return forms, nil
}

// CreateContactForm stores a new inquiry. The status is always unread,
// whatever the caller put in it.
func (s *DatabaseStorage) CreateContactForm(ctx context.Context, form *models.ContactForm) (*models.ContactForm, error) {
	form.ID = 0
	form.Status = models.ContactFormUnread
	if err := s.db.WithContext(ctx).Create(form).Error; err != nil {
		return nil, fmt.Errorf("create contact form: %w", err)
	}
	return form, nil
}

func (s *DatabaseStorage) UpdateContactFormStatus(ctx context.Context, id uint, status models.ContactFormStatus) (*models.ContactForm, error) {
	res := s.db.WithContext(ctx).Model(&models.ContactForm{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("update contact form status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var form models.ContactForm
	if err := s.db.WithContext(ctx).First(&form, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reload contact form: %w", err)
	}
	return &form, nil
}

func (s *DatabaseStorage) GetAllMessages(ctx context.Context) ([]models.Message, error) {
	var msgs []models.Message
	if err := newestFirst(s.db.WithContext(ctx)).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *DatabaseStorage) GetMessagesByClientID(ctx context.Context, clientID uint) ([]models.Message, error) {
	var msgs []models.Message
	if err := newestFirst(s.db.WithContext(ctx)).Where("client_id = ?", clientID).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list client messages: %w", err)
	}
	return msgs, nil
}

// CreateMessage stores a message as unread.
func (s *DatabaseStorage) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.ID = 0
	msg.IsRead = false
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

func (s *DatabaseStorage) GetAllDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := newestFirst(s.db.WithContext(ctx)).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *DatabaseStorage) GetDocumentsByClientID(ctx context.Context, clientID uint) ([]models.Document, error) {
	var docs []models.Document
	if err := newestFirst(s.db.WithContext(ctx)).Where("client_id = ?", clientID).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list client documents: %w", err)
	}
	return docs, nil
}

// GetAdminStats runs four independent counts.
func (s *DatabaseStorage) GetAdminStats(ctx context.Context) (models.AdminStats, error) {
	var stats models.AdminStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Client{}).Count(&stats.TotalClients).Error; err != nil {
		return stats, fmt.Errorf("count clients: %w", err)
	}
	if err := db.Model(&models.Client{}).Where("status = ?", models.ClientStatusActive).Count(&stats.ActiveProjects).Error; err != nil {
		return stats, fmt.Errorf("count active clients: %w", err)
	}
	if err := db.Model(&models.Document{}).Where("status = ?", models.DocumentPending).Count(&stats.PendingSignatures).Error; err != nil {
		return stats, fmt.Errorf("count pending documents: %w", err)
	}
	if err := db.Model(&models.ContactForm{}).Where("status = ?", models.ContactFormUnread).Count(&stats.NewInquiries).Error; err != nil {
		return stats, fmt.Errorf("count unread contact forms: %w", err)
	}
	return stats, nil
}
