package store

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"espbridge/models"
)

// MessageStore owns the messages table. It is the only writer and the
// sole authority for id and server timestamp assignment.
type MessageStore struct {
	db *gorm.DB
}

// Stats summarizes the stored messages. The timestamps are nil when the
// store is empty.
type Stats struct {
	TotalMessages    int64
	FirstMessageTime *time.Time
	LastMessageTime  *time.Time
}

func New(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Migrate creates or updates the messages table.
func (s *MessageStore) Migrate() error {
	return s.db.AutoMigrate(&models.Message{})
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Create persists a new message and returns the full record with its
// assigned id and server timestamp. An empty source gets the default tag.
func (s *MessageStore) Create(text string, clientTimestamp *string, source string) (*models.Message, error) {
	if source == "" {
		source = models.DefaultSource
	}
	msg := models.Message{
		Message:         text,
		ClientTimestamp: clientTimestamp,
		Source:          source,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *MessageStore) GetByID(id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db.First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// List returns messages newest-first with pagination. Bounds on limit and
// offset are the caller's responsibility.
func (s *MessageStore) List(limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Order("id DESC").Limit(limit).Offset(offset).Find(&msgs).Error
	return msgs, err
}

func (s *MessageStore) GetLatest() (*models.Message, error) {
	var msg models.Message
	if err := s.db.Order("id DESC").First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Search returns up to limit messages whose text contains query,
// case-insensitively, newest-first.
func (s *MessageStore) Search(query string, limit int) ([]models.Message, error) {
	var msgs []models.Message
	pattern := "%" + strings.ToLower(query) + "%"
	err := s.db.Where("LOWER(message) LIKE ?", pattern).
		Order("id DESC").Limit(limit).Find(&msgs).Error
	return msgs, err
}

func (s *MessageStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Message{}).Count(&n).Error
	return n, err
}

// Stats returns the row count plus the server timestamps of the oldest and
// newest messages by id order.
func (s *MessageStore) Stats() (*Stats, error) {
	st := &Stats{}
	var err error
	if st.TotalMessages, err = s.Count(); err != nil {
		return nil, err
	}
	if st.TotalMessages == 0 {
		return st, nil
	}

	var first, last models.Message
	if err := s.db.Order("id ASC").First(&first).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id DESC").First(&last).Error; err != nil {
		return nil, err
	}
	st.FirstMessageTime = &first.ServerTimestamp
	st.LastMessageTime = &last.ServerTimestamp
	return st, nil
}

// DeleteByID removes the message and returns the deleted record, or
// gorm.ErrRecordNotFound if the id does not exist.
func (s *MessageStore) DeleteByID(id uint) (*models.Message, error) {
	msg, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Delete(&models.Message{}, id).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// DeleteAll clears the table and returns how many rows were removed.
func (s *MessageStore) DeleteAll() (int64, error) {
	count, err := s.Count()
	if err != nil {
		return 0, err
	}
	if err := s.db.Where("1 = 1").Delete(&models.Message{}).Error; err != nil {
		return 0, err
	}
	return count, nil
}
