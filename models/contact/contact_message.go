package contact

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusArchived Status = "archived"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

// Message is a contact form submission.
type Message struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Email   string `gorm:"type:varchar(255);not null" json:"email"`
	Phone   string `gorm:"type:varchar(10);not null" json:"phone"`
	Subject string `gorm:"type:varchar(200);not null" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`
	Status  Status `gorm:"type:varchar(20);not null;default:new;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Message) TableName() string {
	return "contact_messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = StatusNew
	}
	return nil
}
