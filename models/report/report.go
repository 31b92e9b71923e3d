package report

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusInProcess || s == StatusCompleted
}

// SoilReport holds lab results for one tracking ID. Results are only set once completed.
type SoilReport struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TrackingID string `gorm:"type:varchar(32);not null;uniqueIndex" json:"tracking_id"`
	Status     Status `gorm:"type:varchar(20);not null;default:pending" json:"status"`

	PHLevel       *float64 `gorm:"column:ph_level" json:"ph_level,omitempty"`
	Nitrogen      *float64 `json:"nitrogen,omitempty"`
	Phosphorus    *float64 `json:"phosphorus,omitempty"`
	Potassium     *float64 `json:"potassium,omitempty"`
	OrganicCarbon *float64 `json:"organic_carbon,omitempty"`

	Recommendations string     `gorm:"type:text" json:"recommendations,omitempty"`
	PdfURL          *string    `gorm:"type:varchar(2048)" json:"pdf_url,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SoilReport) TableName() string {
	return "reports"
}

func (r *SoilReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}

// HasResults reports whether every numeric result is present.
func (r *SoilReport) HasResults() bool {
	return r.PHLevel != nil && r.Nitrogen != nil && r.Phosphorus != nil &&
		r.Potassium != nil && r.OrganicCarbon != nil
}
