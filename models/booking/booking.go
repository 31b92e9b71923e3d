package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is one soil test order created by the booking wizard.
type Booking struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TrackingID string `gorm:"type:varchar(32);not null;uniqueIndex" json:"tracking_id"`
	PackageID  string `gorm:"type:varchar(50);not null" json:"package_id"`

	FarmerName string `gorm:"type:varchar(100);not null" json:"farmer_name"`
	Mobile     string `gorm:"type:varchar(10);not null;index" json:"mobile"`
	Village    string `gorm:"type:varchar(100);not null" json:"village"`
	District   string `gorm:"type:varchar(100);not null" json:"district"`
	State      string `gorm:"type:varchar(100);not null" json:"state"`
	CropType   string `gorm:"type:varchar(100);not null" json:"crop_type"`

	PickupType PickupType `gorm:"type:varchar(10);not null" json:"pickup_type"`
	Address    *string    `gorm:"type:text" json:"address,omitempty"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:pending" json:"payment_status"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`

	// Set when the booking was made from a logged-in session.
	UserID *string `gorm:"type:varchar(36);index" json:"user_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentStatusPending
	}
	return nil
}
