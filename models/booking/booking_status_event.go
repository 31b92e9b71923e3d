package booking

import (
	"time"
)

// BookingStatusEvent records an admin change of status or payment status.
type BookingStatusEvent struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID string `gorm:"type:varchar(36);not null;index" json:"booking_id"`

	FromStatus        BookingStatus `gorm:"size:20" json:"from_status"`
	ToStatus          BookingStatus `gorm:"size:20;not null" json:"to_status"`
	FromPaymentStatus PaymentStatus `gorm:"size:20" json:"from_payment_status"`
	ToPaymentStatus   PaymentStatus `gorm:"size:20" json:"to_payment_status"`

	CreatedBy string    `gorm:"type:varchar(36);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
