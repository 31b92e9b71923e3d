package booking

type PickupType string

const (
	PickupTypePickup PickupType = "pickup"
	PickupTypeDrop   PickupType = "drop"
)

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCOD    PaymentMethod = "cod"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "pending"
	BookingStatusConfirmed       BookingStatus = "confirmed"
	BookingStatusSampleCollected BookingStatus = "sample_collected"
	BookingStatusInLab           BookingStatus = "in_lab"
	BookingStatusCompleted       BookingStatus = "completed"
	BookingStatusCancelled       BookingStatus = "cancelled"
)

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusSampleCollected,
		BookingStatusInLab, BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsFinal returns true once the booking can no longer change status.
func (bs BookingStatus) IsFinal() bool {
	return bs == BookingStatusCompleted || bs == BookingStatusCancelled
}

func (ps PaymentStatus) IsValid() bool {
	switch ps {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// GetAllBookingStatuses returns all valid booking statuses in lifecycle order.
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusSampleCollected,
		BookingStatusInLab,
		BookingStatusCompleted,
		BookingStatusCancelled,
	}
}
