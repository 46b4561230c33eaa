package models

import (
	"time"

	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "pending"
	ReservationAccepted ReservationStatus = "accepted"
	ReservationRejected ReservationStatus = "rejected"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationAccepted, ReservationRejected:
		return true
	}
	return false
}

// ActiveReservationStatuses are the statuses that hold a property's dates.
var ActiveReservationStatuses = []ReservationStatus{ReservationPending, ReservationAccepted}

// Reservation is a booking request for a half-open date interval
// [StartDate, EndDate) on a property. OwnerID is denormalized from the
// property at creation time so owner listings and ownership checks don't
// need a join.
type Reservation struct {
	gorm.Model
	PropertyID uint              `json:"propertyID"`
	TenantID   uint              `json:"tenantID"`
	OwnerID    uint              `json:"ownerID"`
	StartDate  time.Time         `json:"startDate"`
	EndDate    time.Time         `json:"endDate"`
	Status     ReservationStatus `json:"status" gorm:"type:varchar(20);default:pending;index"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Tenant   *User     `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// Overlaps reports whether [start, end) intersects this reservation's
// interval. Intervals that only touch at a boundary do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return start.Before(r.EndDate) && r.StartDate.Before(end)
}
