package court

import "time"

type Status string

const (
	StatusAvailable        Status = "available"
	StatusUnderMaintenance Status = "under_maintenance"
	StatusEvent            Status = "event"
	StatusTournament       Status = "tournament"
	StatusCoaching         Status = "coaching"
)

// Blocking reports whether the status makes the court wholly unavailable,
// independent of occupancy.
func (s Status) Blocking() bool {
	return s != StatusAvailable
}

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusUnderMaintenance, StatusEvent, StatusTournament, StatusCoaching:
		return true
	}
	return false
}

// Sport is the resource class: courts of a sport share its hourly rate and
// capacity.
type Sport struct {
	ID               int       `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	HourlyPriceCents int64     `db:"hourly_price_cents" json:"hourly_price_cents"`
	Capacity         int       `db:"capacity" json:"capacity"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

type Court struct {
	ID        int       `db:"id" json:"id"`
	SportID   int       `db:"sport_id" json:"sport_id"`
	Name      string    `db:"name" json:"name"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CourtWithSport struct {
	Court
	SportName        string `db:"sport_name" json:"sport_name"`
	HourlyPriceCents int64  `db:"hourly_price_cents" json:"hourly_price_cents"`
	Capacity         int    `db:"capacity" json:"capacity"`
}

type CreateSportRequest struct {
	Name             string `json:"name" binding:"required"`
	HourlyPriceCents int64  `json:"hourly_price_cents" binding:"required,gt=0"`
	Capacity         int    `json:"capacity" binding:"required,min=1"`
}

type CreateCourtRequest struct {
	SportID int    `json:"sport_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
