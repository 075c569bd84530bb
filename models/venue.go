package models

import "time"

// VenueType values
const (
	VenueClassroom = "CLASSROOM"
	VenueLab       = "LAB"
	VenueHall      = "HALL"
	VenueOffice    = "OFFICE"
	VenueLibrary   = "LIBRARY"
	VenueHostel    = "HOSTEL"
	VenueOther     = "OTHER"
)

type Venue struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Location    string    `gorm:"type:varchar(200);not null" json:"location"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Capacity    *int      `json:"capacity,omitempty"`
	FloorNumber *int      `json:"floorNumber,omitempty"`
	Building    string    `gorm:"type:varchar(50)" json:"building,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string    `gorm:"type:varchar(500)" json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ValidVenueType(t string) bool {
	switch t {
	case VenueClassroom, VenueLab, VenueHall, VenueOffice, VenueLibrary, VenueHostel, VenueOther:
		return true
	}
	return false
}
