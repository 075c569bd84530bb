package models

import (
	"time"

	"gorm.io/gorm"
)

// Category values (trade classification of a query)
const (
	CategoryElectrical  = "ELECTRICAL"
	CategoryPlumbing    = "PLUMBING"
	CategoryCarpentry   = "CARPENTRY"
	CategoryNetwork     = "NETWORK"
	CategoryCleaning    = "CLEANING"
	CategoryMaintenance = "MAINTENANCE"
	CategoryOther       = "OTHER"
)

// Priority values
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Status values, in lifecycle order
const (
	StatusPending    = "PENDING"
	StatusAssigned   = "ASSIGNED"
	StatusInProgress = "IN_PROGRESS"
	StatusResolved   = "RESOLVED"
	StatusClosed     = "CLOSED"
)

type Query struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Title               string     `gorm:"type:varchar(200);not null" json:"title"`
	Description         string     `gorm:"type:text;not null" json:"description"`
	VenueID             *uint      `json:"venueId,omitempty"`
	Venue               *Venue     `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	Category            string     `gorm:"type:varchar(20);not null" json:"category"`
	Priority            string     `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	Status              string     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ImagePath           string     `gorm:"type:varchar(500)" json:"imagePath,omitempty"`
	RaisedByUserID      *uint      `json:"raisedByUserId,omitempty"`
	RaisedByUser        *User      `gorm:"foreignKey:RaisedByUserID" json:"raisedByUser,omitempty"`
	AssignedToWorkerID  *uint      `gorm:"index" json:"assignedToWorkerId,omitempty"`
	AssignedToWorker    *User      `gorm:"foreignKey:AssignedToWorkerID" json:"assignedToWorker,omitempty"`
	ResolvedAt          *time.Time `json:"resolvedAt,omitempty"`
	CompletionNotes     string     `gorm:"type:text" json:"completionNotes,omitempty"`
	CompletionImagePath string     `gorm:"type:varchar(500)" json:"completionImagePath,omitempty"`
	CompletedByUserID   *uint      `json:"completedByUserId,omitempty"`
	CompletedByUser     *User      `gorm:"foreignKey:CompletedByUserID" json:"completedByUser,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// BeforeSave mirrors the original entity lifecycle: a query that reaches
// RESOLVED gets its resolution timestamp exactly once.
func (q *Query) BeforeSave(tx *gorm.DB) error {
	if q.Status == StatusResolved && q.ResolvedAt == nil {
		now := time.Now()
		q.ResolvedAt = &now
	}
	return nil
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryElectrical, CategoryPlumbing, CategoryCarpentry, CategoryNetwork,
		CategoryCleaning, CategoryMaintenance, CategoryOther:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}
