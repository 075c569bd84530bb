package models

import "time"

// QueryStatusHistory records every status transition of a query, including
// who made it and the completion evidence when the transition resolved it.
type QueryStatusHistory struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	QueryID             uint      `gorm:"not null;index" json:"queryId"`
	OldStatus           string    `gorm:"type:varchar(20)" json:"oldStatus,omitempty"`
	NewStatus           string    `gorm:"type:varchar(20);not null" json:"newStatus"`
	UpdatedByUserID     uint      `gorm:"not null" json:"updatedByUserId"`
	UpdatedByUser       *User     `gorm:"foreignKey:UpdatedByUserID" json:"updatedByUser,omitempty"`
	Comment             string    `gorm:"type:text" json:"comment,omitempty"`
	CompletionImagePath string    `gorm:"type:varchar(500)" json:"completionImagePath,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}
