package models

import "time"

// Role values stored on User.Role
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
	RoleWorker  = "WORKER"
)

// WorkerType values, set only when Role == WORKER
const (
	WorkerElectrician = "ELECTRICIAN"
	WorkerPlumber     = "PLUMBER"
	WorkerCarpenter   = "CARPENTER"
	WorkerNetwork     = "NETWORK"
	WorkerGeneral     = "GENERAL"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(100);unique;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'STUDENT'" json:"role"`
	WorkerType   *string   `gorm:"type:varchar(20)" json:"workerType,omitempty"`
	Phone        string    `gorm:"type:varchar(15)" json:"phone,omitempty"`
	ProfileImage string    `gorm:"type:varchar(500)" json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsWorker() bool {
	return u.Role == RoleWorker
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleAdmin, RoleWorker:
		return true
	}
	return false
}

func ValidWorkerType(wt string) bool {
	switch wt {
	case WorkerElectrician, WorkerPlumber, WorkerCarpenter, WorkerNetwork, WorkerGeneral:
		return true
	}
	return false
}
