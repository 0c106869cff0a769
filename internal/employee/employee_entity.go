package employee

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Employee struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;not null"`
	Email      string `gorm:"size:100;not null;uniqueIndex:uq_employee_email"`
	Department string `gorm:"size:50"`
	Role       string `gorm:"size:50"`
	Status     Status `gorm:"type:varchar(20);not null;default:pending;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
