package models

import "strings"

// Student is a learner assigned to a single group.
type Student struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"size:128;not null;index:idx_students_name,priority:2" json:"first_name" validate:"required,max=128"`
	LastName  string `gorm:"size:128;not null;index:idx_students_name,priority:1" json:"last_name" validate:"required,max=128"`
	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email,max=255"`
	Phone     string `gorm:"size:64" json:"phone" validate:"max=64"`
	GroupID   uint   `gorm:"not null;index" json:"group_id" validate:"required"`
	Group     *Group `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"group,omitempty" validate:"-"`
}

// FullName concatenates first and last name the way reports display students.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
