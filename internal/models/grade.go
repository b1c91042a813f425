package models

import (
	"time"

	"gorm.io/gorm"
)

// Grade records one score a student received in a subject on a date.
// Scores outside 0..100 are rejected on write by validation, not by the column.
type Grade struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentID    uint      `gorm:"not null;index" json:"student_id" validate:"required"`
	SubjectID    uint      `gorm:"not null;index" json:"subject_id" validate:"required"`
	Grade        int       `gorm:"not null" json:"grade" validate:"gte=0,lte=100"`
	DateReceived time.Time `gorm:"not null;index" json:"date_received" validate:"required"`
	Student      *Student  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student,omitempty" validate:"-"`
	Subject      *Subject  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject,omitempty" validate:"-"`
}

// BeforeSave stores DateReceived in UTC so dates compare as instants on every driver.
func (g *Grade) BeforeSave(tx *gorm.DB) error {
	g.DateReceived = g.DateReceived.UTC()
	return nil
}

// All lists every model in dependency order, suitable for AutoMigrate.
func All() []interface{} {
	return []interface{}{&Group{}, &Teacher{}, &Subject{}, &Student{}, &Grade{}}
}
