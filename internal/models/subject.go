package models

// Subject is a course taught by exactly one teacher.
type Subject struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Name      string   `gorm:"size:128;not null;index" json:"name" validate:"required,max=128"`
	TeacherID uint     `gorm:"not null;index" json:"teacher_id" validate:"required"`
	Teacher   *Teacher `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"teacher,omitempty" validate:"-"`
}
