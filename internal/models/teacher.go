package models

// Teacher owns the subjects it teaches; Subject.TeacherID points back here.
type Teacher struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"size:128;not null" json:"first_name" validate:"required,max=128"`
	LastName  string `gorm:"size:128;not null" json:"last_name" validate:"required,max=128"`
	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email,max=255"`
	Phone     string `gorm:"size:64" json:"phone" validate:"max=64"`
}
