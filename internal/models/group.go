package models

// Group is a cohort of students sharing a label such as "MCS01".
type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name" validate:"required,max=64"`
}
