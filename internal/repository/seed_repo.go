package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-grades/internal/models"
)

const gradeBatchSize = 500

// SeedRepository writes synthetic data. Every Create call assigns primary keys to the
// passed records before returning so dependent rows can reference them.
type SeedRepository interface {
	Transaction(ctx context.Context, fn func(repo SeedRepository) error) error
	Reset(ctx context.Context) error
	CreateGroups(ctx context.Context, groups []models.Group) error
	CreateTeachers(ctx context.Context, teachers []models.Teacher) error
	CreateSubjects(ctx context.Context, subjects []models.Subject) error
	CreateStudents(ctx context.Context, students []models.Student) error
	CreateGrades(ctx context.Context, grades []models.Grade) error
}

type seedRepository struct {
	db *gorm.DB
}

// NewSeedRepository constructs the seeding repository.
func NewSeedRepository(db *gorm.DB) SeedRepository {
	return &seedRepository{db: db}
}

// Transaction runs fn against a repository bound to a single transaction. Returning an
// error (or panicking) from fn rolls back every write made through that repository.
func (r *seedRepository) Transaction(ctx context.Context, fn func(repo SeedRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&seedRepository{db: tx})
	})
}

func (r *seedRepository) Reset(ctx context.Context) error {
	tx := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{&models.Grade{}, &models.Student{}, &models.Subject{}, &models.Teacher{}, &models.Group{}} {
		if err := tx.Delete(model).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *seedRepository) CreateGroups(ctx context.Context, groups []models.Group) error {
	return r.create(ctx, &groups, len(groups))
}

func (r *seedRepository) CreateTeachers(ctx context.Context, teachers []models.Teacher) error {
	return r.create(ctx, &teachers, len(teachers))
}

func (r *seedRepository) CreateSubjects(ctx context.Context, subjects []models.Subject) error {
	return r.create(ctx, &subjects, len(subjects))
}

func (r *seedRepository) CreateStudents(ctx context.Context, students []models.Student) error {
	return r.create(ctx, &students, len(students))
}

func (r *seedRepository) CreateGrades(ctx context.Context, grades []models.Grade) error {
	return r.create(ctx, &grades, len(grades))
}

func (r *seedRepository) create(ctx context.Context, records interface{}, count int) error {
	if count == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		CreateInBatches(records, gradeBatchSize).Error
}
