package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-grades/internal/models"
)

func TestSeedRepositoryAssignsKeysForDependents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSeedRepository(db)
	ctx := context.Background()

	groups := []models.Group{{Name: "MCS01"}}
	teachers := []models.Teacher{{FirstName: "Olena", LastName: "Bondar", Email: "olena@example.com"}}
	require.NoError(t, repo.CreateGroups(ctx, groups))
	require.NoError(t, repo.CreateTeachers(ctx, teachers))
	require.NotZero(t, groups[0].ID)
	require.NotZero(t, teachers[0].ID)

	subjects := []models.Subject{{Name: "Databases", TeacherID: teachers[0].ID}}
	students := []models.Student{{FirstName: "Anna", LastName: "Shevchenko", Email: "anna@example.com", GroupID: groups[0].ID}}
	require.NoError(t, repo.CreateSubjects(ctx, subjects))
	require.NoError(t, repo.CreateStudents(ctx, students))
	require.NoError(t, repo.CreateGrades(ctx, []models.Grade{{StudentID: students[0].ID, SubjectID: subjects[0].ID, Grade: 88, DateReceived: time.Now().UTC()}}))

	var count int64
	require.NoError(t, db.Model(&models.Grade{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestSeedRepositoryRejectsDanglingReferences(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSeedRepository(db)

	err := repo.CreateSubjects(context.Background(), []models.Subject{{Name: "Orphan", TeacherID: 999}})
	require.Error(t, err)
}

func TestSeedRepositoryTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSeedRepository(db)
	boom := errors.New("boom")

	err := repo.Transaction(context.Background(), func(tx SeedRepository) error {
		require.NoError(t, tx.CreateGroups(context.Background(), []models.Group{{Name: "MCS01"}}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSeedRepositoryReset(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	repo := NewSeedRepository(db)

	require.NoError(t, repo.Reset(context.Background()))

	for _, model := range models.All() {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		require.Zero(t, count)
	}
}
