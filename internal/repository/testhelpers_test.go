package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/gema-grades/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// fixture is a small hand-built dataset with known averages.
type fixture struct {
	groups   []models.Group
	teachers []models.Teacher
	subjects []models.Subject
	students []models.Student
	session  time.Time
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{session: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}

	f.groups = []models.Group{{Name: "MCS01"}, {Name: "MDS01"}, {Name: "MVS01"}}
	require.NoError(t, db.Create(&f.groups).Error)

	f.teachers = []models.Teacher{
		{FirstName: "Olena", LastName: "Bondar", Email: "olena@example.com"},
		{FirstName: "Taras", LastName: "Koval", Email: "taras@example.com"},
		{FirstName: "Iryna", LastName: "Melnyk", Email: "iryna@example.com"},
	}
	require.NoError(t, db.Create(&f.teachers).Error)

	f.subjects = []models.Subject{
		{Name: "Python. Core", TeacherID: f.teachers[0].ID},
		{Name: "Databases", TeacherID: f.teachers[0].ID},
		{Name: "Algorithms", TeacherID: f.teachers[1].ID},
	}
	require.NoError(t, db.Create(&f.subjects).Error)

	f.students = []models.Student{
		{FirstName: "Anna", LastName: "Shevchenko", Email: "anna@example.com", GroupID: f.groups[0].ID},
		{FirstName: "Bohdan", LastName: "Andriiv", Email: "bohdan@example.com", GroupID: f.groups[0].ID},
		{FirstName: "Dmytro", LastName: "Lysenko", Email: "dmytro@example.com", GroupID: f.groups[1].ID},
		{FirstName: "Zoryana", LastName: "Hnatyuk", Email: "zoryana@example.com", GroupID: f.groups[1].ID},
	}
	require.NoError(t, db.Create(&f.students).Error)

	earlier := f.session.AddDate(0, 0, -7)
	grades := []models.Grade{
		// Anna: Python 90, 100; Algorithms 80.
		{StudentID: f.students[0].ID, SubjectID: f.subjects[0].ID, Grade: 90, DateReceived: earlier},
		{StudentID: f.students[0].ID, SubjectID: f.subjects[0].ID, Grade: 100, DateReceived: f.session},
		{StudentID: f.students[0].ID, SubjectID: f.subjects[2].ID, Grade: 80, DateReceived: earlier},
		// Bohdan: Python 70 on the latest session, Databases 60.
		{StudentID: f.students[1].ID, SubjectID: f.subjects[0].ID, Grade: 70, DateReceived: f.session},
		{StudentID: f.students[1].ID, SubjectID: f.subjects[1].ID, Grade: 60, DateReceived: earlier},
		// Dmytro: Python 80.
		{StudentID: f.students[2].ID, SubjectID: f.subjects[0].ID, Grade: 80, DateReceived: earlier},
	}
	require.NoError(t, db.Create(&grades).Error)

	return f
}
