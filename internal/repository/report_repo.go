package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-grades/internal/dto"
	"github.com/noah-isme/gema-grades/internal/models"
)

// studentNameExpr renders a student's display name in SQL; || works on both postgres and sqlite.
const studentNameExpr = "students.first_name || ' ' || students.last_name"

const averageExpr = "CAST(AVG(grades.grade) AS FLOAT)"

// ReportRepository exposes the read-only report queries over the grades schema.
// Averages are nil when the filtered grade set is empty.
type ReportRepository interface {
	TopStudents(ctx context.Context, limit int) ([]dto.StudentAverage, error)
	TopStudentInSubject(ctx context.Context, subjectID uint) (*dto.StudentAverage, error)
	GroupAveragesInSubject(ctx context.Context, subjectID uint) ([]dto.GroupAverage, error)
	OverallAverage(ctx context.Context) (*float64, error)
	SubjectsByTeacher(ctx context.Context, teacherID uint) ([]models.Subject, error)
	StudentsInGroup(ctx context.Context, groupID uint) ([]models.Student, error)
	GroupSubjectGrades(ctx context.Context, groupID, subjectID uint) ([]dto.StudentGrade, error)
	TeacherAverage(ctx context.Context, teacherID uint) (*float64, error)
	StudentSubjects(ctx context.Context, studentID uint) ([]models.Subject, error)
	StudentSubjectsByTeacher(ctx context.Context, studentID, teacherID uint) ([]models.Subject, error)
	TeacherAverageForStudent(ctx context.Context, studentID, teacherID uint) (*float64, error)
	LatestSessionGrades(ctx context.Context, groupID, subjectID uint) ([]dto.SessionGrade, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository constructs the report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) studentAverages(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("students").
		Select("students.id AS student_id, " + studentNameExpr + " AS student_name, " + averageExpr + " AS average").
		Joins("JOIN grades ON grades.student_id = students.id").
		Group("students.id, students.first_name, students.last_name").
		Order("average DESC, students.id ASC")
}

func (r *reportRepository) TopStudents(ctx context.Context, limit int) ([]dto.StudentAverage, error) {
	if limit <= 0 {
		return []dto.StudentAverage{}, nil
	}

	rows := make([]dto.StudentAverage, 0, limit)

	err := r.studentAverages(ctx).Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) TopStudentInSubject(ctx context.Context, subjectID uint) (*dto.StudentAverage, error) {
	var rows []dto.StudentAverage
	err := r.studentAverages(ctx).
		Where("grades.subject_id = ?", subjectID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

func (r *reportRepository) GroupAveragesInSubject(ctx context.Context, subjectID uint) ([]dto.GroupAverage, error) {
	rows := make([]dto.GroupAverage, 0)
	err := r.db.WithContext(ctx).
		Table("groups").
		Select("groups.id AS group_id, groups.name AS group_name, " + averageExpr + " AS average").
		Joins("JOIN students ON students.group_id = groups.id").
		Joins("JOIN grades ON grades.student_id = students.id").
		Where("grades.subject_id = ?", subjectID).
		Group("groups.id, groups.name").
		Order("groups.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) OverallAverage(ctx context.Context) (*float64, error) {
	return scanAverage(r.db.WithContext(ctx).Table("grades"))
}

func (r *reportRepository) SubjectsByTeacher(ctx context.Context, teacherID uint) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0)
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("name ASC, id ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *reportRepository) StudentsInGroup(ctx context.Context, groupID uint) ([]models.Student, error) {
	students := make([]models.Student, 0)
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&students).Error
	return students, err
}

func (r *reportRepository) GroupSubjectGrades(ctx context.Context, groupID, subjectID uint) ([]dto.StudentGrade, error) {
	rows := make([]dto.StudentGrade, 0)
	err := r.db.WithContext(ctx).
		Table("students").
		Select("students.id AS student_id, "+studentNameExpr+" AS student_name, grades.grade AS grade").
		Joins("JOIN grades ON grades.student_id = students.id").
		Where("grades.subject_id = ? AND students.group_id = ?", subjectID, groupID).
		Order("students.last_name ASC, students.first_name ASC, grades.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) TeacherAverage(ctx context.Context, teacherID uint) (*float64, error) {
	return scanAverage(r.db.WithContext(ctx).
		Table("subjects").
		Joins("JOIN grades ON grades.subject_id = subjects.id").
		Where("subjects.teacher_id = ?", teacherID))
}

func (r *reportRepository) StudentSubjects(ctx context.Context, studentID uint) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0)
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.gradedSubjectIDs(ctx, studentID)).
		Order("name ASC, id ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *reportRepository) StudentSubjectsByTeacher(ctx context.Context, studentID, teacherID uint) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0)
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Where("id IN (?)", r.gradedSubjectIDs(ctx, studentID)).
		Order("name ASC, id ASC").
		Find(&subjects).Error
	return subjects, err
}

// gradedSubjectIDs selects the subjects a student holds at least one grade in.
func (r *reportRepository) gradedSubjectIDs(ctx context.Context, studentID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Grade{}).
		Select("subject_id").
		Where("student_id = ?", studentID)
}

func (r *reportRepository) TeacherAverageForStudent(ctx context.Context, studentID, teacherID uint) (*float64, error) {
	return scanAverage(r.db.WithContext(ctx).
		Table("grades").
		Joins("JOIN subjects ON subjects.id = grades.subject_id").
		Where("grades.student_id = ? AND subjects.teacher_id = ?", studentID, teacherID))
}

func (r *reportRepository) LatestSessionGrades(ctx context.Context, groupID, subjectID uint) ([]dto.SessionGrade, error) {
	latest := r.db.WithContext(ctx).
		Table("grades").
		Select("MAX(grades.date_received)").
		Joins("JOIN students ON students.id = grades.student_id").
		Where("grades.subject_id = ? AND students.group_id = ?", subjectID, groupID)

	rows := make([]dto.SessionGrade, 0)
	err := r.db.WithContext(ctx).
		Table("students").
		Select("students.id AS student_id, "+studentNameExpr+" AS student_name, grades.grade AS grade, grades.date_received AS date_received").
		Joins("JOIN grades ON grades.student_id = students.id").
		Where("grades.subject_id = ? AND students.group_id = ?", subjectID, groupID).
		Where("grades.date_received = (?)", latest).
		Order("students.last_name ASC, students.first_name ASC, grades.id ASC").
		Scan(&rows).Error
	return rows, err
}

func scanAverage(query *gorm.DB) (*float64, error) {
	var result struct {
		Average sql.NullFloat64
	}
	if err := query.Select(averageExpr + " AS average").Scan(&result).Error; err != nil {
		return nil, err
	}
	if !result.Average.Valid {
		return nil, nil
	}

	average := result.Average.Float64
	return &average, nil
}
