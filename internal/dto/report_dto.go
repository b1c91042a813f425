package dto

import (
	"time"

	"github.com/noah-isme/gema-grades/internal/models"
)

// StudentAverage pairs a student's display name with an average score.
type StudentAverage struct {
	StudentID   uint    `json:"student_id"`
	StudentName string  `json:"student_name"`
	Average     float64 `json:"average"`
}

// GroupAverage pairs a group label with an average score.
type GroupAverage struct {
	GroupID   uint    `json:"group_id"`
	GroupName string  `json:"group_name"`
	Average   float64 `json:"average"`
}

// StudentGrade is a single score attributed to a student.
type StudentGrade struct {
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	Grade       int    `json:"grade"`
}

// SessionGrade is a score together with the date it was recorded.
type SessionGrade struct {
	StudentID    uint      `json:"student_id"`
	StudentName  string    `json:"student_name"`
	Grade        int       `json:"grade"`
	DateReceived time.Time `json:"date_received"`
}

// ReportParams holds the identifiers each report query is run with.
type ReportParams struct {
	TopLimit int `json:"top_limit"`

	TopSubjectID          uint `json:"top_subject_id"`
	GroupAverageSubjectID uint `json:"group_average_subject_id"`
	SubjectsTeacherID     uint `json:"subjects_teacher_id"`
	StudentsGroupID       uint `json:"students_group_id"`
	GradesGroupID         uint `json:"grades_group_id"`
	GradesSubjectID       uint `json:"grades_subject_id"`
	AverageTeacherID      uint `json:"average_teacher_id"`
	AttendanceStudentID   uint `json:"attendance_student_id"`
	CoursesStudentID      uint `json:"courses_student_id"`
	CoursesTeacherID      uint `json:"courses_teacher_id"`
	PairStudentID         uint `json:"pair_student_id"`
	PairTeacherID         uint `json:"pair_teacher_id"`
	LatestGroupID         uint `json:"latest_group_id"`
	LatestSubjectID       uint `json:"latest_subject_id"`
}

// DefaultReportParams returns the sample identifiers used when none are supplied.
func DefaultReportParams() ReportParams {
	return ReportParams{
		TopLimit:              5,
		TopSubjectID:          2,
		GroupAverageSubjectID: 4,
		SubjectsTeacherID:     3,
		StudentsGroupID:       8,
		GradesGroupID:         7,
		GradesSubjectID:       2,
		AverageTeacherID:      3,
		AttendanceStudentID:   61,
		CoursesStudentID:      70,
		CoursesTeacherID:      3,
		PairStudentID:         85,
		PairTeacherID:         2,
		LatestGroupID:         8,
		LatestSubjectID:       2,
	}
}

// Report aggregates the results of all twelve report queries.
// Nil pointers mark absent results; empty slices mark empty sequences.
type Report struct {
	Params      ReportParams `json:"params"`
	GeneratedAt time.Time    `json:"generated_at"`
	CacheHit    bool         `json:"cache_hit"`

	TopStudents            []StudentAverage `json:"top_students"`
	TopStudentInSubject    *StudentAverage  `json:"top_student_in_subject"`
	GroupAverages          []GroupAverage   `json:"group_averages"`
	OverallAverage         *float64         `json:"overall_average"`
	TeacherSubjects        []models.Subject `json:"teacher_subjects"`
	GroupStudents          []models.Student `json:"group_students"`
	GroupSubjectGrades     []StudentGrade   `json:"group_subject_grades"`
	TeacherAverage         *float64         `json:"teacher_average"`
	StudentSubjects        []models.Subject `json:"student_subjects"`
	StudentTeacherSubjects []models.Subject `json:"student_teacher_subjects"`
	TeacherStudentAverage  *float64         `json:"teacher_student_average"`
	LatestSessionGrades    []SessionGrade   `json:"latest_session_grades"`
}
