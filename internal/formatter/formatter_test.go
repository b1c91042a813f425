package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/gema-grades/internal/dto"
	"github.com/noah-isme/gema-grades/internal/models"
)

func sampleReport() dto.Report {
	overall := 80.0
	session := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	return dto.Report{
		Params:      dto.DefaultReportParams(),
		GeneratedAt: session,
		TopStudents: []dto.StudentAverage{
			{StudentID: 1, StudentName: "Anna Shevchenko", Average: 90},
			{StudentID: 3, StudentName: "Dmytro Lysenko", Average: 80.3333},
		},
		TopStudentInSubject: &dto.StudentAverage{StudentID: 1, StudentName: "Anna Shevchenko", Average: 95},
		GroupAverages:       []dto.GroupAverage{{GroupID: 1, GroupName: "MCS01", Average: 86.6667}},
		OverallAverage:      &overall,
		TeacherSubjects:     []models.Subject{{Name: "Databases"}, {Name: "Python. Core"}},
		GroupStudents:       []models.Student{},
		GroupSubjectGrades:  []dto.StudentGrade{{StudentName: "Bohdan Andriiv", Grade: 70}},
		StudentSubjects:     []models.Subject{},
		LatestSessionGrades: []dto.SessionGrade{{StudentName: "Anna Shevchenko", Grade: 100, DateReceived: session}},
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(sampleReport()))
	out := buf.String()

	require.Contains(t, out, "1. Top 5 students by average grade across all subjects:\n   Anna Shevchenko: 90.00\n   Dmytro Lysenko: 80.33\n")
	require.Contains(t, out, "2. Student with the highest average in subject 2:\n   Anna Shevchenko: 95.00\n")
	require.Contains(t, out, "3. Average grade per group in subject 4:\n   MCS01: 86.67\n")
	require.Contains(t, out, "4. Overall average grade: 80.00\n")
	require.Contains(t, out, "6. Students in group 8:\n   This group has no students.\n")
	require.Contains(t, out, "7. Grades of group 7 in subject 2:\n   Bohdan Andriiv: 70\n")
	require.Contains(t, out, "8. Average grade given by teacher 3: This teacher has not recorded any grades yet.\n")
	require.Contains(t, out, "9. Subjects attended by student 61:\n   This student has no grades yet.\n")
	require.Contains(t, out, "11. Average grade teacher 2 gave student 85: This teacher has not graded this student yet.\n")
	require.Contains(t, out, "   Anna Shevchenko: 100 (2025-03-14)\n")
	require.Equal(t, 11, strings.Count(out, strings.Repeat("-", 60)+"\n"))
	require.True(t, strings.HasSuffix(out, strings.Repeat("=", 60)+"\n"))
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(sampleReport()))
	out := buf.String()

	require.Contains(t, out, "## 1. Top 5 students by average grade across all subjects\n\n| Student | Average |\n| --- | --- |\n| Anna Shevchenko | 90.00 |\n")
	require.Contains(t, out, "## 4. Overall average grade\n\n**80.00**\n")
	require.Contains(t, out, "_This teacher has not recorded any grades yet._")
	require.Contains(t, out, "| Anna Shevchenko | 100 | 2025-03-14 |")
}

func TestJSONFormatterKeepsAbsentValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Nil(t, decoded["teacher_average"])
	require.Equal(t, 80.0, decoded["overall_average"])
	require.Len(t, decoded["group_students"], 0)
}

func TestXLSXFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXFormatter(&buf).Format(sampleReport()))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	sheets := book.GetSheetList()
	require.Len(t, sheets, 12)
	require.Equal(t, "01 Top students", sheets[0])

	rows, err := book.GetRows("01 Top students")
	require.NoError(t, err)
	require.Equal(t, []string{"Student", "Average"}, rows[0])
	require.Equal(t, "Anna Shevchenko", rows[1][0])

	rows, err = book.GetRows("08 Teacher average")
	require.NoError(t, err)
	require.Equal(t, "This teacher has not recorded any grades yet.", rows[1][0])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("pdf", &bytes.Buffer{})
	require.Error(t, err)

	f, err := New("", &bytes.Buffer{})
	require.NoError(t, err)
	require.IsType(t, &TextFormatter{}, f)
}
