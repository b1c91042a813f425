package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/noah-isme/gema-grades/internal/dto"
	"github.com/noah-isme/gema-grades/internal/models"
)

// Supported output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatXLSX     = "xlsx"
)

// Formatter renders a report to its destination.
type Formatter interface {
	Format(report dto.Report) error
}

// New returns the formatter for format writing to w.
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatText, "":
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	case FormatXLSX:
		return NewXLSXFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown', 'json' or 'xlsx')", format)
	}
}

// section is one query's result in a shape every tabular formatter can render.
// Scalar sections carry Value; list sections carry Rows.
type section struct {
	Number  int
	Title   string
	Sheet   string
	Columns []string
	Rows    [][]interface{}
	Scalar  bool
	Value   *float64
	Missing string
}

func (s section) empty() bool {
	if s.Scalar {
		return s.Value == nil
	}
	return len(s.Rows) == 0
}

func sections(r dto.Report) []section {
	p := r.Params

	top := section{
		Number:  1,
		Title:   fmt.Sprintf("Top %d students by average grade across all subjects", p.TopLimit),
		Sheet:   "01 Top students",
		Columns: []string{"Student", "Average"},
		Missing: "No grades recorded yet.",
	}
	for _, row := range r.TopStudents {
		top.Rows = append(top.Rows, []interface{}{row.StudentName, row.Average})
	}

	best := section{
		Number:  2,
		Title:   fmt.Sprintf("Student with the highest average in subject %d", p.TopSubjectID),
		Sheet:   "02 Best in subject",
		Columns: []string{"Student", "Average"},
		Missing: "No grades recorded for this subject.",
	}
	if r.TopStudentInSubject != nil {
		best.Rows = [][]interface{}{{r.TopStudentInSubject.StudentName, r.TopStudentInSubject.Average}}
	}

	groups := section{
		Number:  3,
		Title:   fmt.Sprintf("Average grade per group in subject %d", p.GroupAverageSubjectID),
		Sheet:   "03 Group averages",
		Columns: []string{"Group", "Average"},
		Missing: "No group has grades in this subject.",
	}
	for _, row := range r.GroupAverages {
		groups.Rows = append(groups.Rows, []interface{}{row.GroupName, row.Average})
	}

	return []section{
		top,
		best,
		groups,
		{
			Number:  4,
			Title:   "Overall average grade",
			Sheet:   "04 Overall average",
			Columns: []string{"Average"},
			Scalar:  true,
			Value:   r.OverallAverage,
			Missing: "No grades recorded yet.",
		},
		subjectSection(5, fmt.Sprintf("Subjects taught by teacher %d", p.SubjectsTeacherID), "05 Teacher subjects",
			r.TeacherSubjects, "This teacher has no subjects."),
		studentSection(r, p),
		gradeSection(r, p),
		{
			Number:  8,
			Title:   fmt.Sprintf("Average grade given by teacher %d", p.AverageTeacherID),
			Sheet:   "08 Teacher average",
			Columns: []string{"Average"},
			Scalar:  true,
			Value:   r.TeacherAverage,
			Missing: "This teacher has not recorded any grades yet.",
		},
		subjectSection(9, fmt.Sprintf("Subjects attended by student %d", p.AttendanceStudentID), "09 Student subjects",
			r.StudentSubjects, "This student has no grades yet."),
		subjectSection(10, fmt.Sprintf("Subjects teacher %d teaches student %d", p.CoursesTeacherID, p.CoursesStudentID), "10 Teacher-student subjects",
			r.StudentTeacherSubjects, "This teacher does not teach this student."),
		{
			Number:  11,
			Title:   fmt.Sprintf("Average grade teacher %d gave student %d", p.PairTeacherID, p.PairStudentID),
			Sheet:   "11 Teacher-student average",
			Columns: []string{"Average"},
			Scalar:  true,
			Value:   r.TeacherStudentAverage,
			Missing: "This teacher has not graded this student yet.",
		},
		latestSection(r, p),
	}
}

func subjectSection(number int, title, sheet string, subjects []models.Subject, missing string) section {
	s := section{Number: number, Title: title, Sheet: sheet, Columns: []string{"Subject"}, Missing: missing}
	for _, subject := range subjects {
		s.Rows = append(s.Rows, []interface{}{subject.Name})
	}
	return s
}

func studentSection(r dto.Report, p dto.ReportParams) section {
	s := section{
		Number:  6,
		Title:   fmt.Sprintf("Students in group %d", p.StudentsGroupID),
		Sheet:   "06 Group students",
		Columns: []string{"Student"},
		Missing: "This group has no students.",
	}
	for _, student := range r.GroupStudents {
		s.Rows = append(s.Rows, []interface{}{student.FullName()})
	}
	return s
}

func gradeSection(r dto.Report, p dto.ReportParams) section {
	s := section{
		Number:  7,
		Title:   fmt.Sprintf("Grades of group %d in subject %d", p.GradesGroupID, p.GradesSubjectID),
		Sheet:   "07 Group grades",
		Columns: []string{"Student", "Grade"},
		Missing: "No grades recorded for this group and subject.",
	}
	for _, row := range r.GroupSubjectGrades {
		s.Rows = append(s.Rows, []interface{}{row.StudentName, row.Grade})
	}
	return s
}

func latestSection(r dto.Report, p dto.ReportParams) section {
	s := section{
		Number:  12,
		Title:   fmt.Sprintf("Grades of group %d in subject %d at the latest session", p.LatestGroupID, p.LatestSubjectID),
		Sheet:   "12 Latest session",
		Columns: []string{"Student", "Grade", "Date"},
		Missing: "No grades recorded for this group and subject.",
	}
	for _, row := range r.LatestSessionGrades {
		s.Rows = append(s.Rows, []interface{}{row.StudentName, row.Grade, row.DateReceived})
	}
	return s
}

// formatValue renders averages with two decimals and dates without a time component.
func formatValue(v interface{}) string {
	switch value := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", value)
	case time.Time:
		return value.Format("2006-01-02")
	default:
		return fmt.Sprint(value)
	}
}
