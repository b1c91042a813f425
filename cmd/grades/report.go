package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/gema-grades/internal/dto"
	"github.com/noah-isme/gema-grades/internal/formatter"
	"github.com/noah-isme/gema-grades/internal/repository"
	"github.com/noah-isme/gema-grades/internal/service"
)

var (
	reportParams = dto.DefaultReportParams()
	reportFormat string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the twelve grade reports and print the results",
	RunE:  runReport,
}

func init() {
	flags := reportCmd.Flags()
	flags.StringVarP(&reportFormat, "format", "f", formatter.FormatText, "Output format: text, markdown, json or xlsx")
	flags.StringVarP(&reportOutput, "output", "o", "", "Output file (default: stdout; required for xlsx)")

	p := &reportParams
	flags.IntVar(&p.TopLimit, "top", p.TopLimit, "Number of students in the overall ranking")
	flags.UintVar(&p.TopSubjectID, "top-subject", p.TopSubjectID, "Subject for the best-student query")
	flags.UintVar(&p.GroupAverageSubjectID, "group-average-subject", p.GroupAverageSubjectID, "Subject for per-group averages")
	flags.UintVar(&p.SubjectsTeacherID, "subjects-teacher", p.SubjectsTeacherID, "Teacher whose subjects are listed")
	flags.UintVar(&p.StudentsGroupID, "students-group", p.StudentsGroupID, "Group whose students are listed")
	flags.UintVar(&p.GradesGroupID, "grades-group", p.GradesGroupID, "Group for the grade listing")
	flags.UintVar(&p.GradesSubjectID, "grades-subject", p.GradesSubjectID, "Subject for the grade listing")
	flags.UintVar(&p.AverageTeacherID, "average-teacher", p.AverageTeacherID, "Teacher for the teacher average")
	flags.UintVar(&p.AttendanceStudentID, "attendance-student", p.AttendanceStudentID, "Student whose subjects are listed")
	flags.UintVar(&p.CoursesStudentID, "courses-student", p.CoursesStudentID, "Student for the teacher-student subject listing")
	flags.UintVar(&p.CoursesTeacherID, "courses-teacher", p.CoursesTeacherID, "Teacher for the teacher-student subject listing")
	flags.UintVar(&p.PairStudentID, "pair-student", p.PairStudentID, "Student for the teacher-student average")
	flags.UintVar(&p.PairTeacherID, "pair-teacher", p.PairTeacherID, "Teacher for the teacher-student average")
	flags.UintVar(&p.LatestGroupID, "latest-group", p.LatestGroupID, "Group for the latest-session grades")
	flags.UintVar(&p.LatestSubjectID, "latest-subject", p.LatestSubjectID, "Subject for the latest-session grades")
}

func runReport(cmd *cobra.Command, args []string) error {
	if _, err := formatter.New(reportFormat, io.Discard); err != nil {
		return err
	}
	if reportFormat == formatter.FormatXLSX && reportOutput == "" {
		return fmt.Errorf("--output is required for xlsx format")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	reports := service.NewReportService(repository.NewReportRepository(a.db), a.cache, a.cfg.DataSource(), a.cfg.ReportCacheTTL, a.logger)
	report, err := reports.Build(ctx, reportParams)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	var writer io.Writer = cmd.OutOrStdout()
	if reportOutput != "" {
		file, err := os.Create(reportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := file.Close(); err != nil {
				a.logger.Warn().Err(err).Msg("failed to close output file")
			}
		}()
		writer = file
	}

	out, err := formatter.New(reportFormat, writer)
	if err != nil {
		return err
	}
	if err := out.Format(report); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	a.logger.Info().Bool("cache_hit", report.CacheHit).Str("format", reportFormat).Msg("report written")
	return nil
}
