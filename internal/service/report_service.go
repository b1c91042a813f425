package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-grades/internal/dto"
	"github.com/noah-isme/gema-grades/internal/observability"
	"github.com/noah-isme/gema-grades/internal/repository"
)

// ReportService runs every report query and assembles the results.
type ReportService interface {
	Build(ctx context.Context, params dto.ReportParams) (dto.Report, error)
}

type reportService struct {
	repo     repository.ReportRepository
	cache    *redis.Client
	source   string
	cacheTTL time.Duration
	tracer   trace.Tracer
	logger   zerolog.Logger
	now      func() time.Time
}

// NewReportService constructs the report service. cache may be nil to disable caching;
// source identifies the database behind repo and is part of every cache key.
func NewReportService(repo repository.ReportRepository, cache *redis.Client, source string, ttl time.Duration, logger zerolog.Logger) ReportService {
	return &reportService{
		repo:     repo,
		cache:    cache,
		source:   source,
		cacheTTL: ttl,
		tracer:   otel.Tracer("github.com/noah-isme/gema-grades/internal/service/report"),
		logger:   logger.With().Str("component", "report_service").Logger(),
		now:      time.Now,
	}
}

type reportStep struct {
	name string
	run  func(ctx context.Context) error
}

func (s *reportService) Build(ctx context.Context, params dto.ReportParams) (dto.Report, error) {
	cacheKey := reportCacheKey(s.source, params)
	ctx, span := s.tracer.Start(ctx, "report.build")
	span.SetAttributes(attribute.String("report.cache_key", cacheKey))
	defer span.End()

	if cached, ok := s.fromCache(ctx, cacheKey, span); ok {
		return cached, nil
	}

	report := dto.Report{Params: params, GeneratedAt: s.now().UTC()}
	steps := []reportStep{
		{"top_students", func(ctx context.Context) (err error) {
			report.TopStudents, err = s.repo.TopStudents(ctx, params.TopLimit)
			return err
		}},
		{"top_student_in_subject", func(ctx context.Context) (err error) {
			report.TopStudentInSubject, err = s.repo.TopStudentInSubject(ctx, params.TopSubjectID)
			return err
		}},
		{"group_averages_in_subject", func(ctx context.Context) (err error) {
			report.GroupAverages, err = s.repo.GroupAveragesInSubject(ctx, params.GroupAverageSubjectID)
			return err
		}},
		{"overall_average", func(ctx context.Context) (err error) {
			report.OverallAverage, err = s.repo.OverallAverage(ctx)
			return err
		}},
		{"subjects_by_teacher", func(ctx context.Context) (err error) {
			report.TeacherSubjects, err = s.repo.SubjectsByTeacher(ctx, params.SubjectsTeacherID)
			return err
		}},
		{"students_in_group", func(ctx context.Context) (err error) {
			report.GroupStudents, err = s.repo.StudentsInGroup(ctx, params.StudentsGroupID)
			return err
		}},
		{"group_subject_grades", func(ctx context.Context) (err error) {
			report.GroupSubjectGrades, err = s.repo.GroupSubjectGrades(ctx, params.GradesGroupID, params.GradesSubjectID)
			return err
		}},
		{"teacher_average", func(ctx context.Context) (err error) {
			report.TeacherAverage, err = s.repo.TeacherAverage(ctx, params.AverageTeacherID)
			return err
		}},
		{"student_subjects", func(ctx context.Context) (err error) {
			report.StudentSubjects, err = s.repo.StudentSubjects(ctx, params.AttendanceStudentID)
			return err
		}},
		{"student_subjects_by_teacher", func(ctx context.Context) (err error) {
			report.StudentTeacherSubjects, err = s.repo.StudentSubjectsByTeacher(ctx, params.CoursesStudentID, params.CoursesTeacherID)
			return err
		}},
		{"teacher_average_for_student", func(ctx context.Context) (err error) {
			report.TeacherStudentAverage, err = s.repo.TeacherAverageForStudent(ctx, params.PairStudentID, params.PairTeacherID)
			return err
		}},
		{"latest_session_grades", func(ctx context.Context) (err error) {
			report.LatestSessionGrades, err = s.repo.LatestSessionGrades(ctx, params.LatestGroupID, params.LatestSubjectID)
			return err
		}},
	}

	for _, step := range steps {
		if err := s.observe(ctx, step); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "report_query_failed")
			return dto.Report{}, err
		}
	}

	s.store(ctx, cacheKey, report, span)
	s.logger.Debug().Int("queries", len(steps)).Msg("report built")
	return report, nil
}

func (s *reportService) observe(ctx context.Context, step reportStep) error {
	ctx, span := s.tracer.Start(ctx, "report."+step.name)
	defer span.End()

	started := time.Now()
	err := step.run(ctx)
	observability.QueryDuration().WithLabelValues(step.name).Observe(time.Since(started).Seconds())
	if err != nil {
		observability.QueryErrors().WithLabelValues(step.name).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, step.name+"_failed")
		return fmt.Errorf("%s: %w", step.name, err)
	}

	return nil
}

func (s *reportService) fromCache(ctx context.Context, key string, span trace.Span) (dto.Report, bool) {
	if s.cache == nil {
		return dto.Report{}, false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read report cache")
			span.RecordError(err)
		}
		observability.ReportCache().WithLabelValues("miss").Inc()
		return dto.Report{}, false
	}

	var report dto.Report
	if err := json.Unmarshal([]byte(cached), &report); err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable cached report")
		observability.ReportCache().WithLabelValues("miss").Inc()
		return dto.Report{}, false
	}

	report.CacheHit = true
	span.SetAttributes(attribute.Bool("report.cache_hit", true))
	observability.ReportCache().WithLabelValues("hit").Inc()
	return report, true
}

func (s *reportService) store(ctx context.Context, key string, report dto.Report, span trace.Span) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode report for cache")
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store report cache")
		span.RecordError(err)
	}
}
