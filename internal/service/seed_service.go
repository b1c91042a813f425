package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-grades/internal/models"
	"github.com/noah-isme/gema-grades/internal/observability"
	"github.com/noah-isme/gema-grades/internal/repository"
)

// ErrInvalidSeedOptions indicates the requested cardinalities cannot be generated.
var ErrInvalidSeedOptions = errors.New("invalid seed options")

// GroupNames are the cohorts every seed run creates.
var GroupNames = []string{"MCS01", "MDS01", "MVS01"}

// SubjectCatalog lists the subjects every seed run creates.
var SubjectCatalog = []string{
	"Python. Core",
	"Python. Web",
	"Design Thinking",
	"Algorithms",
	"Algorithms. Advanced",
	"JS + React",
	"Node.js",
	"Databases",
}

// SeedOptions controls how much synthetic data a seed run produces. Ranges are inclusive.
type SeedOptions struct {
	// Seed makes the run reproducible; zero picks a random seed.
	Seed        uint64
	TeachersMin int `validate:"gte=1"`
	TeachersMax int `validate:"gtefield=TeachersMin"`
	StudentsMin int `validate:"gte=1"`
	StudentsMax int `validate:"gtefield=StudentsMin"`
	GradesMin   int `validate:"gte=0"`
	GradesMax   int `validate:"gtefield=GradesMin"`
	ScoreMin    int `validate:"gte=0,lte=100"`
	ScoreMax    int `validate:"gtefield=ScoreMin,lte=100"`
	HistoryDays int `validate:"gte=0"`
	// Reset removes existing rows inside the same transaction before writing.
	Reset bool
}

// DefaultSeedOptions mirrors the cardinalities the reports were designed against.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		TeachersMin: 3,
		TeachersMax: 5,
		StudentsMin: 30,
		StudentsMax: 50,
		GradesMin:   10,
		GradesMax:   20,
		ScoreMin:    60,
		ScoreMax:    100,
		HistoryDays: 180,
	}
}

// SeedSummary counts the rows a committed seed run wrote.
type SeedSummary struct {
	Groups   int `json:"groups"`
	Teachers int `json:"teachers"`
	Subjects int `json:"subjects"`
	Students int `json:"students"`
	Grades   int `json:"grades"`
}

// SeedService populates the schema with synthetic data.
type SeedService interface {
	Seed(ctx context.Context, opts SeedOptions) (SeedSummary, error)
}

type seedService struct {
	repo     repository.SeedRepository
	validate *validator.Validate
	cache    *redis.Client
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSeedService constructs a seeding service. cache may be nil.
func NewSeedService(repo repository.SeedRepository, validate *validator.Validate, cache *redis.Client, logger zerolog.Logger) SeedService {
	return &seedService{
		repo:     repo,
		validate: validate,
		cache:    cache,
		logger:   logger.With().Str("component", "seed_service").Logger(),
		now:      time.Now,
	}
}

// Seed writes groups, teachers, subjects, students and grades in one transaction.
// Any failure rolls the whole batch back and is returned unchanged.
func (s *seedService) Seed(ctx context.Context, opts SeedOptions) (SeedSummary, error) {
	if err := s.validate.Struct(opts); err != nil {
		return SeedSummary{}, fmt.Errorf("%w: %v", ErrInvalidSeedOptions, err)
	}

	gen := newSeedGenerator(opts, s.now())
	var summary SeedSummary

	err := s.repo.Transaction(ctx, func(tx repository.SeedRepository) error {
		if opts.Reset {
			if err := tx.Reset(ctx); err != nil {
				return err
			}
		}

		groups := gen.groups()
		if err := writeValidated(ctx, s.validate, groups, tx.CreateGroups); err != nil {
			return err
		}

		teachers := gen.teachers()
		if err := writeValidated(ctx, s.validate, teachers, tx.CreateTeachers); err != nil {
			return err
		}

		subjects := gen.subjects(teachers)
		if err := writeValidated(ctx, s.validate, subjects, tx.CreateSubjects); err != nil {
			return err
		}

		students := gen.students(groups)
		if err := writeValidated(ctx, s.validate, students, tx.CreateStudents); err != nil {
			return err
		}

		grades := gen.grades(students, subjects)
		if err := writeValidated(ctx, s.validate, grades, tx.CreateGrades); err != nil {
			return err
		}

		summary = SeedSummary{
			Groups:   len(groups),
			Teachers: len(teachers),
			Subjects: len(subjects),
			Students: len(students),
			Grades:   len(grades),
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("seed rolled back")
		return SeedSummary{}, err
	}

	s.record(summary)
	if dropped, cacheErr := invalidateReportCache(ctx, s.cache); cacheErr != nil {
		s.logger.Warn().Err(cacheErr).Msg("failed to invalidate report cache")
	} else if dropped > 0 {
		s.logger.Debug().Int("keys", dropped).Msg("report cache invalidated")
	}

	s.logger.Info().
		Int("groups", summary.Groups).
		Int("teachers", summary.Teachers).
		Int("subjects", summary.Subjects).
		Int("students", summary.Students).
		Int("grades", summary.Grades).
		Msg("database seeded")
	return summary, nil
}

func (s *seedService) record(summary SeedSummary) {
	rows := observability.SeededRows()
	rows.WithLabelValues("group").Add(float64(summary.Groups))
	rows.WithLabelValues("teacher").Add(float64(summary.Teachers))
	rows.WithLabelValues("subject").Add(float64(summary.Subjects))
	rows.WithLabelValues("student").Add(float64(summary.Students))
	rows.WithLabelValues("grade").Add(float64(summary.Grades))
}

// writeValidated validates every record and hands the batch to create, which assigns primary keys.
func writeValidated[T any](ctx context.Context, validate *validator.Validate, records []T, create func(context.Context, []T) error) error {
	for i := range records {
		if err := validate.Struct(&records[i]); err != nil {
			return fmt.Errorf("validate %T #%d: %w", records[i], i, err)
		}
	}
	return create(ctx, records)
}

// seedGenerator draws every random value from one seeded faker so runs are reproducible.
type seedGenerator struct {
	opts   SeedOptions
	faker  *gofakeit.Faker
	start  time.Time
	emails map[string]struct{}
}

func newSeedGenerator(opts SeedOptions, now time.Time) *seedGenerator {
	return &seedGenerator{
		opts:   opts,
		faker:  gofakeit.New(opts.Seed),
		start:  now.UTC().Truncate(time.Second).AddDate(0, 0, -opts.HistoryDays),
		emails: make(map[string]struct{}),
	}
}

func (g *seedGenerator) between(min, max int) int {
	if max <= min {
		return min
	}
	return g.faker.Number(min, max)
}

func (g *seedGenerator) uniqueEmail() string {
	for attempt := 0; ; attempt++ {
		email := strings.ToLower(g.faker.Email())
		if attempt > 5 {
			email = fmt.Sprintf("%d.%s", attempt, email)
		}
		if _, taken := g.emails[email]; !taken {
			g.emails[email] = struct{}{}
			return email
		}
	}
}

func (g *seedGenerator) groups() []models.Group {
	groups := make([]models.Group, 0, len(GroupNames))
	for _, name := range GroupNames {
		groups = append(groups, models.Group{Name: name})
	}
	return groups
}

func (g *seedGenerator) teachers() []models.Teacher {
	count := g.between(g.opts.TeachersMin, g.opts.TeachersMax)
	teachers := make([]models.Teacher, 0, count)
	for i := 0; i < count; i++ {
		teachers = append(teachers, models.Teacher{
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
			Email:     g.uniqueEmail(),
			Phone:     g.faker.Phone(),
		})
	}
	return teachers
}

func (g *seedGenerator) subjects(teachers []models.Teacher) []models.Subject {
	subjects := make([]models.Subject, 0, len(SubjectCatalog))
	for _, name := range SubjectCatalog {
		teacher := teachers[g.between(0, len(teachers)-1)]
		subjects = append(subjects, models.Subject{Name: name, TeacherID: teacher.ID})
	}
	return subjects
}

func (g *seedGenerator) students(groups []models.Group) []models.Student {
	count := g.between(g.opts.StudentsMin, g.opts.StudentsMax)
	students := make([]models.Student, 0, count)
	for i := 0; i < count; i++ {
		group := groups[g.between(0, len(groups)-1)]
		students = append(students, models.Student{
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
			Email:     g.uniqueEmail(),
			Phone:     g.faker.Phone(),
			GroupID:   group.ID,
		})
	}
	return students
}

func (g *seedGenerator) grades(students []models.Student, subjects []models.Subject) []models.Grade {
	grades := make([]models.Grade, 0, len(students)*g.opts.GradesMax)
	for _, student := range students {
		count := g.between(g.opts.GradesMin, g.opts.GradesMax)
		for i := 0; i < count; i++ {
			subject := subjects[g.between(0, len(subjects)-1)]
			grades = append(grades, models.Grade{
				StudentID:    student.ID,
				SubjectID:    subject.ID,
				Grade:        g.between(g.opts.ScoreMin, g.opts.ScoreMax),
				DateReceived: g.start.AddDate(0, 0, g.between(0, g.opts.HistoryDays)),
			})
		}
	}
	return grades
}
