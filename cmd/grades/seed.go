package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/noah-isme/gema-grades/internal/database"
	"github.com/noah-isme/gema-grades/internal/repository"
	"github.com/noah-isme/gema-grades/internal/service"
)

var seedOpts = service.DefaultSeedOptions()

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with synthetic data in a single transaction",
	RunE:  runSeed,
}

func init() {
	flags := seedCmd.Flags()
	flags.Uint64Var(&seedOpts.Seed, "seed", 0, "Random seed (default: seed.value from configuration, 0 for random)")
	flags.IntVar(&seedOpts.TeachersMin, "teachers-min", seedOpts.TeachersMin, "Minimum number of teachers")
	flags.IntVar(&seedOpts.TeachersMax, "teachers-max", seedOpts.TeachersMax, "Maximum number of teachers")
	flags.IntVar(&seedOpts.StudentsMin, "students-min", seedOpts.StudentsMin, "Minimum number of students")
	flags.IntVar(&seedOpts.StudentsMax, "students-max", seedOpts.StudentsMax, "Maximum number of students")
	flags.IntVar(&seedOpts.GradesMin, "grades-min", seedOpts.GradesMin, "Minimum grades per student")
	flags.IntVar(&seedOpts.GradesMax, "grades-max", seedOpts.GradesMax, "Maximum grades per student")
	flags.IntVar(&seedOpts.ScoreMin, "score-min", seedOpts.ScoreMin, "Lowest generated score")
	flags.IntVar(&seedOpts.ScoreMax, "score-max", seedOpts.ScoreMax, "Highest generated score")
	flags.IntVar(&seedOpts.HistoryDays, "history-days", seedOpts.HistoryDays, "Spread grade dates over this many past days")
	flags.BoolVar(&seedOpts.Reset, "reset", false, "Delete existing rows before seeding")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	if err := database.Migrate(a.db.WithContext(ctx)); err != nil {
		return err
	}

	opts := seedOpts
	if !cmd.Flags().Changed("seed") {
		opts.Seed = a.cfg.SeedValue
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	seeder := service.NewSeedService(repository.NewSeedRepository(a.db), validate, a.cache, a.logger)

	summary, err := seeder.Seed(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database seeded: %d groups, %d teachers, %d subjects, %d students, %d grades.\n",
		summary.Groups, summary.Teachers, summary.Subjects, summary.Students, summary.Grades)
	return nil
}
