package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"goequity/adapters/excel"
	"goequity/adapters/postgres"
	"goequity/app"
	"goequity/domain/core"
	"goequity/domain/equity"
	"goequity/internal"
	"goequity/internal/config"
	"goequity/internal/render"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goequity",
		Short: "Statistical equity analysis over student demographic data",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newSweepCmd(),
		newExportCmd(),
		newPrepCmd(),
		newCleanupCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "analyze [category] [measure]",
		Short: "Compare one measure across one demographic category",
		Long: `Runs a single comparison and prints the markdown report.

Example: goequity analyze Race AttendanceRate --level school`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := core.ParseCategoryKey(args[0])
			if err != nil {
				return err
			}
			measure, err := core.ParseMeasureKey(args[1])
			if err != nil {
				return err
			}
			orgLevel, err := parseLevel(level)
			if err != nil {
				return err
			}

			sweeps, db, err := buildServices()
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := sweeps.Analyze(cmd.Context(), orgLevel, category, measure)
			if err != nil {
				return err
			}
			fmt.Print(render.ReportMarkdown(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "school", "Education organization level (school or lea)")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare every measure across every demographic category",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgLevel, err := parseLevel(level)
			if err != nil {
				return err
			}

			sweeps, db, err := buildServices()
			if err != nil {
				return err
			}
			defer db.Close()

			reports, err := sweeps.Run(cmd.Context(), orgLevel)
			if err != nil {
				return err
			}
			fmt.Print(render.SweepMarkdown(orgLevel, reports))
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "school", "Education organization level (school or lea)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var level string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run the full sweep and export a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgLevel, err := parseLevel(level)
			if err != nil {
				return err
			}

			sweeps, db, err := buildServices()
			if err != nil {
				return err
			}
			defer db.Close()

			reports, err := sweeps.Run(cmd.Context(), orgLevel)
			if err != nil {
				return err
			}

			if out == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				out = cfg.Output.WorkbookPath
			}
			writer := excel.NewReportWriter(out)
			if err := writer.Write(cmd.Context(), reports); err != nil {
				return err
			}
			fmt.Printf("wrote %d reports to %s\n", len(reports), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "school", "Education organization level (school or lea)")
	cmd.Flags().StringVar(&out, "out", "", "Workbook path (defaults to OUTPUT_WORKBOOK)")
	return cmd
}

func newPrepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prep",
		Short: "Install the staging tables in the records database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStaging(cmd.Context(), func(ctx context.Context, staging *postgres.Staging) error {
				schoolCount, err := staging.SchoolDemographicsCount(ctx)
				if err != nil {
					return err
				}
				leaCount, err := staging.LEADemographicsCount(ctx)
				if err != nil {
					return err
				}
				internal.DefaultLogger.Info("found %d school and %d LEA demographics rows", schoolCount, leaCount)
				return staging.Install(ctx)
			})
		},
	}
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Drop the staging tables and schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStaging(cmd.Context(), func(ctx context.Context, staging *postgres.Staging) error {
				return staging.Cleanup(ctx)
			})
		},
	}
}

func buildServices() (*app.SweepService, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to records database: %w", err)
	}

	log := internal.DefaultLogger
	reader := postgres.NewRosterRepository(db)
	comparisons := app.NewComparisonService(log)
	return app.NewSweepService(reader, comparisons, log), db, nil
}

func withStaging(ctx context.Context, fn func(context.Context, *postgres.Staging) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to records database: %w", err)
	}
	defer db.Close()

	return fn(ctx, postgres.NewStaging(db))
}

func parseLevel(s string) (equity.OrgLevel, error) {
	switch s {
	case string(equity.OrgSchool):
		return equity.OrgSchool, nil
	case string(equity.OrgLEA):
		return equity.OrgLEA, nil
	default:
		return "", fmt.Errorf("%w: %s", core.ErrUnknownOrgType, s)
	}
}
