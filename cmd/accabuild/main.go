// Package main provides the one-shot pipeline CLI for the accumulator engine.
package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/acca-engine/internal/analyzer"
	"github.com/yourusername/acca-engine/internal/config"
	"github.com/yourusername/acca-engine/internal/database"
	"github.com/yourusername/acca-engine/internal/datasource"
	"github.com/yourusername/acca-engine/internal/logger"
	"github.com/yourusername/acca-engine/internal/repository"
	"github.com/yourusername/acca-engine/internal/service"
)

var (
	configFile string
	seasonFlag string
	dateFlag   string

	cfg    *config.Config
	appLog *logrus.Logger
	db     *database.DB
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	classifyCmd.Flags().StringVar(&seasonFlag, "season", "", "Season key (e.g. 2025-26); defaults to the current season")
	picksCmd.Flags().StringVar(&dateFlag, "date", "", "Pick date (YYYY-MM-DD); defaults to today")
	combosCmd.Flags().StringVar(&dateFlag, "date", "", "Combo date (YYYY-MM-DD); defaults to today")
	runCmd.Flags().StringVar(&dateFlag, "date", "", "Pipeline date (YYYY-MM-DD); defaults to today")

	simulateCmd.Flags().Float64Var(&simWinProb, "win-prob", 0.8, "Average per-leg win probability")
	simulateCmd.Flags().Float64Var(&simLegs, "legs", 3, "Average legs per combo")
	simulateCmd.Flags().Float64Var(&simOdds, "odds", 2.0, "Average total decimal odds per combo")
	simulateCmd.Flags().Float64Var(&simPerWeek, "per-week", 2, "Combos placed per week")
	simulateCmd.Flags().IntVar(&simWeeks, "weeks", 38, "Weeks in the season")

	rootCmd.AddCommand(classifyCmd, picksCmd, combosCmd, runCmd, simulateCmd)
}

var rootCmd = &cobra.Command{
	Use:   "accabuild",
	Short: "Run accumulator pipeline stages on demand",
	Long:  `Executes individual stages of the daily accumulator pipeline: dominance classification, pick generation and combination building.`,
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Reclassify dominant teams for a season",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(ctx context.Context, svc *service.AccumulatorService) error {
			season := seasonFlag
			if season == "" {
				season = service.SeasonKey(time.Now().UTC())
			}
			result, err := svc.RefreshDominantTeams(ctx, season)
			if err != nil {
				return err
			}
			fmt.Printf("Season %s: %d leagues, %d profiles ranked, %d bettable\n",
				result.Season, result.LeaguesProcessed, result.ProfilesRanked, result.BettableTeams)
			return nil
		})
	},
}

var picksCmd = &cobra.Command{
	Use:   "picks",
	Short: "Generate the daily pick slate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(ctx context.Context, svc *service.AccumulatorService) error {
			day, err := resolveDate()
			if err != nil {
				return err
			}
			result, err := svc.GenerateDailyPicks(ctx, day)
			if err != nil {
				return err
			}
			fmt.Printf("%s: scanned %d fixtures across %d teams, kept %d picks (dropped %d)\n",
				result.PickDate.Format("2006-01-02"), result.FixturesScanned,
				result.TeamsScanned, result.PicksKept, result.PicksDropped)
			return nil
		})
	},
}

var combosCmd = &cobra.Command{
	Use:   "combos",
	Short: "Build the daily combo slate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(ctx context.Context, svc *service.AccumulatorService) error {
			day, err := resolveDate()
			if err != nil {
				return err
			}
			result, err := svc.BuildDailyCombos(ctx, day)
			if err != nil {
				return err
			}
			fmt.Printf("%s: built %d combos from a pool of %d picks\n",
				result.ComboDate.Format("2006-01-02"), result.CombosBuilt, result.PoolSize)
			for risk, count := range result.ByRisk {
				fmt.Printf("  %s: %d\n", risk, count)
			}
			return nil
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: classify, picks, combos",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(ctx context.Context, svc *service.AccumulatorService) error {
			day, err := resolveDate()
			if err != nil {
				return err
			}
			if err := svc.RunDailyPipeline(ctx, day); err != nil {
				return err
			}
			fmt.Printf("Pipeline complete for %s\n", day.Format("2006-01-02"))
			return nil
		})
	},
}

var (
	simWinProb float64
	simLegs    float64
	simOdds    float64
	simPerWeek float64
	simWeeks   int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project season outcomes for a combo profile",
	Long:  `Runs the closed-form season projection for a hypothetical combo profile without touching the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tun := analyzer.DefaultTunables()
		sim := analyzer.SimulateSeason(simWinProb, simLegs, simOdds, simPerWeek, simWeeks, tun.Season)

		fmt.Printf("Combos placed:          %.0f\n", simPerWeek*float64(simWeeks))
		fmt.Printf("Expected wins:          %.2f\n", sim.ExpectedWins)
		fmt.Printf("Expected losses:        %.2f\n", sim.ExpectedLosses)
		fmt.Printf("Break-even win rate:    %.4f\n", sim.BreakEvenRate)
		fmt.Printf("Projected ROI:          %.2f%%\n", sim.ProjectedROI)
		fmt.Printf("Max consecutive losses: %d\n", sim.MaxConsecutiveLosses)
		if sim.RecoveryBetsAfterLoss >= 999 {
			fmt.Println("Recovery bets per loss: not recoverable at these odds")
		} else {
			fmt.Printf("Recovery bets per loss: %d\n", sim.RecoveryBetsAfterLoss)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		stdlog.Fatalf("Error: %v", err)
	}
}

// withService loads config, connects the database and feeds, runs fn, and
// tears everything down.
func withService(ctx context.Context, fn func(ctx context.Context, svc *service.AccumulatorService) error) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	feedLog := stdlog.New(os.Stdout, "datasource: ", stdlog.LstdFlags)
	feeds, err := datasource.NewFeeds(cfg, feedLog)
	if err != nil {
		return fmt.Errorf("failed to initialize data feeds: %w", err)
	}

	svc := service.NewAccumulatorService(
		repos, feeds.Odds, feeds.Prediction, cfg.Engine, analyzer.DefaultTunables(), appLog)

	return fn(ctx, svc)
}

// resolveDate parses the --date flag, defaulting to today at midnight UTC.
func resolveDate() (time.Time, error) {
	if dateFlag == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse("2006-01-02", dateFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", dateFlag, err)
	}
	return day, nil
}
