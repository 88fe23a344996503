package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oleamind/cropplanner/internal/api"
	"github.com/oleamind/cropplanner/internal/api/userstore"
	"github.com/oleamind/cropplanner/internal/config"
	"github.com/oleamind/cropplanner/internal/engine"
	"github.com/oleamind/cropplanner/internal/logging"
	"github.com/oleamind/cropplanner/internal/sources/postgres"
	"github.com/oleamind/cropplanner/models"
)

// snapshot is the single-document input format accepted by the plan/adjust
// subcommands: everything a ProblemInstance needs, plus the current plan
// and pending moves for adjust.
type snapshot struct {
	Fields      []models.Field           `json:"fields"`
	Profiles    []models.CropProfile     `json:"profiles"`
	Weather     models.WeatherSeries     `json:"weather"`
	Rules       []models.InteractionRule `json:"interaction_rules"`
	WindowStart models.DateOnly          `json:"window_start"`
	WindowEnd   models.DateOnly          `json:"window_end"`
	CurrentPlan models.Plan              `json:"current_plan"`
	Moves       []models.MoveInstruction `json:"moves"`
}

func (s snapshot) instance() engine.ProblemInstance {
	return engine.ProblemInstance{
		Fields: s.Fields, Profiles: s.Profiles, Weather: s.Weather, Rules: s.Rules,
		WindowStart: s.WindowStart, WindowEnd: s.WindowEnd,
	}
}

func readSnapshot(path string) (snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot{}, fmt.Errorf("read input: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot{}, fmt.Errorf("parse input: %w", err)
	}
	return snap, nil
}

func main() {
	logging.New(logging.FormatJSON, slog.LevelInfo)

	var configPath, inputPath string

	root := &cobra.Command{
		Use:   "cropplanner",
		Short: "Multi-field, multi-crop cultivation planning engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Run optimize_allocation over a snapshot file and print the resulting plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			snap, err := readSnapshot(inputPath)
			if err != nil {
				return err
			}
			plan, err := engine.OptimizeAllocation(context.Background(), snap.instance(), cfg.Algorithm)
			if err != nil {
				return err
			}
			return printJSON(plan)
		},
	}
	planCmd.Flags().StringVar(&inputPath, "input", "", "path to a JSON snapshot file")
	_ = planCmd.MarkFlagRequired("input")

	adjustCmd := &cobra.Command{
		Use:   "adjust",
		Short: "Apply move/remove/add directives from a snapshot file against its current plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			snap, err := readSnapshot(inputPath)
			if err != nil {
				return err
			}
			result, err := engine.AdjustAllocation(context.Background(), snap.CurrentPlan, snap.Moves, snap.instance(), cfg.Algorithm)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	adjustCmd.Flags().StringVar(&inputPath, "input", "", "path to a JSON snapshot file")
	_ = adjustCmd.MarkFlagRequired("input")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP planning API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Server.PostgresDSN == "" {
				return fmt.Errorf("serve: postgres_dsn must be set (config file or CROPPLANNER_POSTGRES_DSN)")
			}
			db, err := postgres.Open(cfg.Server.PostgresDSN)
			if err != nil {
				return err
			}
			users := userstore.New(db)
			if err := users.Migrate(); err != nil {
				return err
			}
			router := api.NewRouter(api.Options{
				JWTSecret:     cfg.Server.JWTSecret,
				AllowedOrigin: cfg.Server.AllowedOrigin,
				Users:         users,
			})
			slog.Info("starting planning API", "port", cfg.Server.Port)
			return router.Run(":" + cfg.Server.Port)
		},
	}

	root.AddCommand(planCmd, adjustCmd, serveCmd)
	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
