package main

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/seat-rotation/internal/application"
	"github.com/example/seat-rotation/internal/config"
	"github.com/example/seat-rotation/internal/persistence/sqlite"
)

func newPlanCmd(newLogger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <group-id>",
		Short: "Compute the next arrangement for a group without committing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				logger.Error("failed to load configuration", "error", err)
				return err
			}

			pool, err := sqlite.Open(cfg.SQLiteDSN)
			if err != nil {
				logger.Error("failed to open database", "error", err)
				return err
			}
			defer func() {
				_ = pool.Close()
			}()

			if err := pool.Migrate(cmd.Context()); err != nil {
				logger.Error("failed to apply migrations", "error", err)
				return err
			}

			rotationService := application.NewRotationService(
				sqlite.NewGroupRepository(pool),
				sqlite.NewMemberRepository(pool),
				sqlite.NewArrangementRepository(pool),
				sqlite.NewCalendarRepository(pool),
				time.Now, logger, 0,
			)

			plan, err := rotationService.PlanRotation(cmd.Context(), args[0])
			if err != nil {
				logger.Error("failed to compute plan", "error", err, "group_id", args[0])
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(toPlanOutput(plan))
		},
	}
}

type planOutput struct {
	GroupID   string              `json:"group_id"`
	Date      string              `json:"date"`
	Seats     map[string]string   `json:"seats"`
	Reasoning string              `json:"reasoning"`
	Warnings  []planWarningOutput `json:"warnings,omitempty"`
}

type planWarningOutput struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func toPlanOutput(plan application.RotationPlan) planOutput {
	out := planOutput{
		GroupID:   plan.GroupID,
		Date:      plan.Date,
		Seats:     plan.Seats,
		Reasoning: plan.Reasoning,
	}
	for _, warning := range plan.Warnings {
		out.Warnings = append(out.Warnings, planWarningOutput{
			Field:   warning.Field,
			Value:   warning.Value,
			Message: warning.Message,
		})
	}
	return out
}
