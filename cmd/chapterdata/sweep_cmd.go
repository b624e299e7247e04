package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	rosterpersistence "github.com/greekops/chapterdata/modules/roster/infrastructure/persistence"
	rosterservices "github.com/greekops/chapterdata/modules/roster/services"
	"github.com/greekops/chapterdata/pkg/configuration"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove records whose retention window has lapsed",
	}
	cmd.AddCommand(newSweepExpiredCmd())
	return cmd
}

func newSweepExpiredCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "expired",
		Short: "Delete members whose removal grace period has expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List members that would be removed without deleting")
	return cmd
}

type sweepSummary struct {
	Command string       `json:"command"`
	Mode    string       `json:"mode"`
	Removed []sweptEntry `json:"removed"`
	Count   int          `json:"count"`
}

type sweptEntry struct {
	MemberNumber string    `json:"member_number"`
	FullName     string    `json:"full_name"`
	MarkedAt     time.Time `json:"marked_at"`
	Reason       string    `json:"reason"`
}

func runSweep(ctx context.Context, dryRun bool) error {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	pool, err := connectDB(ctx, conf)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()

	svc := rosterservices.NewSweepService(
		rosterpersistence.NewMemberRepository(pool),
		logger,
	)
	removed, err := svc.RemoveExpired(ctx, dryRun)
	if err != nil {
		return withCode(exitDB, err)
	}

	summary := sweepSummary{
		Command: "sweep expired",
		Mode:    "applied",
		Removed: make([]sweptEntry, 0, len(removed)),
		Count:   len(removed),
	}
	if dryRun {
		summary.Mode = "dry_run"
	}
	for _, m := range removed {
		entry := sweptEntry{
			MemberNumber: m.MemberNumber,
			FullName:     m.FullName(),
			Reason:       m.RemovalReason,
		}
		if m.MarkedForRemovalAt != nil {
			entry.MarkedAt = *m.MarkedForRemovalAt
		}
		summary.Removed = append(summary.Removed, entry)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
