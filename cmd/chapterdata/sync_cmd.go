package main

import (
	"context"

	"github.com/spf13/cobra"

	rosterpersistence "github.com/greekops/chapterdata/modules/roster/infrastructure/persistence"
	rosterservices "github.com/greekops/chapterdata/modules/roster/services"
	"github.com/greekops/chapterdata/pkg/configuration"
	"github.com/greekops/chapterdata/pkg/eventbus"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile local data against an external source of truth",
	}
	cmd.AddCommand(newSyncMembersCmd())
	return cmd
}

func newSyncMembersCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Reconcile the local roster against a current HQ member list",
		Long: "Members absent from the HQ list are marked for removal and their dues " +
			"status recomputed. Members present on the list have any removal mark cleared. " +
			"Life members, new members and suspended members are never marked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "HQ member list CSV/XLSX (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply changes to DB (default is dry-run)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSync(ctx context.Context, opts importOptions) error {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	t, err := openInput(conf, opts.file)
	if err != nil {
		return err
	}

	pool, err := connectDB(ctx, conf)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()

	svc := rosterservices.NewMemberSyncService(
		rosterpersistence.NewMemberRepository(pool),
		eventbus.NewEventPublisher(logger),
		logger,
	)
	result, err := svc.SyncWithHQ(ctx, t, opts.apply)
	if err != nil {
		return withCode(exitValidation, err)
	}
	return printSummary("sync members", opts.apply, result)
}
