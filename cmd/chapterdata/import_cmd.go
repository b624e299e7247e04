package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greekops/chapterdata/modules/boutique/infrastructure/images"
	boutiquepersistence "github.com/greekops/chapterdata/modules/boutique/infrastructure/persistence"
	boutiqueservices "github.com/greekops/chapterdata/modules/boutique/services"
	rosterpersistence "github.com/greekops/chapterdata/modules/roster/infrastructure/persistence"
	rosterservices "github.com/greekops/chapterdata/modules/roster/services"
	"github.com/greekops/chapterdata/pkg/configuration"
	"github.com/greekops/chapterdata/pkg/eventbus"
	"github.com/greekops/chapterdata/pkg/tabular"
)

type importOptions struct {
	file      string
	imagesZip string
	apply     bool
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import roster or boutique data from a CSV/XLSX file",
	}
	cmd.AddCommand(newImportProductsCmd())
	cmd.AddCommand(newImportMembersCmd())
	cmd.AddCommand(newImportOfficersCmd())
	return cmd
}

func newImportProductsCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Import merchandise products (generic or storefront export)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportProducts(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "Input CSV/XLSX file (required)")
	cmd.Flags().StringVar(&opts.imagesZip, "images", "", "Optional ZIP of product images keyed by filename")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply changes to DB (default is dry-run)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newImportMembersCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Import members from an HQ roster export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportMembers(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "Input CSV/XLSX file (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply changes to DB (default is dry-run)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newImportOfficersCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "officers",
		Short: "Import chapter leadership from a roster file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportOfficers(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "Input CSV/XLSX file (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply changes to DB (default is dry-run)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func openInput(conf *configuration.Configuration, path string) (*tabular.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	if info.Size() > conf.Import.MaxUploadSize {
		return nil, withCode(exitValidation,
			fmt.Errorf("%s exceeds the %d byte upload limit", path, conf.Import.MaxUploadSize))
	}
	t, err := tabular.Open(path)
	if err != nil {
		return nil, withCode(exitValidation, fmt.Errorf("%s: %w", path, err))
	}
	return t, nil
}

func runImportProducts(ctx context.Context, opts importOptions) error {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	t, err := openInput(conf, opts.file)
	if err != nil {
		return err
	}

	resolver := images.NewResolver(conf.UploadsPath, conf.Import.ImageFetchTimeout)
	if opts.imagesZip != "" {
		if !strings.EqualFold(filepath.Ext(opts.imagesZip), ".zip") {
			return withCode(exitUsage, fmt.Errorf("--images must be a ZIP file"))
		}
		info, err := os.Stat(opts.imagesZip)
		if err != nil {
			return withCode(exitUsage, err)
		}
		if info.Size() > conf.Import.MaxImagesSize {
			return withCode(exitValidation,
				fmt.Errorf("%s exceeds the %d byte archive limit", opts.imagesZip, conf.Import.MaxImagesSize))
		}
		if err := resolver.LoadArchive(opts.imagesZip); err != nil {
			return withCode(exitValidation, err)
		}
	}

	pool, err := connectDB(ctx, conf)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()

	svc := boutiqueservices.NewProductImportService(
		boutiquepersistence.NewProductRepository(pool),
		eventbus.NewEventPublisher(logger),
		logger,
	)
	result, err := svc.ImportCatalog(ctx, t, resolver, opts.apply)
	if err != nil {
		return withCode(exitValidation, err)
	}
	return printSummary("import products", opts.apply, result)
}

func runImportMembers(ctx context.Context, opts importOptions) error {
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

	svc := rosterservices.NewMemberImportService(
		rosterpersistence.NewMemberRepository(pool),
		eventbus.NewEventPublisher(logger),
		logger,
	)
	result, err := svc.ImportRoster(ctx, t, opts.apply)
	if err != nil {
		return withCode(exitValidation, err)
	}
	return printSummary("import members", opts.apply, result)
}

func runImportOfficers(ctx context.Context, opts importOptions) error {
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

	svc := rosterservices.NewOfficerImportService(
		rosterpersistence.NewOfficerRepository(pool),
		eventbus.NewEventPublisher(logger),
		logger,
	)
	result, err := svc.ImportOfficers(ctx, t, opts.apply)
	if err != nil {
		return withCode(exitValidation, err)
	}
	return printSummary("import officers", opts.apply, result)
}
