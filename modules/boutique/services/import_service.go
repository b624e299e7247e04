package services

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/greekops/chapterdata/modules/boutique/domain/product"
	"github.com/greekops/chapterdata/modules/boutique/infrastructure/images"
	"github.com/greekops/chapterdata/pkg/eventbus"
	"github.com/greekops/chapterdata/pkg/importer"
	"github.com/greekops/chapterdata/pkg/tabular"
)

type ProductImportService struct {
	repo      product.Repository
	publisher eventbus.EventBus
	log       *logrus.Logger
}

func NewProductImportService(repo product.Repository, publisher eventbus.EventBus, log *logrus.Logger) *ProductImportService {
	return &ProductImportService{repo: repo, publisher: publisher, log: log}
}

// ImportCatalog ingests a merchandise file in skip-duplicate mode. The
// resolver is optional; when nil, image columns are ignored. Image resolution
// failures are logged and never fail the product record.
func (s *ProductImportService) ImportCatalog(ctx context.Context, t *tabular.Table, resolver *images.Resolver, apply bool) (*importer.Result, error) {
	mapping, err := tabular.Detect(t.Headers, productFormats)
	if err != nil {
		return nil, err
	}
	storefront := mapping.Format.Name == storefrontExport.Name

	result := importer.NewResult()
	defer result.Finish()
	result.Format = mapping.Format.Name

	s.log.WithFields(logrus.Fields{
		"run_id": result.RunID,
		"format": mapping.Format.Name,
		"rows":   len(t.Rows),
		"apply":  apply,
	}).Info("product import started")

	seenHandles := make(map[string]struct{})
	seenNames := make(map[string]struct{})
	for _, row := range t.Rows {
		if storefront {
			// one row per variant; only the first row of a handle carries
			// the product
			handle := mapping.GetTrimmed(row, fieldHandle)
			if handle != "" {
				if _, dup := seenHandles[handle]; dup {
					result.AddSkipped()
					continue
				}
				seenHandles[handle] = struct{}{}
			}
		}

		p := s.buildProduct(mapping, row, storefront)
		if p.Name == "" {
			result.AddSkipped()
			continue
		}
		if _, dup := seenNames[p.Name]; dup {
			result.AddSkipped()
			continue
		}
		seenNames[p.Name] = struct{}{}

		if _, err := s.repo.GetByName(ctx, p.Name); err == nil {
			result.AddSkipped()
			continue
		} else if !errors.Is(err, product.ErrNotFound) {
			result.AddError(row.Line, err)
			continue
		}

		if !apply {
			result.AddCreated()
			continue
		}
		// dry runs never fetch or store image files
		if resolver != nil {
			s.resolveImage(ctx, resolver, mapping, row, p)
		}
		if err := s.repo.Create(ctx, p); err != nil {
			result.AddError(row.Line, err)
			continue
		}
		result.AddCreated()
		s.publisher.Publish(&product.CreatedEvent{Product: p})
	}

	s.log.WithField("run_id", result.RunID).Info(result.Summary())
	return result, nil
}

func (s *ProductImportService) buildProduct(mapping *tabular.Mapping, row tabular.Row, storefront bool) *product.Product {
	p := &product.Product{
		ID:        uuid.New(),
		Price:     tabular.ParseMoney(mapping.Get(row, fieldPrice)),
		Inventory: tabular.ParseCount(mapping.Get(row, fieldInventory)),
		IsActive:  true,
	}
	if storefront {
		p.Name = mapping.GetTrimmed(row, fieldTitle)
		p.Category = product.CategoryFromProductType(mapping.GetTrimmed(row, fieldProductType))
		p.Description = textFromHTML(mapping.Get(row, fieldBodyHTML))
		p.Sizes = mapping.OptionValue(row, "size")
		p.Colors = mapping.OptionValue(row, "color")
		return p
	}
	p.Name = mapping.GetTrimmed(row, fieldName)
	p.Category = product.ParseCategory(mapping.Get(row, fieldCategory))
	p.Description = mapping.GetTrimmed(row, fieldDescription)
	p.Sizes = mapping.GetTrimmed(row, fieldSizes)
	p.Colors = mapping.GetTrimmed(row, fieldColors)
	return p
}

func (s *ProductImportService) resolveImage(ctx context.Context, resolver *images.Resolver, mapping *tabular.Mapping, row tabular.Row, p *product.Product) {
	imagePath := mapping.GetTrimmed(row, fieldImagePath)
	imageURL := mapping.GetTrimmed(row, fieldImageURL)

	var (
		stored string
		err    error
	)
	switch {
	case imagePath != "":
		stored, err = resolver.FromArchive(imagePath)
	case imageURL != "":
		stored, err = resolver.FromURL(ctx, imageURL)
	default:
		return
	}
	if err != nil {
		// the product is created imageless; this is never a row error
		s.log.WithFields(logrus.Fields{
			"product": p.Name,
			"row":     row.Line,
		}).WithError(err).Warn("image resolution failed")
		return
	}
	p.ImagePath = stored
}

// textFromHTML extracts plain text from a storefront body (HTML) column.
// Unparseable markup falls back to the raw value.
func textFromHTML(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || !strings.Contains(v, "<") {
		return v
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(v))
	if err != nil {
		return v
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}
