package services

import "github.com/greekops/chapterdata/pkg/tabular"

// Canonical fields for merchandise imports.
const (
	fieldName        = "name"
	fieldCategory    = "category"
	fieldPrice       = "price"
	fieldDescription = "description"
	fieldInventory   = "inventory"
	fieldSizes       = "sizes"
	fieldColors      = "colors"
	fieldImagePath   = "image_path"
	fieldImageURL    = "image_url"

	fieldHandle      = "handle"
	fieldTitle       = "title"
	fieldBodyHTML    = "body_html"
	fieldProductType = "product_type"
)

// storefrontExport is the third-party storefront's product export: one row
// per variant, grouped by handle, with size/color carried in numbered option
// slots.
var storefrontExport = &tabular.Format{
	Name:     "storefront-export",
	Required: []string{fieldHandle, fieldTitle},
	Aliases: map[string][]string{
		fieldHandle:      {"handle"},
		fieldTitle:       {"title"},
		fieldBodyHTML:    {"body (html)", "body_html", "body"},
		fieldProductType: {"type", "product type", "product_type"},
		fieldPrice:       {"variant price", "variant_price"},
		fieldInventory:   {"variant inventory qty", "variant_inventory_qty"},
		fieldImageURL:    {"image src", "image_src"},
		"option1_name":   {"option1 name", "option1_name"},
		"option1_value":  {"option1 value", "option1_value"},
		"option2_name":   {"option2 name", "option2_name"},
		"option2_value":  {"option2 value", "option2_value"},
		"option3_name":   {"option3 name", "option3_name"},
		"option3_value":  {"option3 value", "option3_value"},
	},
}

// genericCatalog is the spreadsheet template handed to chapter officers.
var genericCatalog = &tabular.Format{
	Name:     "generic",
	Required: []string{fieldName, fieldCategory, fieldPrice},
	Aliases: map[string][]string{
		fieldName:        {"name", "product name", "product_name"},
		fieldCategory:    {"category"},
		fieldPrice:       {"price"},
		fieldDescription: {"description"},
		fieldInventory:   {"inventory", "quantity", "qty"},
		fieldSizes:       {"sizes"},
		fieldColors:      {"colors"},
		fieldImagePath:   {"image_path", "image path", "image file"},
		fieldImageURL:    {"image_url", "image url"},
	},
}

// storefront detection runs first so an export carrying both schemes' columns
// never falls through to the generic template.
var productFormats = []*tabular.Format{storefrontExport, genericCatalog}
