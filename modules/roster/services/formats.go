package services

import "github.com/greekops/chapterdata/pkg/tabular"

// Canonical fields for roster imports.
const (
	fieldMemberNumber   = "member_number"
	fieldFirstName      = "first_name"
	fieldLastName       = "last_name"
	fieldEmail          = "email"
	fieldPhone          = "phone"
	fieldStatus         = "status"
	fieldInitiationDate = "initiation_date"
	fieldLineName       = "line_name"
	fieldLineNumber     = "line_number"
	fieldAddress        = "address"
	fieldNameAndAddress = "name_and_address"

	fieldFullName     = "full_name"
	fieldPosition     = "position"
	fieldBio          = "bio"
	fieldDisplayOrder = "display_order"
	fieldTermStart    = "term_start"
	fieldTermEnd      = "term_end"
)

// hqVariantA is the HQ roster export with dedicated name columns and an
// explicitly-dated initiation column.
var hqVariantA = &tabular.Format{
	Name:     "hq-export-variant-a",
	Required: []string{fieldMemberNumber, fieldFirstName, fieldLastName},
	Aliases: map[string][]string{
		fieldMemberNumber:   {"member_number", "member#", "member number"},
		fieldFirstName:      {"first_name", "first name", "firstname"},
		fieldLastName:       {"last_name", "last name", "lastname"},
		fieldEmail:          {"email", "email address", "e-mail"},
		fieldPhone:          {"phone", "phone number", "telephone"},
		fieldStatus:         {"status", "member status"},
		fieldInitiationDate: {"initiation_date", "initiation date", "initiated"},
		fieldLineName:       {"line_name", "line name"},
		fieldLineNumber:     {"line_number", "line number", "line#"},
		fieldAddress:        {"address", "mailing address"},
	},
}

// hqVariantB is the older HQ export: the member number column is MAJOR_KEY
// and name plus postal address share one free-text block.
var hqVariantB = &tabular.Format{
	Name:     "hq-export-variant-b",
	Required: []string{fieldMemberNumber, fieldNameAndAddress},
	Aliases: map[string][]string{
		fieldMemberNumber:   {"major_key"},
		fieldNameAndAddress: {"name_and_address", "name and address", "name/address"},
		fieldEmail:          {"email", "email address"},
		fieldPhone:          {"phone", "phone number"},
	},
}

var memberFormats = []*tabular.Format{hqVariantA, hqVariantB}

// hqMemberList accepts any file carrying member numbers, for the sync
// cross-check: only the identifier column matters.
var hqMemberList = &tabular.Format{
	Name:     "hq-member-list",
	Required: []string{fieldMemberNumber},
	Aliases: map[string][]string{
		fieldMemberNumber: {"member#", "member_number", "member number", "major_key"},
	},
}

var syncFormats = []*tabular.Format{hqMemberList}

var officerRoster = &tabular.Format{
	Name:     "officer-roster",
	Required: []string{fieldFullName, fieldPosition},
	Aliases: map[string][]string{
		fieldFullName:     {"full_name", "full name", "name"},
		fieldPosition:     {"position", "title", "office"},
		fieldEmail:        {"email", "email address"},
		fieldPhone:        {"phone", "phone number"},
		fieldBio:          {"bio", "biography"},
		fieldDisplayOrder: {"display_order", "display order", "order"},
		fieldTermStart:    {"term_start", "term start"},
		fieldTermEnd:      {"term_end", "term end"},
	},
}

var officerFormats = []*tabular.Format{officerRoster}
