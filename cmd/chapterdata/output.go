package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/greekops/chapterdata/pkg/importer"
)

type runSummary struct {
	Command string   `json:"command"`
	Mode    string   `json:"mode"`
	Format  string   `json:"format,omitempty"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  int      `json:"errors"`
	Preview []string `json:"error_preview,omitempty"`
}

func printSummary(command string, apply bool, result *importer.Result) error {
	mode := "dry_run"
	if apply {
		mode = "applied"
	}
	s := runSummary{
		Command: command,
		Mode:    mode,
		Format:  result.Format,
		Created: result.Created,
		Updated: result.Updated,
		Skipped: result.Skipped,
		Errors:  result.Errors,
		Preview: result.ErrorPreview(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return withCode(exitDB, fmt.Errorf("json encode: %w", err))
	}
	return nil
}
