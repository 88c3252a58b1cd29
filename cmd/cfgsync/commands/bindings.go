package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/logging"
	"github.com/thoreinstein/cfgsync/internal/paths"
	"github.com/thoreinstein/cfgsync/internal/schema"
	"github.com/thoreinstein/cfgsync/pkg/binding"
	"github.com/thoreinstein/cfgsync/pkg/coerce"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

var (
	bindingsSchema   string
	bindingsConfig   string
	bindingsMarkdown bool
)

func init() {
	addSchemaFlag(bindingsCmd, &bindingsSchema)
	bindingsCmd.Flags().StringVarP(&bindingsConfig, "file", "f", "",
		"also show the values a config file holds")
	bindingsCmd.Flags().BoolVar(&bindingsMarkdown, "markdown", false,
		"render the table as Markdown")
	rootCmd.AddCommand(bindingsCmd)
}

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "List the fields a schema declares",
	Long: `Print a table of the fields declared by a schema: the key or section
each one is bound to, its type, its default or seeds, and its comment.

With --file the values loaded from that config file are shown as well.
The file is read but never written.`,
	Example: `  # Show the bindings of the configured schema
  cfgsync bindings

  # Show bindings next to current values
  cfgsync bindings --schema shop.schema.yaml --file config.yaml

  # Paste into documentation
  cfgsync bindings --markdown

  See Also: cfgsync apply, cfgsync schema`,
	Args: cobra.NoArgs,
	RunE: runBindings,
}

func runBindings(cmd *cobra.Command, _ []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	file, err := loadSchema(bindingsSchema, cfg)
	if err != nil {
		return err
	}

	var rec *schema.Record
	if bindingsConfig != "" {
		if rec, err = loadValues(cmd, file); err != nil {
			return err
		}
	}
	return renderBindings(cmd.OutOrStdout(), file, rec, bindingsMarkdown)
}

// loadValues runs a load pass against a copy of the --file document.
func loadValues(cmd *cobra.Command, file *schema.File) (*schema.Record, error) {
	path, err := paths.Expand(bindingsConfig)
	if err != nil {
		return nil, errors.NewUserError(err, "Check the config path")
	}
	doc, err := store.Load(path)
	if err != nil {
		return nil, errors.NewUserError(err, "Check that the file exists and is valid YAML")
	}
	rec, set, err := schema.Build(file)
	if err != nil {
		return nil, errors.NewUserError(err, "Fix the schema file")
	}
	syncer := binding.NewSynchronizer(binding.WithLogger(logging.FromContext(cmd.Context())))
	if err := syncer.Load(doc, set); err != nil {
		return nil, errors.NewSystemError(err, "")
	}
	return rec, nil
}

func renderBindings(w io.Writer, file *schema.File, rec *schema.Record, markdown bool) error {
	if len(file.Fields)+len(file.Sections) == 0 {
		fmt.Fprintln(w, "The schema declares no fields")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{"FIELD", "BOUND TO", "TYPE", "DEFAULT", "COMMENT"}
	if rec != nil {
		header = append(header, "VALUE")
	}
	t.AppendHeader(header)

	for _, f := range file.Fields {
		row := table.Row{f.Field, f.Path, typeName(f.Type, coerce.Any), formatValue(f.Default), commentCell(f.Comment, f.Inline)}
		if rec != nil {
			v, _ := rec.Get(f.Field)
			row = append(row, formatValue(v))
		}
		t.AppendRow(row)
	}
	for _, s := range file.Sections {
		seeds := make([]string, 0, len(s.Seeds))
		for _, sd := range s.Seeds {
			seeds = append(seeds, sd.Key+"="+seedValue(sd))
		}
		row := table.Row{s.Field, s.Name + ".*", coerce.Section.String(), strings.Join(seeds, "\n"), commentCell(s.Comment, s.Inline)}
		if rec != nil {
			keys := 0
			if sec, ok := rec.Section(s.Field); ok {
				keys = len(sec.Keys(false))
			}
			row = append(row, fmt.Sprintf("%d keys", keys))
		}
		t.AppendRow(row)
	}

	if markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	return nil
}

func typeName(name string, fallback coerce.Kind) string {
	if name == "" {
		return fallback.String()
	}
	if k, err := coerce.ParseKind(name); err == nil {
		return k.String()
	}
	return name
}

func seedValue(sd schema.Seed) string {
	if strings.TrimSpace(sd.Value) == "" {
		return "[" + strings.Join(sd.Values, ", ") + "]"
	}
	return sd.Value
}

func commentCell(text string, inline bool) string {
	if text == "" {
		return ""
	}
	if inline {
		return "# " + text
	}
	return text
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	case []any:
		return "[" + strings.Join(cast.ToStringSlice(val), ", ") + "]"
	}
	return cast.ToString(v)
}
