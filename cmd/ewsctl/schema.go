package main

import (
	"strconv"

	"github.com/danmuck/ewsctl/internal/protocol/itemschema"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type propertyInfo struct {
	Key      string   `yaml:"key"`
	Element  string   `yaml:"element"`
	URI      string   `yaml:"uri,omitempty"`
	Since    string   `yaml:"since"`
	Flags    []string `yaml:"flags"`
	Nullable bool     `yaml:"nullable"`
	Internal bool     `yaml:"internal,omitempty"`
}

type schemaInfo struct {
	Object     string         `yaml:"object"`
	Version    string         `yaml:"version"`
	Properties []propertyInfo `yaml:"properties"`
}

func newSchemaCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema <item|appointment>",
		Short: "List the property definitions of an item schema",
		Example: `  ewsctl schema item
  ewsctl schema appointment --server-version Exchange2007_SP1 --output yaml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: schemaArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(format); err != nil {
				return err
			}
			reg, err := itemschema.ByName(args[0])
			if err != nil {
				return err
			}
			info := a.describe(reg)
			if format == outputYAML {
				return renderYAML(cmd.OutOrStdout(), info)
			}
			rows := make([]table.Row, 0, len(info.Properties))
			for _, p := range info.Properties {
				rows = append(rows, table.Row{
					p.Key,
					p.Element,
					p.URI,
					p.Since,
					joinOrDash(p.Flags),
					strconv.FormatBool(p.Nullable),
					strconv.FormatBool(p.Internal),
				})
			}
			renderTable(
				cmd.OutOrStdout(),
				table.Row{"Key", "Element", "URI", "Since", "Flags", "Nullable", "Internal"},
				rows,
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", outputTable, "output format (table|yaml)")
	return cmd
}

// describe reports flags as seen by a server speaking the configured version.
func (a *app) describe(reg *schema.Registry) schemaInfo {
	visible := make(map[schema.Definition]bool)
	for _, d := range reg.Definitions() {
		visible[d] = true
	}
	info := schemaInfo{Object: reg.ObjectName(), Version: a.cfg.Version.String()}
	for _, d := range reg.All() {
		key, _ := reg.KeyOf(d)
		var flags []string
		for _, f := range schema.EffectiveFlags(d, a.cfg.Version).Flags() {
			flags = append(flags, f.String())
		}
		info.Properties = append(info.Properties, propertyInfo{
			Key:      key,
			Element:  d.XMLElement(),
			URI:      schema.FieldURI(d, a.cfg.Version),
			Since:    d.Version().String(),
			Flags:    flags,
			Nullable: d.IsNullable(),
			Internal: !visible[d],
		})
	}
	return info
}
