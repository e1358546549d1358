package main

import (
	"fmt"
	"os"

	"github.com/danmuck/ewsctl/internal/protocol/itemschema"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type decodedValue struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

func newDecodeCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "decode <item|appointment> <file.xml>",
		Short: "Read an object element and print its property values",
		Long: `decode finds the first object element of the schema in the file, for
example the CalendarItem inside a GetItem response, and loads it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(format); err != nil {
				return err
			}
			reg, err := itemschema.ByName(args[0])
			if err != nil {
				return err
			}
			values, err := a.decodeFile(reg, args[1])
			if err != nil {
				return err
			}
			if format == outputYAML {
				return renderYAML(cmd.OutOrStdout(), values)
			}
			rows := make([]table.Row, 0, len(values))
			for _, v := range values {
				rows = append(rows, table.Row{v.Key, v.Value})
			}
			renderTable(cmd.OutOrStdout(), table.Row{"Property", "Value"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", outputTable, "output format (table|yaml)")
	return cmd
}

func (a *app) decodeFile(reg *schema.Registry, path string) ([]decodedValue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := xmlwire.NewReader(f)
	if err := seekElement(r, reg.ObjectName()); err != nil {
		return nil, err
	}
	bag := a.newBag(reg)
	if err := bag.Load(r); err != nil {
		return nil, err
	}

	out := make([]decodedValue, 0, reg.Len())
	for _, d := range reg.All() {
		if alias, ok := d.(schema.Aliased); ok {
			if _, ok := alias.AliasOf(bag.Version()); ok {
				continue
			}
		}
		value, ok := bag.Get(d)
		if !ok {
			continue
		}
		key, _ := reg.KeyOf(d)
		text, err := formatValue(d, value)
		if err != nil {
			return nil, err
		}
		out = append(out, decodedValue{Key: key, Value: text})
	}
	return out, nil
}

// seekElement advances r to the first element named local at any depth.
func seekElement(r *xmlwire.Reader, local string) error {
	for {
		start, err := r.ReadStartElement()
		if err != nil {
			return fmt.Errorf("find %s element: %w", local, err)
		}
		if start.Name.Local == local {
			return nil
		}
	}
}

func formatValue(d schema.Definition, value any) (string, error) {
	if value == nil {
		return "", nil
	}
	if codec, ok := d.(schema.TextCodec); ok {
		return codec.FormatText(value)
	}
	return fmt.Sprint(value), nil
}
