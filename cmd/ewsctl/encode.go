package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/itemschema"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// propertyValue is one key of a values file, in file order.
type propertyValue struct {
	key  string
	text string
}

func newEncodeCmd(a *app) *cobra.Command {
	var (
		valuesPath string
		update     bool
	)
	cmd := &cobra.Command{
		Use:   "encode <item|appointment> --values values.toml",
		Short: "Write property values as create or update XML",
		Long: `encode reads a flat TOML file of property keys and values, stores them in
a new object and writes the object element a create request carries. With
--update the object counts as saved and the output lists SetItemField and
DeleteItemField change descriptions instead. An empty string deletes the
property on update.`,
		Example: `  ewsctl encode appointment --values meeting.toml
  ewsctl encode item --values changes.toml --update --server-version Exchange2010`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: schemaArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := itemschema.ByName(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			return a.encode(cmd.OutOrStdout(), reg, values, update)
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "TOML file of property values")
	cmd.Flags().BoolVar(&update, "update", false, "write update change descriptions")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func (a *app) encode(out io.Writer, reg *schema.Registry, values []propertyValue, update bool) error {
	bag := schema.NewBag(reg, a.cfg.Version)
	if update {
		bag.ClearChanges()
	}
	for _, pv := range values {
		d, ok := reg.Lookup(pv.key)
		if !ok {
			return fmt.Errorf("%s has no property %q", reg.ObjectName(), pv.key)
		}
		if err := a.store(bag, d, pv, update); err != nil {
			if a.cfg.OmitUnsupported && protocol.KindOf(err) == protocol.KindVersion {
				log.Warn().Err(err).Str("property", pv.key).Msg("omitting unsupported property")
				continue
			}
			return err
		}
	}

	w := a.newWriter(out)
	if update {
		if err := w.StartElement("Updates", w.NamespaceDecl(xmlwire.TypesNamespace)); err != nil {
			return err
		}
		if err := bag.WriteUpdatesToXML(w); err != nil {
			return err
		}
		if err := w.EndElement(); err != nil {
			return err
		}
	} else if err := bag.WriteToXML(w, w.NamespaceDecl(xmlwire.TypesNamespace)); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out)
	return err
}

func (a *app) store(bag *schema.Bag, d schema.Definition, pv propertyValue, update bool) error {
	if update && pv.text == "" {
		return bag.Delete(d)
	}
	codec, ok := d.(schema.TextCodec)
	if !ok {
		return fmt.Errorf("property %s cannot be given as text", pv.key)
	}
	value, err := codec.ParseText(pv.text)
	if err != nil {
		return err
	}
	return bag.Set(d, value)
}

// readValues decodes a flat TOML table. Arrays become comma separated lists;
// nested tables are rejected.
func readValues(path string) ([]propertyValue, error) {
	var raw map[string]any
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load values: %w", err)
	}
	out := make([]propertyValue, 0, len(raw))
	for _, key := range meta.Keys() {
		if len(key) != 1 {
			return nil, fmt.Errorf("values: nested key %s", key)
		}
		text, err := valueText(raw[key[0]])
		if err != nil {
			return nil, fmt.Errorf("values: %s: %w", key, err)
		}
		out = append(out, propertyValue{key: key[0], text: text})
	}
	return out, nil
}

func valueText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case time.Time:
		return t.Format(time.RFC3339), nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			text, err := valueText(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, text)
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
