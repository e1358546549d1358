package main

import (
	"io"

	"github.com/danmuck/ewsctl/internal/config"
	"github.com/danmuck/ewsctl/internal/logging"
	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/itemschema"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds state shared by subcommands once the root pre-run resolved it.
type app struct {
	configPath    string
	serverVersion string
	cfg           config.ClientConfig
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.DefaultClientConfig()}
	root := &cobra.Command{
		Use:   "ewsctl",
		Short: "Inspect and marshal Exchange Web Services item properties",
		Long: `ewsctl lists the property schemas of EWS items and converts between
TOML property values and the XML the server exchanges.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "client config file (TOML)")
	root.PersistentFlags().StringVar(&a.serverVersion, "server-version", "", "server version, overrides the config file")
	_ = root.RegisterFlagCompletionFunc("server-version", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return versionNames(), cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newSchemaCmd(a))
	root.AddCommand(newEncodeCmd(a))
	root.AddCommand(newDecodeCmd(a))
	root.AddCommand(newTemplateCmd())
	return root
}

func (a *app) load() error {
	if a.configPath != "" {
		cfg, err := config.LoadClientConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.serverVersion != "" {
		v, err := protocol.ParseVersion(a.serverVersion)
		if err != nil {
			return err
		}
		a.cfg.Version = v
	}
	logging.ConfigureLevel(logging.ProfileRuntime, a.cfg.LogLevel.String())
	log.Debug().
		Str("version", a.cfg.Version.String()).
		Str("config", a.configPath).
		Msg("client config resolved")
	return nil
}

func (a *app) newWriter(out io.Writer) *xmlwire.Writer {
	opts := []xmlwire.WriterOption{xmlwire.WithPrefix(a.cfg.XMLPrefix)}
	if a.cfg.Indent != "" {
		opts = append(opts, xmlwire.WithIndent("", a.cfg.Indent))
	}
	return xmlwire.NewWriter(out, opts...)
}

func (a *app) newBag(reg *schema.Registry) *schema.Bag {
	var opts []schema.BagOption
	if a.cfg.OmitUnsupported {
		opts = append(opts, schema.WithVersionOmission())
	}
	return schema.NewBag(reg, a.cfg.Version, opts...)
}

func schemaArg(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return itemschema.Names(), cobra.ShellCompDirectiveNoFileComp
}

func versionNames() []string {
	out := make([]string, 0, int(protocol.Latest))
	for v := protocol.Exchange2007SP1; v <= protocol.Latest; v++ {
		out = append(out, v.String())
	}
	return out
}
