package main

import (
	"fmt"

	"github.com/danmuck/ewsctl/internal/config"
	"github.com/spf13/cobra"
)

func newTemplateCmd() *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:       "template <client|values>",
		Short:     "Print or write a starter client config or values file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"client", "values"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				text, err := config.Template(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			if err := config.WriteTemplate(path, args[0], force); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s template to %s\n", args[0], path)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "write", "", "write to this path instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
