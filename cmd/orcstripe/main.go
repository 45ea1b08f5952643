// Command orcstripe decodes stripes of an ORC file into arrow records.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/patrickhuang888/orcarrow/orc"
)

var logger = log.New()

func newRootCommand() *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:           "orcstripe",
		Short:         "Decode ORC stripes into arrow records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			logger.SetLevel(l)
			orc.SetAllLogLevel(l)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&level, "log-level", "warn", "log level of the reader")

	cmd.AddCommand(dumpCommand())
	cmd.AddCommand(schemaCommand())
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Errorf("%+v", err)
		os.Exit(1)
	}
}
