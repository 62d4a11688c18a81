package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// transferData copies every match, pending or not, keeping ids and the
// confirmation order so the ratings rebuild the same on the other side.
func transferData(input, output Ledger) error {
	Debug("transfering data")
	matches, err := input.getMatches()
	if err != nil {
		return err
	}

	Debugf("Got %d matches", len(matches))
	return errors.Wrap(output.importMatches(matches), "unable to transfer matches")
}

func newTransferCmd(cfg *Config) *cobra.Command {
	var to, output string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Copy the match history into another database",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openDatabase(cfg.Database, cfg.Filename, ledgerOptions{})
			if err != nil {
				return err
			}
			defer in.Close()

			out, err := openDatabase(to, output, ledgerOptions{})
			if err != nil {
				return err
			}
			defer out.Close()

			return transferData(in, out)
		},
	}

	cmd.Flags().StringVar(&to, "to", "boltdb", "[sqlite, boltdb] database to transfer to")
	cmd.Flags().StringVar(&output, "output", "database.db", "filename for transfer to")

	return cmd
}
