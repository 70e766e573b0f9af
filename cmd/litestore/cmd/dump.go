package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/jordanwade90/litestore"
	"github.com/jordanwade90/litestore/value"
	"github.com/spf13/cobra"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file> [table]",
	Short: "Dump the schema or a table of a database file",
	Long: `Dump a SQLite database file as JSON lines.
Without a table name, print the sqlite_schema rows.
With one, print every row of that table with its rowid.

Example:
  litestore dump data.db
  litestore dump data.db users`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer f.Close()

		table := ""
		if len(args) == 2 {
			table = args[1]
		}
		return dump(cmd.OutOrStdout(), f, table)
	},
}

type dumpedRow struct {
	Rowid  int64         `json:"rowid"`
	Values []value.Value `json:"values"`
}

func dump(w io.Writer, file io.ReaderAt, table string) error {
	r, err := litestore.OpenReader(file, litestore.WithConfig(cfg), litestore.WithLogger(logger))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)

	if table == "" {
		entries, err := r.Schema()
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil
	}

	c, err := r.Table(table)
	if err != nil {
		return err
	}
	ok, err := c.First()
	for ; ok && err == nil; ok, err = c.Next() {
		row, err := c.Row()
		if err != nil {
			return err
		}
		values, err := row.Values()
		if err != nil {
			return err
		}
		if err := enc.Encode(dumpedRow{Rowid: c.Rowid(), Values: values}); err != nil {
			return err
		}
	}
	return err
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
