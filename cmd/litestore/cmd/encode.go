package cmd

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jordanwade90/litestore/record"
	"github.com/jordanwade90/litestore/value"
	"github.com/spf13/cobra"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <json array>",
	Short: "Encode a JSON array as a record",
	Long: `Encode a JSON array as one record and print it in hex.
null, numbers and strings map to NULL, INTEGER or REAL, and TEXT.
The text encoding and file format come from the config.

Example:
  litestore encode '[null, 42, 3.5, "hi"]'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := encodeJSON([]byte(args[0]), cfg.RecordOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func encodeJSON(src []byte, opts record.Options) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	var cells []any
	if err := dec.Decode(&cells); err != nil {
		return "", fmt.Errorf("failed to parse JSON array: %w", err)
	}

	values := make([]value.Value, len(cells))
	for i, c := range cells {
		v, err := value.FromAny(c)
		if err != nil {
			return "", fmt.Errorf("cell %d: %w", i, err)
		}
		values[i] = v
	}
	b, err := record.Pack(values, opts)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}
