package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jordanwade90/litestore/record"
	"github.com/jordanwade90/litestore/value"
	"github.com/spf13/cobra"
)

type decodedCell struct {
	SerialType uint32      `json:"serial_type"`
	Type       string      `json:"type"`
	Value      value.Value `json:"value"`
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode a hex record",
	Long: `Decode one record given in hex and print its cells as a JSON array.

Example:
  litestore decode 05000107112a400c0000000000006869`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := decodeHex(args[0], cfg.RecordOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func decodeHex(src string, opts record.Options) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hex: %w", err)
	}

	row, err := record.Unpack(record.Bytes(b), opts)
	if err != nil {
		return nil, err
	}
	cells := make([]decodedCell, row.Len())
	for i := range cells {
		v, err := row.Column(i)
		if err != nil {
			return nil, err
		}
		cells[i] = decodedCell{SerialType: row.SerialType(i), Type: v.Type().String(), Value: v}
	}
	return json.Marshal(cells)
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
