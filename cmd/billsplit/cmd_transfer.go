package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/codec"
)

var (
	exportFormat string
	exportOutput string
	importFormat string
)

// exportCmd writes a ledger record to stdout or a file
var exportCmd = &cobra.Command{
	Use:   "export <ledger>",
	Short: "Export a ledger as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := exportFormatFor(cmd)
		if err != nil {
			return err
		}

		sess, err := svc.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			return codec.Encode(cmd.OutOrStdout(), sess.Snapshot(), format)
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		if err := codec.Encode(f, sess.Snapshot(), format); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported ledger %s to %s\n", sess.ID(), exportOutput)
		return nil
	},
}

// exportFormatFor picks --format, then the output extension, then the config default.
func exportFormatFor(cmd *cobra.Command) (codec.Format, error) {
	if cmd.Flags().Changed("format") {
		return codec.ParseFormat(exportFormat)
	}
	if exportOutput != "" && exportOutput != "-" {
		return codec.FormatFromPath(exportOutput), nil
	}
	return codec.ParseFormat(cfg.ExportFormat)
}

// importCmd stores a ledger record from a file as a new ledger
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a ledger from a JSON or YAML file",
	Long: `Import a ledger record as a new ledger. The record's ID, shares and
summary are ignored; everything derived is recomputed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := codec.FormatFromPath(args[0])
		if cmd.Flags().Changed("format") {
			var err error
			if format, err = codec.ParseFormat(importFormat); err != nil {
				return err
			}
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		rec, err := codec.Decode(f, format)
		if err != nil {
			return err
		}
		sess, err := svc.Import(cmd.Context(), rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported ledger %s\n\n", sess.ID())
		printSummary(cmd, sess)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "json or yaml (defaults to the output extension, then the config)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file to write instead of stdout")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "json or yaml (defaults to the file extension)")
}
