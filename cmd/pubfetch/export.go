// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubfetch/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the CSV download file from a saved result",
	Long: `Export reads a result file written by "fetch --save" and writes the CSV
download file without querying the upstream APIs again. The file is named
after the ORCID iD, for example 0000-0002-1825-0097_publications_list.csv.
Use --out - to print the CSV instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		outDir, _ := cmd.Flags().GetString("out-dir")
		out, _ := cmd.Flags().GetString("out")
		if from == "" {
			return fmt.Errorf("--from is required")
		}

		rf, err := export.ReadResultFile(from)
		if err != nil {
			return err
		}

		if out == "-" {
			data, err := export.CSV(rf.Records)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		path, err := writeCSVFile(outDir, rf.ORCID, rf.Records)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", len(rf.Records), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("from", "", "result file written by fetch --save")
	exportCmd.Flags().String("out-dir", ".", "directory for the CSV file")
	exportCmd.Flags().String("out", "", "write to stdout when set to -")

	rootCmd.AddCommand(exportCmd)
}
