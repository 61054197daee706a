package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSheetsCommand(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sheets FILE",
		Short: "List the sheets of a workbook with their canonical columns",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(*cobra.Command, []string) error {
			return validateOutput(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadFile(cmd.Context(), root, args[0])
			if err != nil {
				return err
			}
			infos, err := svc.Sheets(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, infos, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "SHEET\tROWS\tCOLUMNS")
				for _, info := range infos {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name, info.Rows, strings.Join(info.Columns, ", "))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}
