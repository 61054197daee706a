package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xlsdash/internal/export"
	"xlsdash/internal/services"
)

type exportFlags struct {
	sheet    string
	city     string
	cityType string
	format   string
	out      string
}

func newExportCommand(root *rootOptions) *cobra.Command {
	f := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the filtered rows of a sheet as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.NormalizeFormat(f.format)
			if err != nil {
				return err
			}
			svc, err := loadFile(cmd.Context(), root, args[0])
			if err != nil {
				return err
			}
			res, err := svc.Export(cmd.Context(), services.Query{
				Sheet:    f.sheet,
				City:     f.city,
				CityType: f.cityType,
			}, format)
			if err != nil {
				return err
			}

			if f.out == "-" {
				_, err = cmd.OutOrStdout().Write(res.Data)
				return err
			}
			path := f.out
			if path == "" {
				path = res.Filename
			}
			if err := os.WriteFile(path, res.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", res.Rows, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.sheet, "sheet", "", "sheet name (default first sheet)")
	cmd.Flags().StringVar(&f.city, "city", "", "only rows for this city")
	cmd.Flags().StringVar(&f.cityType, "city-type", "", "only rows for this city type")
	cmd.Flags().StringVar(&f.format, "format", string(export.FormatCSV), "file format: csv or xlsx")
	cmd.Flags().StringVar(&f.out, "out", "", `destination path, "-" for stdout (default filtered.<format>)`)
	return cmd
}
