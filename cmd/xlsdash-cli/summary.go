package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"xlsdash/internal/core"
	"xlsdash/internal/services"
)

type summaryFlags struct {
	sheet    string
	city     string
	cityType string
	month    string
	by       string
	output   string
}

func newSummaryCommand(root *rootOptions) *cobra.Command {
	f := &summaryFlags{}

	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Print projected enrollment totals by month or by city",
		Long: `Filters the selected sheet by city and city type, then sums
Projected_Enrollments by month, or by city for one month with --by city.
Without --month the first month present is used.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(*cobra.Command, []string) error {
			if f.by != string(core.ByMonth) && f.by != string(core.ByCity) {
				return fmt.Errorf("unsupported grouping %q (use month or city)", f.by)
			}
			return validateOutput(f.output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadFile(cmd.Context(), root, args[0])
			if err != nil {
				return err
			}
			view, err := svc.View(cmd.Context(), services.Query{
				Sheet:    f.sheet,
				City:     f.city,
				CityType: f.cityType,
				Month:    f.month,
				Mode:     core.ParseMode(f.by),
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), f.output, view, func(tw *tabwriter.Writer) {
				writeSummaryText(tw, view)
			})
		},
	}

	cmd.Flags().StringVar(&f.sheet, "sheet", "", "sheet name (default first sheet)")
	cmd.Flags().StringVar(&f.city, "city", "", "only rows for this city")
	cmd.Flags().StringVar(&f.cityType, "city-type", "", "only rows for this city type")
	cmd.Flags().StringVar(&f.month, "month", "", "month for --by city and extremes")
	cmd.Flags().StringVar(&f.by, "by", string(core.ByMonth), "grouping: month or city")
	cmd.Flags().StringVarP(&f.output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

func writeSummaryText(tw *tabwriter.Writer, v *services.View) {
	fmt.Fprintf(tw, "Sheet:\t%s (%d of %d rows)\n", v.Sheet, v.RowCount, v.SheetRows)

	label := "MONTH"
	if v.Mode == core.ByCity {
		label = "CITY"
		fmt.Fprintf(tw, "Month:\t%s\n", v.Month)
	}
	if len(v.Totals) == 0 {
		fmt.Fprintln(tw, "No data for the current selection.")
		return
	}

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "%s\tPROJECTED ENROLLMENTS\n", label)
	for _, g := range v.Totals {
		fmt.Fprintf(tw, "%s\t%s\n", g.Key, formatValue(g.Value))
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Total:\t%s\n", formatValue(v.Stats.Sum))
	fmt.Fprintf(tw, "Mean:\t%s\n", formatValue(v.Stats.Mean))
	fmt.Fprintf(tw, "Median:\t%s\n", formatValue(v.Stats.Median))

	// Extremes depend on the selected month and can be empty while totals are not.
	if v.Extremes == nil {
		fmt.Fprintf(tw, "Highest/lowest city:\tno data for month %q\n", v.Month)
		return
	}
	fmt.Fprintf(tw, "Highest city in %s:\t%s (%s)\n", v.Extremes.Month, v.Extremes.Max.Key, formatValue(v.Extremes.Max.Value))
	fmt.Fprintf(tw, "Lowest city in %s:\t%s (%s)\n", v.Extremes.Month, v.Extremes.Min.Key, formatValue(v.Extremes.Min.Value))
}
