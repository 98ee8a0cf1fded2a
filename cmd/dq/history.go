package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dataquality/domain/core"
	"dataquality/internal/errors"
	"dataquality/ports"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse persisted analysis runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, closeService, err := buildService(true)
		if err != nil {
			return err
		}
		defer closeService()

		summaries, err := service.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No reports in history.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSHAPE\tCRIT\tWARN\tINFO\tMISSING\tCREATED")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%d\t%.1f%%\t%s\n",
				s.ID.String(), s.Name, s.Rows, s.Columns,
				s.Critical, s.Warning, s.Info, s.MissingPercentage,
				s.CreatedAt.Time().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render one persisted run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := core.ParseReportID(args[0])
		if err != nil {
			return errors.InvalidInput(err.Error())
		}
		format, err := ports.ParseFormat(historyFormat)
		if err != nil {
			return errors.InvalidInput(err.Error())
		}

		service, closeService, err := buildService(true)
		if err != nil {
			return err
		}
		defer closeService()

		stored, err := service.Report(cmd.Context(), id)
		if err != nil {
			return err
		}
		doc, err := service.Render(stored.Result, format)
		if err != nil {
			return err
		}

		_, err = os.Stdout.Write(doc)
		return err
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to list")
	historyShowCmd.Flags().StringVar(&historyFormat, "format", "text", "output format: text, json, or html")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}
