package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent compile runs",
		Run:   runHistory,
	}
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	runs, err := s.Runs(cmd.Context(), limit)
	if err != nil {
		exitErr("history", err)
	}
	if formatFlag == "json" {
		printJSON(runs)
		return
	}
	for _, r := range runs {
		status := "ok"
		if r.Errors > 0 {
			status = fmt.Sprintf("%d errors", r.Errors)
		}
		fmt.Printf("%s  %s  %-24s %-9s %5d lines  %d warnings  %s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Input, r.Post, r.Lines, r.Warnings, status)
	}
}
