package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jonathan/resutrack/internal/export"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one resume submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the entry as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := a.store.Get(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if showJSON {
		return writeJSON(cmd.OutOrStdout(), e)
	}

	image := "-"
	if e.Image != "" {
		mime, _, _ := strings.Cut(strings.TrimPrefix(e.Image, "data:"), ";")
		image = mime + " attached"
	}
	note := e.Note
	if note == "" {
		note = "-"
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", e.ID)
	fmt.Fprintf(tw, "Company:\t%s\n", e.CompanyName)
	fmt.Fprintf(tw, "Resume link:\t%s\n", e.ResumeLink)
	fmt.Fprintf(tw, "Registered:\t%s\n", e.RegistrationDate.Local().Format(export.DateLayout))
	fmt.Fprintf(tw, "Stipend:\t%s\n", strconv.FormatFloat(e.Stipend, 'f', -1, 64))
	fmt.Fprintf(tw, "Exam:\t%s\n", optionalDate(e.ExamDate))
	fmt.Fprintf(tw, "Interview:\t%s\n", optionalDate(e.InterviewDate))
	fmt.Fprintf(tw, "Note:\t%s\n", note)
	fmt.Fprintf(tw, "Image:\t%s\n", image)
	fmt.Fprintf(tw, "Link check:\t%s\n", statusLine(e))
	return tw.Flush()
}
