package main

import (
	"fmt"

	"github.com/jonathan/resutrack/internal/types"
	"github.com/jonathan/resutrack/internal/validation"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a resume submission",
	Long: "Change fields of an existing entry. Only the flags given are changed; pass an " +
		"empty value (--exam \"\") to clear an optional field. Changing the company or link " +
		"resets the link check to pending.",
	Example: `  resutrack edit 3f2a... --stipend 1500
  resutrack edit 3f2a... --exam-time 09:00`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editCompany       string
	editLink          string
	editDate          string
	editStipend       string
	editExam          string
	editExamTime      string
	editInterview     string
	editInterviewTime string
	editNote          string
	editImage         string
)

func init() {
	editCmd.Flags().StringVarP(&editCompany, "company", "c", "", "Company name")
	editCmd.Flags().StringVarP(&editLink, "link", "l", "", "Resume link")
	editCmd.Flags().StringVar(&editDate, "date", "", "Registration date")
	editCmd.Flags().StringVar(&editStipend, "stipend", "", "Stipend amount")
	editCmd.Flags().StringVar(&editExam, "exam", "", "Exam date, empty to clear")
	editCmd.Flags().StringVar(&editExamTime, "exam-time", "", "Exam time of day, HH:MM")
	editCmd.Flags().StringVar(&editInterview, "interview", "", "Interview date, empty to clear")
	editCmd.Flags().StringVar(&editInterviewTime, "interview-time", "", "Interview time of day, HH:MM")
	editCmd.Flags().StringVar(&editNote, "note", "", "Free-text note, empty to clear")
	editCmd.Flags().StringVar(&editImage, "image", "", "Path to an image to attach, empty to remove")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id := args[0]
	existing, err := a.store.Get(id)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}

	in := validation.FormFromEntry(existing)
	flags := cmd.Flags()
	if flags.Changed("company") {
		in.CompanyName = editCompany
	}
	if flags.Changed("link") {
		in.ResumeLink = editLink
	}
	if flags.Changed("date") {
		in.RegistrationDate = editDate
	}
	if flags.Changed("stipend") {
		in.Stipend = types.LooseNumber(editStipend)
	}
	if flags.Changed("note") {
		in.Note = editNote
	}
	if flags.Changed("exam") || flags.Changed("exam-time") {
		in.ExamDate, err = pickDateTime(existing.ExamDate, editExam, flags.Changed("exam"), editExamTime, flags.Changed("exam-time"))
		if err != nil {
			return fmt.Errorf("exam: %w", err)
		}
	}
	if flags.Changed("interview") || flags.Changed("interview-time") {
		in.InterviewDate, err = pickDateTime(existing.InterviewDate, editInterview, flags.Changed("interview"), editInterviewTime, flags.Changed("interview-time"))
		if err != nil {
			return fmt.Errorf("interview: %w", err)
		}
	}
	if flags.Changed("image") {
		in.Image = ""
		if editImage != "" {
			if in.Upload, err = readUpload(editImage); err != nil {
				return err
			}
		}
	}

	entry, err := a.store.Update(cmd.Context(), id, in)
	if err != nil {
		if entry.ID == "" {
			return reportValidation(cmd.ErrOrStderr(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s\n", entry.ID)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s\n", entry.ID)
	if entry.ValidationStatus == types.StatusPending && existing.ValidationStatus != types.StatusPending {
		fmt.Fprintln(cmd.OutOrStdout(), "Link check reset to pending")
	}
	return nil
}
