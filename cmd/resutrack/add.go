package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resutrack/internal/types"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a resume submission",
	Long: "Add a submission. Dates accept YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339; the " +
		"registration date defaults to now. --image attaches a PNG, JPEG, GIF or WebP file.",
	Example: `  resutrack add --company Acme --link https://drive.google.com/file/d/abc/view --stipend 1200
  resutrack add -c Globex -l https://example.com/cv.pdf --exam 2025-04-02 --exam-time 14:30`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var (
	addCompany       string
	addLink          string
	addDate          string
	addStipend       string
	addExam          string
	addExamTime      string
	addInterview     string
	addInterviewTime string
	addNote          string
	addImage         string
)

func init() {
	addCmd.Flags().StringVarP(&addCompany, "company", "c", "", "Company name (required)")
	addCmd.Flags().StringVarP(&addLink, "link", "l", "", "Resume link (required)")
	addCmd.Flags().StringVar(&addDate, "date", "", "Registration date (default now)")
	addCmd.Flags().StringVar(&addStipend, "stipend", "", "Stipend amount")
	addCmd.Flags().StringVar(&addExam, "exam", "", "Exam date")
	addCmd.Flags().StringVar(&addExamTime, "exam-time", "", "Exam time of day, HH:MM")
	addCmd.Flags().StringVar(&addInterview, "interview", "", "Interview date")
	addCmd.Flags().StringVar(&addInterviewTime, "interview-time", "", "Interview time of day, HH:MM")
	addCmd.Flags().StringVar(&addNote, "note", "", "Free-text note")
	addCmd.Flags().StringVar(&addImage, "image", "", "Path to an image to attach")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	in := types.FormInput{
		CompanyName:      addCompany,
		ResumeLink:       addLink,
		RegistrationDate: addDate,
		Stipend:          types.LooseNumber(addStipend),
		Note:             addNote,
	}

	var err error
	if in.ExamDate, err = pickDateTime(nil, addExam, true, addExamTime, cmd.Flags().Changed("exam-time")); err != nil {
		return fmt.Errorf("exam: %w", err)
	}
	if in.InterviewDate, err = pickDateTime(nil, addInterview, true, addInterviewTime, cmd.Flags().Changed("interview-time")); err != nil {
		return fmt.Errorf("interview: %w", err)
	}
	if addImage != "" {
		if in.Upload, err = readUpload(addImage); err != nil {
			return err
		}
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := a.store.Create(cmd.Context(), in)
	if err != nil {
		if entry.ID == "" {
			return reportValidation(cmd.ErrOrStderr(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created entry %s\n", entry.ID)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created entry %s\n", entry.ID)
	return nil
}

func readUpload(path string) (*types.ImageUpload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &types.ImageUpload{Filename: filepath.Base(path), Data: data}, nil
}
