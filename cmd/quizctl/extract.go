package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-quiz/internal/ingest"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build a quiz file from a question paper and answer key PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		qPath, _ := cmd.Flags().GetString("questions")
		aPath, _ := cmd.Flags().GetString("answers")
		title, _ := cmd.Flags().GetString("title")

		qf, err := os.Open(qPath)
		if err != nil {
			return err
		}
		defer qf.Close()
		af, err := os.Open(aPath)
		if err != nil {
			return err
		}
		defer af.Close()

		b := &ingest.Builder{Extractor: extractor(cmd)}
		s, err := b.Build(cmd.Context(), qf, af)
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), quizFile{ID: s.ID, Title: title, Questions: s.Questions})
	},
}

func init() {
	extractCmd.Flags().String("questions", "", "Question paper PDF")
	extractCmd.Flags().String("answers", "", "Answer key PDF")
	extractCmd.Flags().String("title", "", "Title stored in the quiz file")
	_ = extractCmd.MarkFlagRequired("questions")
	_ = extractCmd.MarkFlagRequired("answers")
}
