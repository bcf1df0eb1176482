package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answer sheet against a quiz file",
	RunE: func(cmd *cobra.Command, args []string) error {
		qPath, _ := cmd.Flags().GetString("questions")
		aPath, _ := cmd.Flags().GetString("answers")
		tol, _ := cmd.Flags().GetFloat64("tolerance")
		noTrunc, _ := cmd.Flags().GetBool("no-truncate")

		qf, err := loadQuiz(qPath)
		if err != nil {
			return fmt.Errorf("read questions: %w", err)
		}
		s := quiz.NewSession(qf.ID, qf.Questions)
		if err := s.Validate(); err != nil {
			return err
		}
		var sub quiz.QuizSubmission
		if err := decodeFile(aPath, &sub); err != nil {
			return fmt.Errorf("read answers: %w", err)
		}

		g := grading.NewGrader(
			grading.WithTolerance(tol),
			grading.WithIntegerTruncation(!noTrunc),
		)
		return printJSON(cmd.OutOrStdout(), g.ScoreQuiz(s.ID, s.Questions, sub.Answers))
	},
}

func init() {
	scoreCmd.Flags().String("questions", "", "Quiz file with questions and correct answers (.json, .yaml)")
	scoreCmd.Flags().String("answers", "", "Answer sheet file: {answers: [{question_number, answer}]}")
	scoreCmd.Flags().Float64("tolerance", grading.DefaultTolerance, "Absolute tolerance for decimal answers")
	scoreCmd.Flags().Bool("no-truncate", false, "Reject non-integral answers to integer questions instead of truncating")
	_ = scoreCmd.MarkFlagRequired("questions")
	_ = scoreCmd.MarkFlagRequired("answers")
}
