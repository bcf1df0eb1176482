package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quizctl",
	Short: "Offline tools for exam quizzes",
	Long:  "quizctl parses answer keys, extracts quizzes from PDFs and scores answer sheets without running the server.",

	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("pdftotext", "pdftotext", "Path to the pdftotext binary")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(parseKeyCmd)
	rootCmd.AddCommand(extractCmd)
}
