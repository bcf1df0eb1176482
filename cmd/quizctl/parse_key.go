package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-quiz/internal/ingest"
)

var parseKeyCmd = &cobra.Command{
	Use:   "parse-key",
	Short: "Print the answer key read from a key table (text or PDF)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")

		text, err := readKeyText(cmd, path)
		if err != nil {
			return err
		}
		key, err := ingest.ParseAnswerKey(text)
		if err != nil {
			return err
		}

		entries := make([]ingest.KeyEntry, 0, len(key))
		for _, e := range key {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Number < entries[j].Number })

		out := cmd.OutOrStdout()
		if asJSON {
			rows := make([]map[string]any, len(entries))
			for i, e := range entries {
				rows[i] = map[string]any{"number": e.Number, "question_type": e.Kind, "correct_answer": e.Key}
			}
			return printJSON(out, rows)
		}
		fmt.Fprintf(out, "%-5s  %-14s  %s\n", "Q", "Type", "Key")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, e := range entries {
			fmt.Fprintf(out, "%-5d  %-14s  %s\n", e.Number, e.Kind, e.Key)
		}
		return nil
	},
}

func readKeyText(cmd *cobra.Command, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return extractor(cmd).ExtractText(cmd.Context(), f)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func extractor(cmd *cobra.Command) ingest.TextExtractor {
	bin, _ := cmd.Flags().GetString("pdftotext")
	return ingest.PDFToText{Bin: bin}
}

func init() {
	parseKeyCmd.Flags().String("file", "", "Answer key as layout text or PDF")
	parseKeyCmd.Flags().Bool("json", false, "Print JSON instead of a table")
	_ = parseKeyCmd.MarkFlagRequired("file")
}
