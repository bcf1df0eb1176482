package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// quizFile is the on-disk form of a quiz: a title and its questions with
// correct answers, in the same shape the API imports.
type quizFile struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Questions []quiz.Question `json:"questions"`
}

// readJSON returns the file as JSON. YAML files (by extension) are
// re-encoded so both formats go through the same decoders.
func readJSON(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return toJSON(f, filepath.Ext(path))
}

func toJSON(r io.Reader, ext string) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("yaml to json: %w", err)
		}
	}
	return data, nil
}

func decodeFile(path string, v any) error {
	data, err := readJSON(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

// loadQuiz reads a quiz file and checks it against the quiz document schema.
func loadQuiz(path string) (quizFile, error) {
	var qf quizFile
	data, err := readJSON(path)
	if err != nil {
		return qf, err
	}
	err = quiz.DecodeDocument(data, &qf)
	return qf, err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
