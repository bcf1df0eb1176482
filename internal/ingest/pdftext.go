package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// TextExtractor turns a PDF into plain text, pages separated by form feeds.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf io.Reader) (string, error)
}

// PDFToText shells out to poppler's pdftotext in layout mode, which keeps
// table columns apart for ParseAnswerKey.
type PDFToText struct {
	Bin string // defaults to "pdftotext"
}

func (p PDFToText) ExtractText(ctx context.Context, pdf io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "quiz-upload-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, pdf); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	bin := p.Bin
	if bin == "" {
		bin = "pdftotext"
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-layout", "-enc", "UTF-8", tmp.Name(), "-")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("pdftotext failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(out), nil
}
