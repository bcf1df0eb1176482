package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Pages with more text blocks than this are treated as text only.
const maxFigureBlocks = 20

// PageRenderer rasterises every page of a PDF to PNG, first page first.
type PageRenderer interface {
	RenderPages(ctx context.Context, pdf io.Reader) ([][]byte, error)
}

// PDFToPPM shells out to poppler's pdftoppm.
type PDFToPPM struct {
	Bin string // defaults to "pdftoppm"
	DPI int    // defaults to 144
}

func (p PDFToPPM) RenderPages(ctx context.Context, pdf io.Reader) ([][]byte, error) {
	dir, err := os.MkdirTemp("", "quiz-pages-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "paper.pdf")
	f, err := os.Create(src)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(f, pdf); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	bin := p.Bin
	if bin == "" {
		bin = "pdftoppm"
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 144
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-png", "-r", strconv.Itoa(dpi), src, filepath.Join(dir, "page"))
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("pdftoppm failed: %w", err)
	}

	// pdftoppm zero-pads page numbers to the width of the page count.
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, err
	}
	numbered := make(map[int]string, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "page-"), ".png"))
		if err == nil {
			numbered[n] = m
		}
	}
	nums := make([]int, 0, len(numbered))
	for n := range numbered {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	out := make([][]byte, 0, len(nums))
	for _, n := range nums {
		b, err := os.ReadFile(numbered[n])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// FigureDir is the top level blob directory for rendered pages; it is the
// only part of the blob store served to clients.
const FigureDir = "figures"

// FigurePrefix is the blob prefix holding a session's rendered pages.
func FigurePrefix(sessionID string) string {
	return FigureDir + "/" + sessionID
}

func figureKey(sessionID string, page int) string {
	return fmt.Sprintf("%s/page-%d.png", FigurePrefix(sessionID), page)
}

// textBlocks counts runs of non-blank lines.
func textBlocks(page string) int {
	n, in := 0, false
	for _, line := range strings.Split(page, "\n") {
		blank := strings.TrimSpace(line) == ""
		if !blank && !in {
			n++
		}
		in = !blank
	}
	return n
}
