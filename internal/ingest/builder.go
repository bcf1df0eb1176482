package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

// Builder turns a question paper and its answer key into a quiz session.
// With both Renderer and Blobs set, pages of the paper that look like
// figures are stored under FigurePrefix and attached to their questions.
type Builder struct {
	Extractor TextExtractor
	Renderer  PageRenderer
	Blobs     storage.BlobStore
	AssetBase string        // URL prefix blobs are served under, defaults to "/assets"
	NewID     func() string // defaults to a random UUID
}

// Build parses the answer key first: without it no question can be scored.
func (b *Builder) Build(ctx context.Context, questionsPDF, answerKeyPDF io.Reader) (quiz.Session, error) {
	keyText, err := b.Extractor.ExtractText(ctx, answerKeyPDF)
	if err != nil {
		return quiz.Session{}, fmt.Errorf("answer key: %w", err)
	}
	key, err := ParseAnswerKey(keyText)
	if err != nil {
		return quiz.Session{}, err
	}

	paper, err := io.ReadAll(questionsPDF)
	if err != nil {
		return quiz.Session{}, fmt.Errorf("questions: %w", err)
	}
	qText, err := b.Extractor.ExtractText(ctx, bytes.NewReader(paper))
	if err != nil {
		return quiz.Session{}, fmt.Errorf("questions: %w", err)
	}

	newID := b.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	id := newID()

	figs := b.figures(ctx, id, paper, qText)
	questions, err := ParseQuestions(qText, key, figs)
	if err != nil {
		b.DropFigures(id)
		return quiz.Session{}, err
	}
	return quiz.NewSession(id, questions), nil
}

// figures renders the paper and stores its figure pages. A rendering
// failure leaves the quiz without images.
func (b *Builder) figures(ctx context.Context, id string, paper []byte, text string) FigureIndex {
	if b.Renderer == nil || b.Blobs == nil {
		return nil
	}
	pages, err := b.Renderer.RenderPages(ctx, bytes.NewReader(paper))
	if err != nil {
		log.Printf("render figures for %s: %v", id, err)
		return nil
	}

	base := strings.TrimSuffix(b.AssetBase, "/")
	if base == "" {
		base = "/assets"
	}
	texts := strings.Split(text, "\f")
	figs := FigureIndex{}
	for i, png := range pages {
		if i < len(texts) && textBlocks(texts[i]) > maxFigureBlocks {
			continue
		}
		k, err := b.Blobs.Put(figureKey(id, i+1), bytes.NewReader(png))
		if err != nil {
			log.Printf("store figure page %d for %s: %v", i+1, id, err)
			b.DropFigures(id)
			return nil
		}
		figs[i+1] = []string{base + "/" + k}
	}
	return figs
}

// DropFigures removes the rendered pages stored for a session.
func (b *Builder) DropFigures(sessionID string) {
	if b.Blobs == nil {
		return
	}
	if err := b.Blobs.DeletePrefix(FigurePrefix(sessionID)); err != nil {
		log.Printf("drop figures for %s: %v", sessionID, err)
	}
}
