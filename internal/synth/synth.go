// Package synth renders the question-answering prompt from retrieved
// context and asks a generator for the answer.
package synth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/pkg/utils"
	"go.uber.org/zap"
)

// FallbackAnswer is returned verbatim when there is no context to answer from.
const FallbackAnswer = "I don't have enough information to answer that question."

// ContextSeparator joins segment texts into the prompt context.
const ContextSeparator = "\n\n"

// Generator produces text for a prompt. Implementations are external
// language-model services.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

const promptText = `Context: {{.Context}}

Question: {{.Question}}

Answer the question concisely using only the context above. If the context does not contain the information needed, reply exactly: "{{.Fallback}}"

If the question is a general one that does not depend on the document (for example, "what is an electric vehicle?"), answer it anyway.

Write the answer the way a person would say it in conversation.
`

var promptTemplate = template.Must(template.New("prompt").Parse(promptText))

type promptData struct {
	Context  string
	Question string
	Fallback string
}

// JoinContext joins segment texts with ContextSeparator, preserving order.
func JoinContext(segments []models.Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, ContextSeparator)
}

// RenderPrompt fills the prompt template.
func RenderPrompt(question, context string) (string, error) {
	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, promptData{
		Context:  context,
		Question: question,
		Fallback: FallbackAnswer,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// Synthesizer turns a question plus retrieved segments into an answer.
type Synthesizer struct {
	generator Generator
	logger    *zap.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synthesizer) { s.logger = l }
}

// New creates a synthesizer backed by generator.
func New(generator Generator, opts ...Option) *Synthesizer {
	s := &Synthesizer{generator: generator}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = utils.OrNop(s.logger)
	return s
}

// Synthesize answers question from segments. With no segments it returns
// FallbackAnswer and fallback=true without calling the generator. A
// generator failure is returned as an error matching
// models.ErrGenerationService; it is never turned into the fallback answer.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, segments []models.Segment) (answer string, fallback bool, err error) {
	if len(segments) == 0 {
		s.logger.Debug("no context retrieved; returning fallback answer")
		return FallbackAnswer, true, nil
	}
	prompt, err := RenderPrompt(question, JoinContext(segments))
	if err != nil {
		return "", false, err
	}
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", false, asServiceError(err)
	}
	return text, false, nil
}

func asServiceError(err error) error {
	var se *models.ServiceError
	if errors.As(err, &se) && se.Service == models.ServiceGeneration {
		return err
	}
	return &models.ServiceError{Service: models.ServiceGeneration, Err: err}
}
