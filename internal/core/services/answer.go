package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driving"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Generation defaults for answers.
const (
	answerMaxTokens   = 1024
	answerTemperature = 0.2
)

// answerPrompt frames the retrieved context for the model. The
// numbered source tags let the model cite by source.
const answerPrompt = `You are a document question-answering assistant.
Answer the question using ONLY the provided context. If the context
does not contain the answer, say you don't know; do not invent facts.
Cite the sources you used by their number, e.g. [Source 1].

Context:
%s

Question: %s

Answer:`

// AnswerService answers questions over the indexed documents.
type AnswerService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
}

// NewAnswerService creates an answer service.
func NewAnswerService(retrieval driving.RetrievalService, llm driven.LLMService) *AnswerService {
	return &AnswerService{retrieval: retrieval, llm: llm}
}

// Ask retrieves context for the question and generates an answer.
func (s *AnswerService) Ask(ctx context.Context, question string, opts domain.RetrievalOptions) (*domain.Answer, error) {
	return s.ask(ctx, question, opts, nil)
}

// AskStream is Ask with incremental token delivery.
func (s *AnswerService) AskStream(ctx context.Context, question string, opts domain.RetrievalOptions, onToken func(string)) (*domain.Answer, error) {
	return s.ask(ctx, question, opts, onToken)
}

func (s *AnswerService) ask(ctx context.Context, question string, opts domain.RetrievalOptions, onToken func(string)) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	logger.Section("Answer")
	retrieved := s.retrieval.Retrieve(ctx, question, opts)
	if len(retrieved) == 0 {
		const fallback = "I could not find any relevant content in the indexed documents."
		if onToken != nil {
			onToken(fallback)
		}
		return &domain.Answer{
			Text:    fallback,
			Sources: []domain.SourceRef{},
		}, nil
	}

	prompt := fmt.Sprintf(answerPrompt, buildContext(retrieved), question)
	genOpts := driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	}

	var text string
	var err error
	if onToken != nil {
		text, err = s.llm.GenerateStream(ctx, prompt, genOpts, onToken)
	} else {
		text, err = s.llm.Generate(ctx, prompt, genOpts)
	}
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &domain.Answer{
		Text:       strings.TrimSpace(text),
		Sources:    sourceRefs(retrieved),
		NumSources: len(retrieved),
	}, nil
}

// buildContext renders the retrieved chunks as numbered source blocks.
func buildContext(retrieved []domain.RetrievedChunk) string {
	var b strings.Builder
	for i, rc := range retrieved {
		if i > 0 {
			b.WriteString("\n\n")
		}
		md := rc.Chunk.Metadata

		b.WriteString(fmt.Sprintf("[Source %d: %s", i+1, md.Filename))
		if md.PageNumber != nil {
			b.WriteString(fmt.Sprintf(", Page: %d", *md.PageNumber))
		}
		b.WriteString(fmt.Sprintf(", Type: %s]", rc.Chunk.Type))
		b.WriteString("\n")
		b.WriteString(rc.Chunk.Content)
	}
	return b.String()
}

// sourceRefs converts retrieved chunks into citable source records.
func sourceRefs(retrieved []domain.RetrievedChunk) []domain.SourceRef {
	refs := make([]domain.SourceRef, len(retrieved))
	for i, rc := range retrieved {
		md := rc.Chunk.Metadata
		refs[i] = domain.SourceRef{
			SourceID:  i + 1,
			Filename:  md.Filename,
			Page:      md.PageNumber,
			ChunkType: rc.Chunk.Type,
			ChunkID:   md.ChunkID,
		}
	}
	return refs
}
