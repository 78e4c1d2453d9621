package cli

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doqa-labs/docq-cli/internal/adapters/driven/storage/memory"
	"github.com/doqa-labs/docq-cli/internal/chunker"
	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/core/services"
	"github.com/doqa-labs/docq-cli/internal/parsers"
)

// hashEmbedder derives deterministic vectors from content so tests
// need no network.
type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := hashEmbedder{}.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (hashEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		sum := sha256.Sum256([]byte(text))
		vec := make([]float32, 8)
		for j := range vec {
			vec[j] = float32(binary.LittleEndian.Uint16(sum[j*2:])) / 65535
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (hashEmbedder) Dimensions() int            { return 8 }
func (hashEmbedder) ModelName() string          { return "hash-embedder" }
func (hashEmbedder) Ping(context.Context) error { return nil }
func (hashEmbedder) Close() error               { return nil }

type echoLLM struct{}

func (echoLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return "answer based on provided context", nil
}

func (e echoLLM) GenerateStream(ctx context.Context, prompt string, opts driven.GenerateOptions, onToken func(string)) (string, error) {
	text, err := e.Generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	for _, token := range strings.SplitAfter(text, " ") {
		onToken(token)
	}
	return text, nil
}

func (echoLLM) ModelName() string          { return "echo-llm" }
func (echoLLM) Ping(context.Context) error { return nil }
func (echoLLM) Close() error               { return nil }

// setupTestServices wires the package-level services against in-memory
// fakes and returns a cleanup that unwires them.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	store := memory.NewVectorStore()
	embedder := hashEmbedder{}
	settings := domain.DefaultAppSettings()

	builder := chunker.New()
	indexer := services.NewIndexer(embedder, store, "documents")

	var err error
	workspace, err = domain.NewWorkspace(t.TempDir(), "documents")
	require.NoError(t, err)

	appSettings = settings
	vectorStore = store
	embeddingService = embedder
	llmService = echoLLM{}
	ingestService = services.NewIngestService(parsers.Default(), nil, builder, indexer, store)
	retrievalService = services.NewRetrievalService(embedder, store, settings.Retrieval)
	answerService = services.NewAnswerService(retrievalService, llmService)
	wired = true

	return func() {
		vectorStore = nil
		embeddingService = nil
		llmService = nil
		ingestService = nil
		retrievalService = nil
		answerService = nil
		wired = false
		rootCmd.SetArgs(nil)
	}
}

// execute runs the command tree with args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
