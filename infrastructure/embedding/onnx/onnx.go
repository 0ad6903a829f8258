//go:build onnx

// Package onnx provides a local ONNX Runtime embedder for BERT-family
// sentence-embedding models (e.g. all-MiniLM-L6-v2), built behind the onnx
// build tag so the default build carries no native runtime dependency.
package onnx

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// bertTokenizer handles BERT-style WordPiece tokenization.
type bertTokenizer struct {
	vocab     map[string]int
	idToToken map[int]string
	clsToken  int
	sepToken  int
	unkToken  int
}

// Config configures the ONNX embedder.
type Config struct {
	// ModelPath is the path to the ONNX model file.
	ModelPath string

	// TokenizerPath is the path to the tokenizer.json file.
	TokenizerPath string

	// SharedLibraryPath points at the onnxruntime shared library. Left
	// unset, ort's own default search path applies.
	SharedLibraryPath string

	// Dimensions is the embedding vector size (hidden_size of the model).
	Dimensions int

	// MaxSequenceLength bounds the token count fed to the model,
	// including [CLS]/[SEP].
	MaxSequenceLength int
}

// Embedder generates embeddings using ONNX Runtime.
type Embedder struct {
	session    *ort.DynamicAdvancedSession
	tokenizer  *bertTokenizer
	dimensions int
	maxLen     int
	logger     *zap.Logger
}

// New creates an ONNX embedder from cfg, initializing the ONNX Runtime
// environment as a side effect.
func New(cfg Config, logger *zap.Logger) (*Embedder, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("onnx: ModelPath is required")
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 384
	}
	if cfg.MaxSequenceLength == 0 {
		cfg.MaxSequenceLength = 128
	}

	if cfg.SharedLibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.SharedLibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("onnx: initialize runtime: %w", err)
	}

	tokenizer, err := loadBERTTokenizer(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: load tokenizer: %w", err)
	}

	tempSession, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("onnx: create probe session: %w", err)
	}
	metadata, err := tempSession.GetModelMetadata()
	if err == nil {
		producer, _ := metadata.GetProducerName()
		version, _ := metadata.GetVersion()
		logger.Info("onnx model metadata", zap.String("producer", producer), zap.Int64("version", version))
		metadata.Destroy()
	}
	tempSession.Destroy()

	inputNames := []string{"input_ids", "attention_mask", "token_type_ids"}
	outputNames := []string{"last_hidden_state"}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputNames, outputNames, nil)
	if err != nil {
		return nil, fmt.Errorf("onnx: create session: %w", err)
	}

	return &Embedder{
		session:    session,
		tokenizer:  tokenizer,
		dimensions: cfg.Dimensions,
		maxLen:     cfg.MaxSequenceLength,
		logger:     logger,
	}, nil
}

// Embed converts text to an embedding vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	tokens := e.tokenizer.Tokenize(text)

	maxLen := e.maxLen
	inputIDs := make([]int64, maxLen)
	attentionMask := make([]int64, maxLen)
	tokenTypeIDs := make([]int64, maxLen)

	inputIDs[0] = int64(e.tokenizer.clsToken)
	attentionMask[0] = 1

	tokenLen := len(tokens)
	if tokenLen > maxLen-2 {
		tokenLen = maxLen - 2
	}
	for i := 0; i < tokenLen; i++ {
		inputIDs[i+1] = tokens[i]
		attentionMask[i+1] = 1
	}

	endPos := tokenLen + 1
	inputIDs[endPos] = int64(e.tokenizer.sepToken)
	attentionMask[endPos] = 1

	shape := ort.NewShape(1, int64(maxLen))

	inputIDsTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("onnx: input_ids tensor: %w", err)
	}
	defer inputIDsTensor.Destroy()

	attentionMaskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("onnx: attention_mask tensor: %w", err)
	}
	defer attentionMaskTensor.Destroy()

	tokenTypeIDsTensor, err := ort.NewTensor(shape, tokenTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("onnx: token_type_ids tensor: %w", err)
	}
	defer tokenTypeIDsTensor.Destroy()

	inputTensors := []ort.Value{inputIDsTensor, attentionMaskTensor, tokenTypeIDsTensor}
	outputTensors := []ort.Value{nil}

	if err := e.session.Run(inputTensors, outputTensors); err != nil {
		return nil, fmt.Errorf("onnx: inference: %w", err)
	}
	defer func() {
		for _, out := range outputTensors {
			if out != nil {
				out.Destroy()
			}
		}
	}()

	if len(outputTensors) == 0 || outputTensors[0] == nil {
		return nil, fmt.Errorf("onnx: no output tensor returned")
	}
	outputTensor, ok := outputTensors[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("onnx: unexpected output tensor type")
	}

	outputData := outputTensor.GetData()
	outputShape := outputTensor.GetShape()

	var embedding []float32
	switch len(outputShape) {
	case 2:
		if len(outputData) < e.dimensions {
			return nil, fmt.Errorf("onnx: output dimension mismatch: got %d, want %d", len(outputData), e.dimensions)
		}
		embedding = make([]float32, e.dimensions)
		copy(embedding, outputData[:e.dimensions])
	case 3:
		batchSize, seqLen, hiddenSize := outputShape[0], outputShape[1], outputShape[2]
		if batchSize != 1 {
			return nil, fmt.Errorf("onnx: expected batch size 1, got %d", batchSize)
		}
		if hiddenSize != int64(e.dimensions) {
			return nil, fmt.Errorf("onnx: hidden size mismatch: got %d, want %d", hiddenSize, e.dimensions)
		}
		embedding = make([]float32, e.dimensions)
		var attended float32
		for i := 0; i < int(seqLen); i++ {
			if attentionMask[i] == 0 {
				continue
			}
			attended++
			offset := i * int(hiddenSize)
			for j := 0; j < int(hiddenSize); j++ {
				embedding[j] += outputData[offset+j]
			}
		}
		if attended > 0 {
			for j := range embedding {
				embedding[j] /= attended
			}
		}
	default:
		return nil, fmt.Errorf("onnx: unexpected output shape %v", outputShape)
	}

	return normalize(embedding), nil
}

// Dimension reports the embedding vector size.
func (e *Embedder) Dimension() int {
	return e.dimensions
}

// Close releases the ONNX session.
func (e *Embedder) Close() error {
	if e.session != nil {
		return e.session.Destroy()
	}
	return nil
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}

func loadBERTTokenizer(path string) (*bertTokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tokenizerData struct {
		Model struct {
			Vocab map[string]int `json:"vocab"`
		} `json:"model"`
	}
	if err := json.Unmarshal(data, &tokenizerData); err != nil {
		return nil, err
	}

	idToToken := make(map[int]string, len(tokenizerData.Model.Vocab))
	for token, id := range tokenizerData.Model.Vocab {
		idToToken[id] = token
	}

	return &bertTokenizer{
		vocab:     tokenizerData.Model.Vocab,
		idToToken: idToToken,
		clsToken:  101,
		sepToken:  102,
		unkToken:  100,
	}, nil
}

// Tokenize converts text to vocabulary IDs via greedy WordPiece matching.
func (t *bertTokenizer) Tokenize(text string) []int64 {
	text = strings.ToLower(text)
	words := strings.Fields(text)

	var tokens []int64
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'")
		if word == "" {
			continue
		}
		if id, ok := t.vocab[word]; ok {
			tokens = append(tokens, int64(id))
			continue
		}
		for _, subword := range t.wordPieceTokenize(word) {
			if id, ok := t.vocab[subword]; ok {
				tokens = append(tokens, int64(id))
			} else {
				tokens = append(tokens, int64(t.unkToken))
			}
		}
	}
	return tokens
}

func (t *bertTokenizer) wordPieceTokenize(word string) []string {
	if len(word) == 0 {
		return nil
	}

	var subwords []string
	start := 0
	for start < len(word) {
		end := len(word)
		found := false
		for end > start {
			substr := word[start:end]
			if start > 0 {
				substr = "##" + substr
			}
			if _, ok := t.vocab[substr]; ok {
				subwords = append(subwords, substr)
				start = end
				found = true
				break
			}
			end--
		}
		if !found {
			subwords = append(subwords, "[UNK]")
			start++
		}
	}
	return subwords
}
