package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/seclens/auditgate/internal/ai"
	"github.com/seclens/auditgate/internal/model"
)

// NoInformationMessage is returned when there is nothing to ground an answer
// on. No model call is made in that case.
const NoInformationMessage = "I searched the documents but found no relevant information."

const answerPromptTemplate = `You are a secure audit assistant. Answer strictly based on the context below. If the context does not contain the answer, say so.

Context:
%s
Question:
%s`

// AnswerService builds a grounding prompt from retrieved snippets and asks
// the language model for a completion. Streamed and batched model output are
// unified behind the onDelta callback: increments arrive in order and
// concatenate to the returned answer; a model failure degrades to a
// single-increment inline error message instead of an error.
type AnswerService struct {
	generator ai.IGenerator
	timeout   time.Duration
	cache     *expirable.LRU[string, string]
}

func NewAnswerService(generator ai.IGenerator, timeout time.Duration) *AnswerService {
	return &AnswerService{
		generator: generator,
		timeout:   timeout,
		cache:     expirable.NewLRU[string, string](1024, nil, 2*time.Hour),
	}
}

// Answer produces the final answer for a question given its retrieval result.
// onDelta may be nil when the caller only wants the completed answer.
func (s *AnswerService) Answer(ctx context.Context, question string, result *model.RetrievalResult, onDelta ai.DeltaFunc) (string, error) {
	if onDelta == nil {
		onDelta = func(string) {}
	}
	if result.Empty() {
		onDelta(NoInformationMessage)
		return NoInformationMessage, nil
	}

	logger := logutil.GetLogger(ctx).With(zap.Int("snippets", len(result.Chunks)))
	cacheKey := s.cacheKey(question, result)
	if cached, ok := s.cache.Get(cacheKey); ok {
		logger.Debug("answer cache hit")
		onDelta(cached)
		return cached, nil
	}

	prompt := BuildPrompt(question, result)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var sb strings.Builder
	err := s.generator.GenerateStream(ctx, prompt, func(delta string) {
		sb.WriteString(delta)
		onDelta(delta)
	})
	if err != nil {
		logger.Error("model call failed", zap.Error(err))
		if sb.Len() == 0 {
			// Degrade to an inline message rather than aborting the session.
			msg := fmt.Sprintf("Error: the language model is unavailable (%v).", err)
			onDelta(msg)
			return msg, nil
		}
		// Partial output already delivered is not retracted.
		return sb.String(), nil
	}

	if sources := result.Sources(); len(sources) > 0 {
		var src strings.Builder
		src.WriteString("\n\nSources:\n")
		for _, name := range sources {
			src.WriteString("- ")
			src.WriteString(name)
			src.WriteString("\n")
		}
		sb.WriteString(src.String())
		onDelta(src.String())
	}

	answer := sb.String()
	s.cache.Add(cacheKey, answer)
	return answer, nil
}

// BuildPrompt concatenates the retrieved snippets into one delimited context
// block, preserving retrieval order.
func BuildPrompt(question string, result *model.RetrievalResult) string {
	var context strings.Builder
	for i, chunk := range result.Chunks {
		context.WriteString(fmt.Sprintf("--- Snippet %d ---\n%s\n\n", i+1, chunk.Content))
	}
	return fmt.Sprintf(answerPromptTemplate, context.String(), question)
}

func (s *AnswerService) cacheKey(question string, result *model.RetrievalResult) string {
	h := sha256.New()
	h.Write([]byte(question))
	for _, chunk := range result.Chunks {
		h.Write([]byte{0})
		h.Write([]byte(chunk.ID))
	}
	return hex.EncodeToString(h.Sum(nil))
}
