package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/pkg/llm"
)

// allowedTypes maps permitted file extensions to the mime prefixes
// accepted for each of them.
var allowedTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".txt":  {"text/plain", "text/"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
}

type UnsupportedTypeError struct {
	Name string
	Mime string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported document type: %s (%s)", e.Name, e.Mime)
}

type SizeExceededError struct {
	Name string
	Size int64
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("document %s exceeds size limit: %d bytes", e.Name, e.Size)
}

// IProcessor extracts readable text out of uploaded documents and
// condenses raw text into summaries.
type IProcessor interface {
	ProcessDocument(ctx context.Context, name string, data []byte, mime string) (string, error)
	SummarizeText(ctx context.Context, content string) (string, error)
}

type processor struct {
	llmProvider llm.LLMProvider
}

func NewProcessor(llmProvider llm.LLMProvider) IProcessor {
	return &processor{
		llmProvider: llmProvider,
	}
}

// Validate checks a document against the allowed type table and size cap
// before any bytes are handed to the extraction pipeline.
func Validate(name string, size int64, mime string) error {
	// Uploaded names must not smuggle path components
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return &UnsupportedTypeError{Name: name, Mime: mime}
	}

	ext := strings.ToLower(filepath.Ext(name))
	prefixes, ok := allowedTypes[ext]
	if !ok {
		return &UnsupportedTypeError{Name: name, Mime: mime}
	}

	matched := false
	for _, prefix := range prefixes {
		if strings.HasPrefix(mime, prefix) {
			matched = true
			break
		}
	}
	if !matched && mime != "" && mime != "application/octet-stream" {
		return &UnsupportedTypeError{Name: name, Mime: mime}
	}

	if size > constant.MaxAttachmentSize {
		return &SizeExceededError{Name: name, Size: size}
	}

	return nil
}

func (p *processor) ProcessDocument(ctx context.Context, name string, data []byte, mime string) (string, error) {
	if err := Validate(name, int64(len(data)), mime); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".txt" {
		return extractPlainText(data), nil
	}

	// Binary formats go through the multimodal model for extraction
	result, err := p.llmProvider.GenerateWithFile(ctx, constant.ExtractAndSummarizePrompt, data, mime)
	if err != nil {
		return "", fmt.Errorf("extract document %s: %w", name, err)
	}
	return result, nil
}

func (p *processor) SummarizeText(ctx context.Context, content string) (string, error) {
	result, err := p.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.SummarizeSystemPrompt},
		{Role: "user", Content: content},
	}, llm.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("summarize text: %w", err)
	}
	return result, nil
}

func extractPlainText(data []byte) string {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	if len(text) > constant.TextExtractLimit {
		text = text[:constant.TextExtractLimit]
	}
	return text
}
