package document

import (
	"context"
	"testing"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply      string
	err        error
	lastPrompt string
	lastMime   string
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) > 0 {
		p.lastPrompt = history[len(history)-1].Content
	}
	return p.reply, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.lastPrompt = prompt
	return p.reply, p.err
}

func (p *stubProvider) GenerateWithFile(ctx context.Context, prompt string, data []byte, mime string, options ...llm.Option) (string, error) {
	p.lastPrompt = prompt
	p.lastMime = mime
	return p.reply, p.err
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		size     int64
		mime     string
		wantErr  error
	}{
		{"plain text", "notes.txt", 100, "text/plain", nil},
		{"pdf", "report.pdf", 1024, "application/pdf", nil},
		{"docx as zip", "doc.docx", 1024, "application/zip", nil},
		{"jpeg", "photo.jpg", 2048, "image/jpeg", nil},
		{"uppercase extension", "REPORT.PDF", 1024, "application/pdf", nil},
		{"octet-stream is lenient", "report.pdf", 1024, "application/octet-stream", nil},
		{"empty mime is lenient", "report.pdf", 1024, "", nil},
		{"unknown extension", "script.exe", 10, "application/x-msdownload", &UnsupportedTypeError{}},
		{"mime mismatch", "report.pdf", 10, "image/png", &UnsupportedTypeError{}},
		{"path traversal", "../etc/passwd.txt", 10, "text/plain", &UnsupportedTypeError{}},
		{"nested path", "dir/notes.txt", 10, "text/plain", &UnsupportedTypeError{}},
		{"over size cap", "big.pdf", constant.MaxAttachmentSize + 1, "application/pdf", &SizeExceededError{}},
		{"at size cap", "exact.pdf", constant.MaxAttachmentSize, "application/pdf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.fileName, tt.size, tt.mime)
			switch tt.wantErr.(type) {
			case nil:
				assert.NoError(t, err)
			case *UnsupportedTypeError:
				var typeErr *UnsupportedTypeError
				assert.ErrorAs(t, err, &typeErr)
			case *SizeExceededError:
				var sizeErr *SizeExceededError
				assert.ErrorAs(t, err, &sizeErr)
			}
		})
	}
}

func TestProcessDocumentPlainText(t *testing.T) {
	provider := &stubProvider{reply: "should not be called"}
	p := NewProcessor(provider)

	text, err := p.ProcessDocument(context.Background(), "notes.txt", []byte("hello world"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Empty(t, provider.lastPrompt, "plain text must not hit the model")
}

func TestProcessDocumentSanitizesInvalidUTF8(t *testing.T) {
	p := NewProcessor(&stubProvider{})

	text, err := p.ProcessDocument(context.Background(), "notes.txt", []byte{'o', 'k', 0xff, 0xfe}, "text/plain")
	require.NoError(t, err)
	assert.Contains(t, text, "ok")
	assert.True(t, len(text) >= 2)
}

func TestProcessDocumentBinaryUsesModel(t *testing.T) {
	provider := &stubProvider{reply: "extracted content"}
	p := NewProcessor(provider)

	text, err := p.ProcessDocument(context.Background(), "report.pdf", []byte("%PDF-1.7"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "extracted content", text)
	assert.Equal(t, constant.ExtractAndSummarizePrompt, provider.lastPrompt)
	assert.Equal(t, "application/pdf", provider.lastMime)
}

func TestProcessDocumentRejectsInvalid(t *testing.T) {
	p := NewProcessor(&stubProvider{})

	_, err := p.ProcessDocument(context.Background(), "malware.exe", []byte("MZ"), "application/x-msdownload")
	var typeErr *UnsupportedTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestSummarizeText(t *testing.T) {
	provider := &stubProvider{reply: "a short summary"}
	p := NewProcessor(provider)

	summary, err := p.SummarizeText(context.Background(), "a very long document body")
	require.NoError(t, err)
	assert.Equal(t, "a short summary", summary)
	assert.Equal(t, "a very long document body", provider.lastPrompt)
}
