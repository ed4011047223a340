package router

import (
	"testing"

	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/chat/command"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		msg  chat.Message
		want Route
	}{
		{
			name: "no command no attachment",
			msg:  chat.Message{Content: "hello"},
			want: RouteChat,
		},
		{
			name: "chat command",
			msg:  chat.Message{Content: "hello", Command: command.Chat},
			want: RouteChat,
		},
		{
			name: "search command",
			msg:  chat.Message{Content: "latest go release", Command: command.Search},
			want: RouteSearch,
		},
		{
			name: "scrape routes to search",
			msg:  chat.Message{Content: "https://example.com", Command: command.Scrape},
			want: RouteSearch,
		},
		{
			name: "summary command",
			msg:  chat.Message{Content: "long text", Command: command.Summary},
			want: RouteSummary,
		},
		{
			name: "attachment dominates search command",
			msg: chat.Message{
				Content:     "what does this say",
				Command:     command.Search,
				Attachments: []chat.Attachment{{Name: "report.pdf"}},
			},
			want: RouteDocumentQA,
		},
		{
			name: "attachment dominates summary command",
			msg: chat.Message{
				Content:     "",
				Command:     command.Summary,
				Attachments: []chat.Attachment{{Name: "notes.txt"}},
			},
			want: RouteDocumentQA,
		},
		{
			name: "attachment without command",
			msg: chat.Message{
				Content:     "explain",
				Attachments: []chat.Attachment{{Name: "a.txt"}, {Name: "b.txt"}},
			},
			want: RouteDocumentQA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.msg))
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	msg := chat.Message{Content: "q", Command: command.Search}
	first := Resolve(msg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve(msg))
	}
}

func TestRouteTableCoversPublishedCommands(t *testing.T) {
	for _, desc := range command.List() {
		_, ok := commandRoutes[desc.ID]
		assert.True(t, ok, "command %q has no route", desc.ID)
	}
}
