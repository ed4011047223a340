package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		want   Command
		wantOk bool
	}{
		{"Scrape", Scrape, true},
		{"Search", Search, true},
		{"Chat", Chat, true},
		{"Summary", Summary, true},
		{"", None, true},
		{"search", None, false}, // case sensitive
		{"DROP TABLE", None, false},
	}

	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOk, ok)
		})
	}
}

func TestSearchClass(t *testing.T) {
	assert.True(t, Search.SearchClass())
	assert.True(t, Scrape.SearchClass())
	assert.False(t, Chat.SearchClass())
	assert.False(t, Summary.SearchClass())
	assert.False(t, None.SearchClass())
}

func TestListParsesRoundTrip(t *testing.T) {
	for _, desc := range List() {
		got, ok := Parse(string(desc.ID))
		assert.True(t, ok, "published command %q must parse", desc.ID)
		assert.Equal(t, desc.ID, got)
		assert.NotEmpty(t, desc.Icon)
		assert.NotEmpty(t, desc.Description)
	}
}

func TestStartersReferencePublishedCommands(t *testing.T) {
	for _, starter := range Starters() {
		_, ok := Parse(string(starter.Command))
		assert.True(t, ok, "starter %q points at unknown command %q", starter.Label, starter.Command)
		assert.NotEmpty(t, starter.Message)
	}
}
