package toolcache

import (
	"testing"

	"ai-assistant-be/pkg/chat"

	"github.com/stretchr/testify/assert"
)

func TestLookupUnknownProvider(t *testing.T) {
	c := New()
	tools := c.Lookup("tavily")
	assert.NotNil(t, tools)
	assert.Empty(t, tools)
}

func TestReplaceIsWholesale(t *testing.T) {
	c := New()
	c.Replace("tavily", []chat.ToolDescriptor{
		{Name: "tavily-search", Category: "tavily"},
		{Name: "tavily-extract", Category: "tavily"},
	})
	assert.Len(t, c.Lookup("tavily"), 2)

	// Re-discovery with a smaller set drops the old entries entirely.
	c.Replace("tavily", []chat.ToolDescriptor{
		{Name: "tavily-search", Category: "tavily"},
	})
	tools := c.Lookup("tavily")
	assert.Len(t, tools, 1)
	assert.Equal(t, "tavily-search", tools[0].Name)
}

func TestReplaceEmptySetClearsProvider(t *testing.T) {
	c := New()
	c.Replace("tavily", []chat.ToolDescriptor{{Name: "tavily-search"}})
	c.Replace("tavily", nil)
	assert.Empty(t, c.Lookup("tavily"))
}

func TestProvidersAreIsolated(t *testing.T) {
	c := New()
	c.Replace("tavily", []chat.ToolDescriptor{{Name: "tavily-search"}})
	c.Replace("github", []chat.ToolDescriptor{{Name: "list-issues"}})

	assert.Len(t, c.Lookup("tavily"), 1)
	assert.Len(t, c.Lookup("github"), 1)
	assert.ElementsMatch(t, []string{"tavily", "github"}, c.Providers())
}

func TestLookupReturnsCopy(t *testing.T) {
	c := New()
	c.Replace("tavily", []chat.ToolDescriptor{{Name: "tavily-search"}})

	tools := c.Lookup("tavily")
	tools[0].Name = "mutated"

	assert.Equal(t, "tavily-search", c.Lookup("tavily")[0].Name)
}
