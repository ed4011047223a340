package constant

import "time"

const (
	// Remote tool provider served to the search agent.
	SearchToolProvider = "tavily"

	// Default thread title before the first message is summarized.
	DefaultThreadTitle = "New Conversation"

	// Bounded waits for remote collaborators. Expiry surfaces as a reported
	// error, never an indefinite hang.
	AgentRunTimeout      = 120 * time.Second
	SummarizeTimeout     = 120 * time.Second
	TranscribeTimeout    = 60 * time.Second
	ToolDiscoveryTimeout = 15 * time.Second
	PersistTimeout       = 10 * time.Second

	// Attachment validation limits.
	MaxAttachmentSize = 20 * 1024 * 1024
	TextExtractLimit  = 100_000

	QAAgentInstruction = `You are a question answering assistant. Answer the user's question using the conversation history and, when a DOCUMENT CONTEXT section is present, ground your answer in that document. Be factual and concise; say so when the document does not contain the answer.`

	SearchAgentInstruction = `You are an expert searcher. Use the available search tools to find relevant information and answer user questions thoroughly.`

	DefaultAgentInstruction = `You are a helpful assistant. Answer the user's message using the conversation history. Be clear, direct and practical.`

	// Template joining the user's instruction with extracted document text
	// before the Q&A agent runs.
	DocumentContextTemplate = `INSTRUCTION:
%s

DOCUMENT CONTEXT:
%s`

	SummarizeSystemPrompt = `You are a summarization assistant specialized in long-form content.

When summarizing, you must:
- Preserve original meaning, intent, and logical flow
- Extract only the most relevant information
- Remove redundancy while keeping factual accuracy
- Use clear, structured, concise language

Constraints:
- No opinions, assumptions, or invented facts
- No altering context beyond compression
- If ambiguous, summarize only what is certain

Mandatory output format:
1. Executive Summary (1 paragraph, 3-5 sentences)
2. Main Points (bullet list, 3+ key ideas)
3. Key Takeaways (3-5 insights)
4. One-Sentence Summary (20 words or fewer)

Tone: neutral, professional, short, clear, direct. Summary length: 10-30% of the original.`

	ExtractAndSummarizePrompt = `You are a highly accurate document extraction and summarization engine. First transcribe the content of the attached file faithfully: preserve headings, lists and tables (use Markdown), mark illegible parts as "[Illegible]", and never invent text. Then summarize the transcription following these rules:
- Preserve original meaning and logical flow
- Extract only the most relevant information
- Output sections: Executive Summary, Main Points, Key Takeaways, One-Sentence Summary
Output only the summary, no conversational filler.`

	ThreadTitlePrompt = "Summarize this query in MAX 8 words for a chat thread name: `%s`"
)
