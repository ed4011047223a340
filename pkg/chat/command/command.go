package command

// Command is the closed set of chat commands the UI can select. Adding a
// command means extending this set, List() and the router's route table
// together.
type Command string

const (
	None    Command = ""
	Scrape  Command = "Scrape"
	Search  Command = "Search"
	Chat    Command = "Chat"
	Summary Command = "Summary"
)

// Parse validates a raw command string against the published set.
// Unknown values come back as None with ok=false so callers fall through to
// the default chat path instead of dispatching on a stray string.
func Parse(raw string) (Command, bool) {
	switch Command(raw) {
	case Scrape, Search, Chat, Summary:
		return Command(raw), true
	case None:
		return None, true
	default:
		return None, false
	}
}

// SearchClass reports whether the command routes to the search agent.
func (c Command) SearchClass() bool {
	return c == Search || c == Scrape
}

func (c Command) String() string {
	return string(c)
}

// Descriptor is one command tile published to the UI at session start.
type Descriptor struct {
	ID          Command `json:"id"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

// Starter is one suggestion tile shown when a chat begins.
type Starter struct {
	Label   string  `json:"label"`
	Message string  `json:"message"`
	Icon    string  `json:"icon"`
	Command Command `json:"command"`
}

// List returns the published command set. The slice is rebuilt per call so
// callers cannot mutate the process-wide set.
func List() []Descriptor {
	return []Descriptor{
		{ID: Scrape, Icon: "file-code-2", Description: "Extract content from a website"},
		{ID: Search, Icon: "globe", Description: "Find information on the web"},
		{ID: Chat, Icon: "message-square-text", Description: "Chat with the agent"},
		{ID: Summary, Icon: "pen-tool", Description: "Summarize provided content"},
	}
}

// Starters returns the starter prompt tiles shown on a fresh chat.
func Starters() []Starter {
	return []Starter{
		{
			Label:   "Learn machine learning",
			Message: "Recommend some resources to learn about machine learning",
			Icon:    "/public/starters/human-learn.svg",
			Command: Search,
		},
		{
			Label:   "Search a web page",
			Message: "Extract the main content from this site: https://go.dev/doc/effective_go",
			Icon:    "/public/starters/search-globe.svg",
			Command: Scrape,
		},
		{
			Label:   "Write some code",
			Message: "Write a script to automate sending daily email reports, and walk me through how I would set it up",
			Icon:    "/public/starters/code.svg",
			Command: Chat,
		},
	}
}
