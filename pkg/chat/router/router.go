package router

import (
	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/chat/command"
)

// Route is the execution path selected for one incoming message.
type Route int

const (
	RouteChat Route = iota
	RouteDocumentQA
	RouteSearch
	RouteSummary
)

func (r Route) String() string {
	switch r {
	case RouteDocumentQA:
		return "DOCUMENT_QA"
	case RouteSearch:
		return "SEARCH"
	case RouteSummary:
		return "SUMMARY"
	default:
		return "CHAT"
	}
}

// commandRoutes is the exhaustive route table for the published command set.
// It must be extended in lockstep with command.List().
var commandRoutes = map[command.Command]Route{
	command.Scrape:  RouteSearch,
	command.Search:  RouteSearch,
	command.Summary: RouteSummary,
	command.Chat:    RouteChat,
	command.None:    RouteChat,
}

// Resolve maps a message to exactly one route. Pure function: no state, the
// same inputs always produce the same route.
//
// Attachment presence dominates command selection: a message carrying a file
// routes to document Q&A even when a search command is selected, because
// documents ground answers more strongly than live search.
func Resolve(msg chat.Message) Route {
	if len(msg.Attachments) > 0 {
		return RouteDocumentQA
	}
	if route, ok := commandRoutes[msg.Command]; ok {
		return route
	}
	// Unreachable when commands are parsed through command.Parse; fall back
	// to plain chat rather than failing the turn.
	return RouteChat
}
