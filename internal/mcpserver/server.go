// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note store to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/halvard/daybook/internal/index"
	"github.com/halvard/daybook/internal/models"
	"github.com/halvard/daybook/internal/notestore"
)

// Server wraps the MCP server with note tools.
type Server struct {
	mcp      *server.MCPServer
	store    *notestore.Store
	enricher notestore.Enricher
}

// New creates an MCP server with all tools registered. enricher may be
// nil, in which case agenda_for_text always reports no agenda.
func New(store *notestore.Store, enricher notestore.Enricher) *Server {
	s := &Server{store: store, enricher: enricher}

	s.mcp = server.NewMCPServer(
		"Daybook",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, optionally restricted to the 'events' or 'standalone' partition."),
		mcp.WithString("kind", mcp.Description("Optional partition: 'events' or 'standalone' (empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Store-relative note path (e.g. standalone/2025-03-10_120000_Ideas.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search note titles and bodies. Queries shorter than 2 characters return nothing."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("create_standalone_note",
		mcp.WithDescription("Create a new standalone note with the given title."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
	), s.createStandaloneNote)

	s.mcp.AddTool(mcp.NewTool("agenda_for_text",
		mcp.WithDescription("Extract a meeting agenda from text containing an Indico event link."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text that may contain an Indico event URL")),
	), s.agendaForText)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := ""
	if k, err := req.RequireString("kind"); err == nil {
		kind = k
	}

	var notes []models.Note
	switch kind {
	case "":
		notes = s.store.AllNotes()
	case "events":
		notes = s.store.ListNotes(models.KindEvent)
	case "standalone":
		notes = s.store.ListNotes(models.KindStandalone)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q, want 'events' or 'standalone'", kind)), nil
	}

	var lines []string
	for _, n := range notes {
		lines = append(lines, fmt.Sprintf("%s\t%s", n.Path, n.Title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.store.LoadNote(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(note.Body), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	idx, err := index.Build(s.store.Snapshot())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer idx.Close()

	results, err := idx.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createStandaloneNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("title cannot be empty"), nil
	}

	note, err := s.store.CreateStandaloneNote(strings.TrimSpace(title), nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.Path)), nil
}

func (s *Server) agendaForText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.enricher == nil {
		return mcp.NewToolResultText("no agenda found"), nil
	}
	md := s.enricher.AgendaMarkdown(ctx, text)
	if md == "" {
		return mcp.NewToolResultText("no agenda found"), nil
	}
	return mcp.NewToolResultText(md), nil
}
