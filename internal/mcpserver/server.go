// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the desktop contents as tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dagaz/internal/assistant"
	"github.com/starford/dagaz/internal/store"
)

// Server wraps the MCP server with Dagaz tools.
type Server struct {
	mcp    *server.MCPServer
	store  store.Store
	clippy *assistant.Service
}

// New creates a new MCP server with all desktop tools registered. clippy may
// be nil, in which case the ask_assistant tool reports itself unavailable.
func New(st store.Store, clippy *assistant.Service) *Server {
	s := &Server{store: st, clippy: clippy}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List all desktop folders with their names and positions."),
	), s.listFolders)

	s.mcp.AddTool(mcp.NewTool("list_folder_items",
		mcp.WithDescription("List the items (files, bookmarks, notes) of a folder."),
		mcp.WithString("folder_id", mcp.Required(), mcp.Description("Id of the folder to list")),
	), s.listFolderItems)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all uploaded documents."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the extracted text content of an uploaded document."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Id of the document to read")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("ask_assistant",
		mcp.WithDescription("Ask the desktop assistant a free-form question about stored "+
			"folders, items, documents, chat history, and mailing lists."),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question to answer")),
	), s.askAssistant)

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

func (s *Server) listFolders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folders, err := s.store.Folders(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(folders, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listFolderItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folderID, err := req.RequireString("folder_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.store.ItemsByFolder(ctx, folderID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.store.Documents(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Content previews stay out of the listing; use read_document for text.
	type docInfo struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		OriginalName string `json:"originalName"`
	}
	infos := make([]docInfo, len(docs))
	for i, d := range docs {
		infos[i] = docInfo{ID: d.ID, Name: d.Name, OriginalName: d.OriginalName}
	}
	out, _ := json.MarshalIndent(infos, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.store.Document(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

func (s *Server) askAssistant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.clippy == nil {
		return mcp.NewToolResultError("assistant is not configured"), nil
	}
	answer, err := s.clippy.Ask(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(answer), nil
}
