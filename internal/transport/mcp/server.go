package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/pkg/log"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 50
)

// Server exposes hospital search and the conversation as MCP tools over
// stdio. It implements srv.Service.
type Server struct {
	mcp      *mcpserver.MCPServer
	store    core.HospitalStore
	conv     core.Conversation
	sessions core.SessionAdmin
	in       io.Reader
	out      io.Writer
}

func NewServer(store core.HospitalStore, conv core.Conversation, sessions core.SessionAdmin) *Server {
	s := &Server{
		mcp:      mcpserver.NewMCPServer(core.LoopName, core.LoopVersion, mcpserver.WithToolCapabilities(false)),
		store:    store,
		conv:     conv,
		sessions: sessions,
		in:       os.Stdin,
		out:      os.Stdout,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcpproto.NewTool("search_hospitals",
		mcpproto.WithDescription("Search the hospital network by name and/or city. Matching is case-insensitive and partial."),
		mcpproto.WithString("query", mcpproto.Description("Part of the hospital name, e.g. \"apollo\"")),
		mcpproto.WithString("city", mcpproto.Description("City, e.g. \"Bengaluru\"")),
		mcpproto.WithNumber("limit", mcpproto.Description("Maximum records to return"), mcpproto.Min(1), mcpproto.Max(maxSearchLimit)),
	), s.searchHospitals)

	s.mcp.AddTool(mcpproto.NewTool("converse",
		mcpproto.WithDescription("Ask the hospital assistant a question. Reuse session_id to keep context across turns."),
		mcpproto.WithString("text", mcpproto.Required(), mcpproto.Description("The user's utterance")),
		mcpproto.WithString("session_id", mcpproto.Description("Conversation id returned by a previous call")),
	), s.converse)

	s.mcp.AddTool(mcpproto.NewTool("reset_session",
		mcpproto.WithDescription("Forget a conversation"),
		mcpproto.WithString("session_id", mcpproto.Required()),
	), s.resetSession)
}

// MCP returns the underlying server, used by in-process clients in tests.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting mcp stdio server")
	stdio := mcpserver.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, s.in, s.out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio server stopped: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) searchHospitals(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	q := core.Query{
		Name:  strings.TrimSpace(req.GetString("query", "")),
		City:  strings.TrimSpace(req.GetString("city", "")),
		Limit: req.GetInt("limit", defaultSearchLimit),
	}
	if q.Name == "" && q.City == "" {
		return mcpproto.NewToolResultError("provide query, city or both"), nil
	}
	if q.Limit <= 0 || q.Limit > maxSearchLimit {
		q.Limit = defaultSearchLimit
	}

	total, err := s.store.Count(ctx, core.Query{Name: q.Name, City: q.City})
	if err != nil {
		return nil, fmt.Errorf("failed to count hospitals: %w", err)
	}
	records, err := s.store.Filter(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search hospitals: %w", err)
	}

	return jsonResult(struct {
		Total     int                   `json:"total"`
		Hospitals []core.HospitalRecord `json:"hospitals"`
	}{Total: total, Hospitals: records})
}

func (s *Server) converse(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	resp := s.conv.Converse(ctx, core.Request{
		Text:      text,
		SessionID: req.GetString("session_id", ""),
	})
	return jsonResult(resp)
}

func (s *Server) resetSession(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	if !s.sessions.Reset(id) {
		return mcpproto.NewToolResultText("no such idle session"), nil
	}
	return mcpproto.NewToolResultText("session reset"), nil
}

func jsonResult(v any) (*mcpproto.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcpproto.NewToolResultText(string(data)), nil
}
