// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver exposes extraction and planning as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pdiddy/syllabus-planner/internal/extract"
	"github.com/pdiddy/syllabus-planner/internal/plan"
	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// NewServer creates an MCP server backed by ex and planner. A nil planner
// uses the heuristic planner.
func NewServer(ex extract.Extractor, planner *plan.Planner, version string) *server.MCPServer {
	if planner == nil {
		planner = &plan.Planner{}
	}
	s := server.NewMCPServer("Syllabus Planner", version)

	s.AddTool(mcp.NewTool("extract_assignments",
		mcp.WithDescription("Extract assignment records (title, due date, deliverables, weight) from syllabus text."),
		mcp.WithString("text", mcp.Description("Syllabus or assignment text"), mcp.Required()),
		mcp.WithString("source_doc", mcp.Description("Identifier recorded as each record's source")),
	), extractHandler(ex))

	s.AddTool(mcp.NewTool("plan_assignment",
		mcp.WithDescription("Extract assignments from text and return each with a backward-scheduled milestone plan."),
		mcp.WithString("text", mcp.Description("Syllabus or assignment text"), mcp.Required()),
		mcp.WithString("source_doc", mcp.Description("Identifier recorded as each record's source")),
	), planHandler(ex, planner))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func extractHandler(ex extract.Extractor) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records, errResult := extractRecords(ctx, ex, request)
		if errResult != nil {
			return errResult, nil
		}
		return jsonResult(records)
	}
}

func planHandler(ex extract.Extractor, planner *plan.Planner) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records, errResult := extractRecords(ctx, ex, request)
		if errResult != nil {
			return errResult, nil
		}

		planned := make([]types.PlannedAssignment, len(records))
		for i, a := range records {
			planned[i] = planner.Plan(ctx, a)
		}
		return jsonResult(planned)
	}
}

func extractRecords(ctx context.Context, ex extract.Extractor, request mcp.CallToolRequest) ([]types.Assignment, *mcp.CallToolResult) {
	text := mcp.ParseString(request, "text", "")
	if text == "" {
		return nil, mcp.NewToolResultError("text is required")
	}
	sourceDoc := mcp.ParseString(request, "source_doc", "")

	records, err := ex.Extract(ctx, types.Document{
		ID:    sourceDoc,
		Path:  sourceDoc,
		Text:  text,
		Pages: []string{text},
	})
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err))
	}
	return records, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
