package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const (
	toolSummary = "get_complaint_summary"
	toolDates   = "list_available_dates"
)

// SummaryInput selects the month of a complaint summary.
type SummaryInput struct {
	Month string `json:"month,omitempty" jsonschema:"Month to summarize as YYYY-MM. Defaults to the current month."`
}

// DatesInput takes no arguments.
type DatesInput struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: toolSummary,
		Description: "Summarize the complaints received in one month: totals by status, by handling staff (petugas), " +
			"by category and unit, and average response times. Guidance: call 'list_available_dates' first if you do not know which months hold data.",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolDates,
		Description: "List every month (YYYY-MM) in which complaints were entered, newest year first and months ascending within a year.",
	}, s.handleDates)
}

func (s *Server) handleSummary(ctx context.Context, _ *mcp.CallToolRequest, in SummaryInput) (*mcp.CallToolResult, any, error) {
	month := in.Month
	if month == "" {
		month = s.reports.DefaultMonth()
	}
	log.Info().Str("tool", toolSummary).Str("month", month).Msg("Tool called")

	data, err := s.reports.SummaryJSON(ctx, month)
	if err != nil {
		log.Error().Err(err).Str("tool", toolSummary).Msg("Tool failed")
		return errorResult(fmt.Sprintf("Server Error: %v", err)), nil, nil
	}
	return textResult(string(data)), nil, nil
}

func (s *Server) handleDates(ctx context.Context, _ *mcp.CallToolRequest, _ DatesInput) (*mcp.CallToolResult, any, error) {
	log.Info().Str("tool", toolDates).Msg("Tool called")

	dates, err := s.reports.AvailableDates(ctx)
	if err != nil {
		log.Error().Err(err).Str("tool", toolDates).Msg("Tool failed")
		return errorResult("Failed to retrieve available dates"), nil, nil
	}
	data, err := json.Marshal(dates)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode dates: %w", err)
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}
