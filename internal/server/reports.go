package server

import (
	"context"

	"github.com/cerfaos/analyse/internal/logging"
	"github.com/cerfaos/analyse/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReportGenerator defines the interface for period report generation
type ReportGenerator interface {
	MonthlyReport(ctx context.Context, userID int64, month, year int) (*report.Report, error)
	AnnualReport(ctx context.Context, userID int64, year int) (*report.Report, error)
}

// Input types

// GenerateMonthlyReportInput - input for generating a monthly report
type GenerateMonthlyReportInput struct {
	UserID int64 `json:"user_id" jsonschema:"The athlete's user id."`
	Month  int   `json:"month" jsonschema:"Calendar month to report on, 1 (janvier) through 12 (décembre)."`
	Year   int   `json:"year" jsonschema:"Four-digit calendar year, e.g. 2025."`
}

// GenerateAnnualReportInput - input for generating an annual report
type GenerateAnnualReportInput struct {
	UserID int64 `json:"user_id" jsonschema:"The athlete's user id."`
	Year   int   `json:"year" jsonschema:"Four-digit calendar year, e.g. 2025."`
}

// registerReportTools registers the monthly and annual report tools
func (s *Server) registerReportTools() {
	logging.Debug("Registering tool", "name", "generate_monthly_report")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "generate_monthly_report",
		Description: `Generate the full analytics report for one calendar month of training.

Use when:
- User asks "How did my training go in March?" or "Monthly recap for July 2025"
- User wants totals, heart-rate zone distribution, training load trend, top activities, or new records for a month

Parameters:
- user_id (integer): The athlete's user id.
- month (integer): Month number, 1-12.
- year (integer): Four-digit year.

Returns: Report with period label, summary totals (distance, duration, elevation, calories, trimp, averages, indoor/outdoor split), heart-rate zones and time distribution, polarization profile, CTL/ATL training load history and deltas, top-5 rankings by distance/duration/trimp/elevation, new and improved personal records, and per-type breakdown.

Example: {"user_id": 1, "month": 3, "year": 2025}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Generate Monthly Report",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.generateMonthlyReport)

	logging.Debug("Registering tool", "name", "generate_annual_report")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "generate_annual_report",
		Description: `Generate the full analytics report for one calendar year of training.

Use when:
- User asks "Year in review" or "How was my 2025 season?"
- User wants annual totals plus the month-by-month breakdown

Parameters:
- user_id (integer): The athlete's user id.
- year (integer): Four-digit year.

Returns: The same report shape as the monthly tool, plus a monthly_breakdown array with exactly 12 entries (one per calendar month) of count/distance/duration/elevation/trimp sums and speed/heart-rate averages.

Example: {"user_id": 1, "year": 2025}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Generate Annual Report",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.generateAnnualReport)
}

// generateMonthlyReport builds the report for one calendar month
func (s *Server) generateMonthlyReport(ctx context.Context, req *mcp.CallToolRequest, input GenerateMonthlyReportInput) (*mcp.CallToolResult, *report.Report, error) {
	logging.Info("MCP tool call", "tool", "generate_monthly_report", "user_id", input.UserID, "month", input.Month, "year", input.Year)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "generate_monthly_report", "input", logging.ToJSON(input))
	}

	if input.UserID <= 0 {
		return nil, nil, NewInvalidInputError("user_id must be a positive integer")
	}
	if input.Month < 1 || input.Month > 12 {
		return nil, nil, NewInvalidInputError("month must be between 1 and 12")
	}
	if input.Year < 1 {
		return nil, nil, NewInvalidInputError("year must be a positive integer")
	}

	rep, err := s.generator.MonthlyReport(ctx, input.UserID, input.Month, input.Year)
	if err != nil {
		if report.IsNotFound(err) {
			return nil, nil, NewNotFoundErrorWithID("user", input.UserID)
		}
		return nil, nil, NewStorageError("monthly report generation", err)
	}
	return nil, rep, nil
}

// generateAnnualReport builds the report for one calendar year
func (s *Server) generateAnnualReport(ctx context.Context, req *mcp.CallToolRequest, input GenerateAnnualReportInput) (*mcp.CallToolResult, *report.Report, error) {
	logging.Info("MCP tool call", "tool", "generate_annual_report", "user_id", input.UserID, "year", input.Year)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "generate_annual_report", "input", logging.ToJSON(input))
	}

	if input.UserID <= 0 {
		return nil, nil, NewInvalidInputError("user_id must be a positive integer")
	}
	if input.Year < 1 {
		return nil, nil, NewInvalidInputError("year must be a positive integer")
	}

	rep, err := s.generator.AnnualReport(ctx, input.UserID, input.Year)
	if err != nil {
		if report.IsNotFound(err) {
			return nil, nil, NewNotFoundErrorWithID("user", input.UserID)
		}
		return nil, nil, NewStorageError("annual report generation", err)
	}
	return nil, rep, nil
}
