package server

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cerfaos/analyse/internal/report"
	"github.com/cerfaos/analyse/internal/store"
)

// mockGenerator implements ReportGenerator for testing
type mockGenerator struct {
	report *report.Report
	err    error

	monthlyCalls []string
	annualCalls  []string
}

func (m *mockGenerator) MonthlyReport(ctx context.Context, userID int64, month, year int) (*report.Report, error) {
	m.monthlyCalls = append(m.monthlyCalls, fmt.Sprintf("%d/%d/%d", userID, month, year))
	return m.report, m.err
}

func (m *mockGenerator) AnnualReport(ctx context.Context, userID int64, year int) (*report.Report, error) {
	m.annualCalls = append(m.annualCalls, fmt.Sprintf("%d/%d", userID, year))
	return m.report, m.err
}

func TestGenerateMonthlyReport(t *testing.T) {
	t.Parallel()

	want := &report.Report{Period: report.MonthlyPeriod(3, 2025)}
	gen := &mockGenerator{report: want}
	s := New(gen)

	_, got, err := s.generateMonthlyReport(context.Background(), nil, GenerateMonthlyReportInput{
		UserID: 1, Month: 3, Year: 2025,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("report not passed through")
	}
	if len(gen.monthlyCalls) != 1 || gen.monthlyCalls[0] != "1/3/2025" {
		t.Errorf("calls = %v", gen.monthlyCalls)
	}
}

func TestGenerateMonthlyReportValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input GenerateMonthlyReportInput
	}{
		{name: "zero user", input: GenerateMonthlyReportInput{UserID: 0, Month: 3, Year: 2025}},
		{name: "month too low", input: GenerateMonthlyReportInput{UserID: 1, Month: 0, Year: 2025}},
		{name: "month too high", input: GenerateMonthlyReportInput{UserID: 1, Month: 13, Year: 2025}},
		{name: "zero year", input: GenerateMonthlyReportInput{UserID: 1, Month: 3, Year: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := &mockGenerator{report: &report.Report{}}
			s := New(gen)

			_, _, err := s.generateMonthlyReport(context.Background(), nil, tt.input)
			var toolErr *ToolError
			if !errors.As(err, &toolErr) {
				t.Fatalf("error = %v, want ToolError", err)
			}
			if toolErr.Code != ErrInvalidInput {
				t.Errorf("code = %q, want %q", toolErr.Code, ErrInvalidInput)
			}
			if len(gen.monthlyCalls) != 0 {
				t.Errorf("generator called with invalid input")
			}
		})
	}
}

func TestGenerateAnnualReport(t *testing.T) {
	t.Parallel()

	want := &report.Report{Period: report.AnnualPeriod(2025)}
	gen := &mockGenerator{report: want}
	s := New(gen)

	_, got, err := s.generateAnnualReport(context.Background(), nil, GenerateAnnualReportInput{
		UserID: 2, Year: 2025,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("report not passed through")
	}
	if len(gen.annualCalls) != 1 || gen.annualCalls[0] != "2/2025" {
		t.Errorf("calls = %v", gen.annualCalls)
	}
}

func TestGenerateReportUserNotFound(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{err: fmt.Errorf("fetching profile: %w", store.ErrNotFound)}
	s := New(gen)

	_, _, err := s.generateMonthlyReport(context.Background(), nil, GenerateMonthlyReportInput{
		UserID: 99, Month: 3, Year: 2025,
	})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error = %v, want ToolError", err)
	}
	if toolErr.Code != ErrNotFound {
		t.Errorf("code = %q, want %q", toolErr.Code, ErrNotFound)
	}
}

func TestGenerateReportStorageFailure(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{err: errors.New("disk exploded")}
	s := New(gen)

	_, _, err := s.generateAnnualReport(context.Background(), nil, GenerateAnnualReportInput{
		UserID: 1, Year: 2025,
	})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error = %v, want ToolError", err)
	}
	if toolErr.Code != ErrStorageError {
		t.Errorf("code = %q, want %q", toolErr.Code, ErrStorageError)
	}
}
