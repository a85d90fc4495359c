package leave

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"intranet/internal/domain/auth"
)

const reportPageSize = 500

// BuildPDFReport renders the full request log as a PDF for reviewer-eligible
// callers.
func (s *Service) BuildPDFReport(ctx context.Context, callerRole string) ([]byte, error) {
	requests, err := s.reportRows(ctx, callerRole)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Requests")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", s.Now().UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	for _, r := range requests {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, fmt.Sprintf("%s  %s to %s  [%s]", r.LeaveType, r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), r.Status))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Requested by %s on %s", r.UserID, r.CreatedAt.Format("2006-01-02")))
		pdf.Ln(5)
		if r.ReviewedAt != nil {
			line := fmt.Sprintf("Reviewed by %s on %s", r.ReviewerID, r.ReviewedAt.Format("2006-01-02"))
			if r.ReviewerComments != "" {
				line += ": " + r.ReviewerComments
			}
			pdf.Cell(0, 6, line)
			pdf.Ln(5)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildCSVReport renders the same rows as CSV.
func (s *Service) BuildCSVReport(ctx context.Context, callerRole string) ([]byte, error) {
	requests, err := s.reportRows(ctx, callerRole)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"id", "userId", "leaveType", "startDate", "endDate", "status", "reviewerId", "reviewedAt", "reviewerComments", "createdAt"}); err != nil {
		return nil, err
	}
	for _, r := range requests {
		reviewedAt := ""
		if r.ReviewedAt != nil {
			reviewedAt = r.ReviewedAt.Format(time.RFC3339)
		}
		record := []string{
			r.ID, r.UserID, r.LeaveType,
			r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"),
			r.Status, r.ReviewerID, reviewedAt, r.ReviewerComments,
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) reportRows(ctx context.Context, callerRole string) ([]LeaveRequest, error) {
	if !auth.CanViewAll(callerRole) {
		return nil, ErrForbidden
	}

	var out []LeaveRequest
	offset := 0
	for {
		page, _, err := s.store.List(ctx, "", reportPageSize, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < reportPageSize {
			return out, nil
		}
		offset += reportPageSize
	}
}
