package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/helpers"
	"github.com/GregMSThompson/finance-assistant/pkg/money"
)

type stubArchiver struct {
	uid  string
	data []byte
	err  error
}

func (s *stubArchiver) PutExport(_ context.Context, uid string, data []byte) (string, error) {
	s.uid, s.data = uid, data
	if s.err != nil {
		return "", s.err
	}
	return "exports/" + uid + "/x.csv", nil
}

func newTestExportService(archive exportArchiver) *exportService {
	txs := &stubTransactionReader{txs: []*models.Transaction{
		{Type: models.TransactionIncome, Amount: 4200.5, Date: "2025-03-01"},
		{Type: models.TransactionExpense, Amount: 1500.25, PaymentMethod: models.PaymentPix, Date: "2025-03-02"},
		{Type: models.TransactionSaving, Amount: 300, PaymentMethod: models.PaymentPix, Date: "2025-03-03"},
		{Type: models.TransactionExpense, Amount: 99, PaymentMethod: models.PaymentCard, Date: "2025-03-04"},
		{Type: models.TransactionIncome, Amount: 1000, Date: "2024-04-30"},
		{Type: models.TransactionIncome, Amount: 1000, Date: "2024-03-31"},
	}}
	svc := NewExportService(txs, archive)
	svc.clockNow = func() time.Time { return time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestMonthlyAggregatesCoverTwelveMonths(t *testing.T) {
	svc := newTestExportService(nil)

	rows, err := svc.MonthlyAggregates(helpers.TestCtx(), "user")
	if err != nil {
		t.Fatalf("MonthlyAggregates error: %v", err)
	}
	if len(rows) != 12 {
		t.Fatalf("rows = %d, want 12", len(rows))
	}
	if rows[0].Month != "2024-04" || rows[0].Income != 1000 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	last := rows[11]
	if last.Month != "2025-03" || last.Income != 4200.5 || last.Expense != 1500.25 || last.GoalsSavings != 300 {
		t.Fatalf("unexpected last row: %+v", last)
	}
	if last.Balance != 2400.25 {
		t.Fatalf("balance = %v, want 2400.25", last.Balance)
	}
}

func TestExportCSVRoundTrip(t *testing.T) {
	svc := newTestExportService(nil)
	ctx := helpers.TestCtx()

	want, err := svc.MonthlyAggregates(ctx, "user")
	if err != nil {
		t.Fatalf("MonthlyAggregates error: %v", err)
	}
	data, err := svc.ExportCSV(ctx, "user")
	if err != nil {
		t.Fatalf("ExportCSV error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatalf("missing BOM")
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 13 {
		t.Fatalf("lines = %d, want 13", len(lines))
	}
	if !strings.HasSuffix(lines[12], "2025-03,4200.50,1500.25,300.00,2400.25") {
		t.Fatalf("unexpected last line: %q", lines[12])
	}

	got, err := ParseExportCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseExportCSV error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("parsed %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], want[i])
		}
		if got[i].Balance != money.Sub(money.Sub(got[i].Income, got[i].Expense), got[i].GoalsSavings) {
			t.Fatalf("row %d balance mismatch: %+v", i, got[i])
		}
	}
}

func TestParseExportCSVRejectsBadHeader(t *testing.T) {
	_, err := ParseExportCSV(strings.NewReader("a,b,c,d,e\n"))
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestArchiveUploadsCSV(t *testing.T) {
	archive := &stubArchiver{}
	svc := newTestExportService(archive)

	res, err := svc.Archive(helpers.TestCtx(), "user")
	if err != nil {
		t.Fatalf("Archive error: %v", err)
	}
	if res.Object != "exports/user/x.csv" || res.Rows != 12 || archive.uid != "user" || len(archive.data) == 0 {
		t.Fatalf("unexpected archive result: %+v", res)
	}
}

func TestArchiveWithoutBucket(t *testing.T) {
	svc := newTestExportService(nil)
	_, err := svc.Archive(helpers.TestCtx(), "user")
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWriteExportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExportCSV(&buf, []dto.MonthlyAggregate{}); err != nil {
		t.Fatalf("WriteExportCSV error: %v", err)
	}
	if got := strings.TrimPrefix(buf.String(), "\uFEFF"); got != "month,income,expense,goalsSavings,balance\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}
