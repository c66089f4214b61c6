package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
	"github.com/GregMSThompson/finance-assistant/pkg/money"
)

const (
	exportMonths = 12
	utf8BOM      = "\uFEFF"
)

var exportHeader = []string{"month", "income", "expense", "goalsSavings", "balance"}

type exportArchiver interface {
	PutExport(ctx context.Context, uid string, data []byte) (string, error)
}

type exportService struct {
	txs      transactionReader
	archive  exportArchiver
	clockNow func() time.Time
}

func NewExportService(txs transactionReader, archive exportArchiver) *exportService {
	return &exportService{txs: txs, archive: archive, clockNow: time.Now}
}

// MonthlyAggregates returns the twelve months ending with the current one,
// oldest first. Months without transactions are zero rows.
func (s *exportService) MonthlyAggregates(ctx context.Context, uid string) ([]dto.MonthlyAggregate, error) {
	months := lastMonths(s.clockNow(), exportMonths)
	from := months[0].Format(dateLayout)
	to := monthKey(months[len(months)-1]) + "-31"

	txs, err := s.txs.ListByDateRange(ctx, uid, from, to)
	if err != nil {
		return nil, err
	}

	byMonth := map[string][]*models.Transaction{}
	for _, t := range txs {
		m := monthOfDate(t.Date)
		byMonth[m] = append(byMonth[m], t)
	}

	rows := make([]dto.MonthlyAggregate, 0, len(months))
	for _, m := range months {
		key := monthKey(m)
		totals := sumMonth(byMonth[key])
		rows = append(rows, dto.MonthlyAggregate{
			Month:        key,
			Income:       totals.Income,
			Expense:      totals.Expense,
			GoalsSavings: totals.GoalsSavings,
			Balance:      money.Sub(money.Sub(totals.Income, totals.Expense), totals.GoalsSavings),
		})
	}
	return rows, nil
}

func (s *exportService) ExportCSV(ctx context.Context, uid string) ([]byte, error) {
	rows, err := s.MonthlyAggregates(ctx, uid)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteExportCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Archive stores the CSV export in the configured bucket.
func (s *exportService) Archive(ctx context.Context, uid string) (dto.ExportArchiveResponse, error) {
	log := logger.FromContext(ctx)

	if s.archive == nil {
		return dto.ExportArchiveResponse{}, errs.NewValidationError("export archive is not configured")
	}
	data, err := s.ExportCSV(ctx, uid)
	if err != nil {
		return dto.ExportArchiveResponse{}, err
	}
	name, err := s.archive.PutExport(ctx, uid, data)
	if err != nil {
		log.Error("failed to archive export", "error", err)
		return dto.ExportArchiveResponse{}, err
	}

	log.Info("export archived", "object", name)
	return dto.ExportArchiveResponse{Object: name, Rows: exportMonths}, nil
}

// WriteExportCSV writes rows as UTF-8 CSV with a BOM and one header row.
func WriteExportCSV(w io.Writer, rows []dto.MonthlyAggregate) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Month,
			money.Format(r.Income),
			money.Format(r.Expense),
			money.Format(r.GoalsSavings),
			money.Format(r.Balance),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseExportCSV reads a file produced by WriteExportCSV.
func ParseExportCSV(r io.Reader) ([]dto.MonthlyAggregate, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), utf8BOM)))
	cr.FieldsPerRecord = len(exportHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errs.NewValidationError("invalid export csv: " + err.Error())
	}
	if len(records) == 0 || strings.Join(records[0], ",") != strings.Join(exportHeader, ",") {
		return nil, errs.NewValidationError("invalid export csv header")
	}

	rows := make([]dto.MonthlyAggregate, 0, len(records)-1)
	for i, rec := range records[1:] {
		var vals [4]float64
		for j := range vals {
			v, err := money.Parse(rec[j+1])
			if err != nil {
				return nil, errs.NewValidationError(fmt.Sprintf("invalid amount on line %d: %q", i+2, rec[j+1]))
			}
			vals[j] = v
		}
		rows = append(rows, dto.MonthlyAggregate{
			Month:        rec[0],
			Income:       vals[0],
			Expense:      vals[1],
			GoalsSavings: vals[2],
			Balance:      vals[3],
		})
	}
	return rows, nil
}
