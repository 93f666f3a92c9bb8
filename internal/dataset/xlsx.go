package dataset

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

// ReadXLSX parses the first worksheet of a workbook. The first row is the
// header; fully blank rows are skipped.
func ReadXLSX(ctx context.Context, r io.Reader) ([]models.Order, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	cols, err := indexColumns(rows[0])
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blank(row) {
			continue
		}

		order, err := cols.order(row, i+2)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
