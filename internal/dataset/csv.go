package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"sales-dashboard/internal/models"
)

// ReadCSV parses an order table. Any malformed row fails the whole read.
func ReadCSV(ctx context.Context, r io.Reader) ([]models.Order, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, 1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		order, err := cols.order(record, line)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}
