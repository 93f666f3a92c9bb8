package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// signalsParam is the query parameter datastar uses for GET actions.
const signalsParam = "datastar"

// selectionSignals is the datastar signal shape of a selection. Signal
// names are camelCase while the JSON API uses snake_case.
type selectionSignals struct {
	Region      []string `json:"region"`
	State       []string `json:"state"`
	City        []string `json:"city"`
	Category    []string `json:"category"`
	SubCategory []string `json:"subCategory"`
	ProductName []string `json:"productName"`
}

func (s selectionSignals) selection() models.Selection {
	return models.Selection{
		Region:      s.Region,
		State:       s.State,
		City:        s.City,
		Category:    s.Category,
		SubCategory: s.SubCategory,
		ProductName: s.ProductName,
	}
}

// ParseSelection reads the selection from the request. Datastar requests
// carry it as JSON signals; plain requests use one query parameter per
// value, repeated for multiple values. Values are never split on commas
// since product names contain them.
func ParseSelection(r *http.Request) (models.Selection, error) {
	var sel models.Selection

	query := r.URL.Query()
	if query.Has(signalsParam) {
		var signals selectionSignals
		if err := datastar.ReadSignals(r, &signals); err != nil {
			return models.Selection{}, fmt.Errorf("read signals: %w", err)
		}
		sel = signals.selection()
	} else {
		for _, f := range models.Fields {
			sel.Set(f, query[string(f)])
		}
	}

	for _, f := range models.Fields {
		sel.Set(f, clean(sel.Get(f)))
	}
	return sel, nil
}

// EncodeSelection is the inverse of ParseSelection for plain requests.
func EncodeSelection(sel models.Selection) string {
	values := url.Values{}
	for _, f := range models.Fields {
		for _, v := range sel.Get(f) {
			values.Add(string(f), v)
		}
	}
	return values.Encode()
}

// clean trims values and drops blanks and repeats, keeping order.
func clean(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func sameSelection(a, b models.Selection) bool {
	for _, f := range models.Fields {
		x, y := a.Get(f), b.Get(f)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
	}
	return true
}

func invalidSelection(err error) *errors.AppError {
	return errors.Wrap(err, errors.CodeBadRequest, "Invalid selection").WithDetails(err.Error())
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errors.WriteError(w, logger, err, observability.GetRequestID(r.Context()))
}
