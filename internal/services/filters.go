package services

import (
	"sales-dashboard/internal/models"
)

// level describes how a field's option list is narrowed. The first parent
// with a non-empty selection decides the universe; with none, every row counts.
type level struct {
	field   models.Field
	parents []models.Field
}

// Coarse levels precede the levels they narrow.
var cascade = []level{
	{field: models.FieldRegion},
	{field: models.FieldState, parents: []models.Field{models.FieldRegion}},
	{field: models.FieldCity, parents: []models.Field{models.FieldState, models.FieldRegion}},
	{field: models.FieldCategory},
	{field: models.FieldSubCategory, parents: []models.Field{models.FieldCategory}},
	{field: models.FieldProductName, parents: []models.Field{models.FieldSubCategory, models.FieldCategory}},
}

// Resolution is the outcome of one filter pass.
type Resolution struct {
	Options   models.Options
	Selection models.Selection
	Orders    []models.Order
}

// Resolve computes the option list of every field and the filtered rows.
//
// Selected values that are not offered at their level, because a coarser
// selection has narrowed the universe, are dropped before they take part in
// narrowing or filtering. The returned Selection is that normalized form.
func Resolve(orders []models.Order, sel models.Selection) Resolution {
	var (
		options    models.Options
		normalized models.Selection
	)

	for _, lvl := range cascade {
		universe := orders
		for _, parent := range lvl.parents {
			if picked := normalized.Get(parent); len(picked) > 0 {
				universe = filterField(orders, parent, toSet(picked))
				break
			}
		}

		offered := Distinct(universe, lvl.field)
		options.Set(lvl.field, offered)
		normalized.Set(lvl.field, intersect(sel.Get(lvl.field), offered))
	}

	return Resolution{
		Options:   options,
		Selection: normalized,
		Orders:    Filter(orders, normalized),
	}
}

// Filter keeps the rows that match every non-empty field selection: OR within
// a field, AND across fields. An empty selection returns orders unchanged.
func Filter(orders []models.Order, sel models.Selection) []models.Order {
	type constraint struct {
		field models.Field
		set   map[string]struct{}
	}

	var constraints []constraint
	for _, f := range models.Fields {
		if picked := sel.Get(f); len(picked) > 0 {
			constraints = append(constraints, constraint{field: f, set: toSet(picked)})
		}
	}
	if len(constraints) == 0 {
		return orders
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		keep := true
		for _, c := range constraints {
			if _, ok := c.set[o.Value(c.field)]; !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, o)
		}
	}
	return out
}

// Distinct returns the values of a field in order of first appearance.
func Distinct(orders []models.Order, f models.Field) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, o := range orders {
		v := o.Value(f)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

func filterField(orders []models.Order, f models.Field, set map[string]struct{}) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if _, ok := set[o.Value(f)]; ok {
			out = append(out, o)
		}
	}
	return out
}

// intersect keeps the picked values that are offered, in pick order, once each.
func intersect(picked, offered []string) []string {
	if len(picked) == 0 {
		return nil
	}
	allowed := toSet(offered)
	out := make([]string, 0, len(picked))
	for _, v := range picked {
		if _, ok := allowed[v]; !ok {
			continue
		}
		delete(allowed, v)
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
