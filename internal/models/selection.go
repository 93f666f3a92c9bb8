package models

// Selection holds the values picked in each multi-select. An empty slice
// means the field imposes no constraint.
type Selection struct {
	Region      []string `json:"region"`
	State       []string `json:"state"`
	City        []string `json:"city"`
	Category    []string `json:"category"`
	SubCategory []string `json:"sub_category"`
	ProductName []string `json:"product_name"`
}

func (s Selection) Get(f Field) []string {
	switch f {
	case FieldRegion:
		return s.Region
	case FieldState:
		return s.State
	case FieldCity:
		return s.City
	case FieldCategory:
		return s.Category
	case FieldSubCategory:
		return s.SubCategory
	case FieldProductName:
		return s.ProductName
	default:
		return nil
	}
}

func (s *Selection) Set(f Field, values []string) {
	switch f {
	case FieldRegion:
		s.Region = values
	case FieldState:
		s.State = values
	case FieldCity:
		s.City = values
	case FieldCategory:
		s.Category = values
	case FieldSubCategory:
		s.SubCategory = values
	case FieldProductName:
		s.ProductName = values
	}
}

// IsEmpty reports whether no field has a selected value.
func (s Selection) IsEmpty() bool {
	for _, f := range Fields {
		if len(s.Get(f)) > 0 {
			return false
		}
	}
	return true
}

// Options are the values offered by each multi-select after cascading.
type Options struct {
	Region      []string `json:"region"`
	State       []string `json:"state"`
	City        []string `json:"city"`
	Category    []string `json:"category"`
	SubCategory []string `json:"sub_category"`
	ProductName []string `json:"product_name"`
}

func (o Options) Get(f Field) []string {
	switch f {
	case FieldRegion:
		return o.Region
	case FieldState:
		return o.State
	case FieldCity:
		return o.City
	case FieldCategory:
		return o.Category
	case FieldSubCategory:
		return o.SubCategory
	case FieldProductName:
		return o.ProductName
	default:
		return nil
	}
}

func (o *Options) Set(f Field, values []string) {
	switch f {
	case FieldRegion:
		o.Region = values
	case FieldState:
		o.State = values
	case FieldCity:
		o.City = values
	case FieldCategory:
		o.Category = values
	case FieldSubCategory:
		o.SubCategory = values
	case FieldProductName:
		o.ProductName = values
	}
}

// Signals keys the selection by signal name. Every field is present and
// unselected fields map to an empty list, never null.
func (s Selection) Signals() map[string][]string {
	out := make(map[string][]string, len(Fields))
	for _, f := range Fields {
		values := s.Get(f)
		if values == nil {
			values = []string{}
		}
		out[f.Signal()] = values
	}
	return out
}
