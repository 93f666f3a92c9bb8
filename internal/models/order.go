package models

// Order is one row of the sales table. Rows have no identity beyond their
// position and are never mutated after load.
type Order struct {
	Region        string  `json:"region"`
	State         string  `json:"state"`
	City          string  `json:"city"`
	Category      string  `json:"category"`
	SubCategory   string  `json:"sub_category"`
	ProductName   string  `json:"product_name"`
	Segment       string  `json:"segment"`
	Sales         float64 `json:"sales"`
	Profit        float64 `json:"profit"`
	SalesForecast float64 `json:"sales_forecast"`
}

// Field names one of the six hierarchical filter columns.
type Field string

const (
	FieldRegion      Field = "region"
	FieldState       Field = "state"
	FieldCity        Field = "city"
	FieldCategory    Field = "category"
	FieldSubCategory Field = "sub_category"
	FieldProductName Field = "product_name"
)

// Fields lists the filter columns in sidebar order.
var Fields = []Field{
	FieldRegion,
	FieldState,
	FieldCity,
	FieldCategory,
	FieldSubCategory,
	FieldProductName,
}

// Label is the sidebar caption for a field.
func (f Field) Label() string {
	switch f {
	case FieldRegion:
		return "Select The Region"
	case FieldState:
		return "Select the State"
	case FieldCity:
		return "Select the City"
	case FieldCategory:
		return "Select the Category"
	case FieldSubCategory:
		return "Select the Sub-Category"
	case FieldProductName:
		return "Select the Product Name"
	default:
		return string(f)
	}
}

// Value returns the order's value for a filter column.
func (o Order) Value(f Field) string {
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
		return ""
	}
}

// Signal is the client-side signal name bound to a field's multi-select.
func (f Field) Signal() string {
	switch f {
	case FieldSubCategory:
		return "subCategory"
	case FieldProductName:
		return "productName"
	default:
		return string(f)
	}
}
