// AngelaMos | 2026
// entity.go

package catalog

// Model is one catalog row. Identical tuples may appear more than once.
type Model struct {
	ID    int64  `db:"id"    json:"id"`
	Brand string `db:"brand" json:"brand"`
	Model string `db:"model" json:"model"`
	Color string `db:"color" json:"color"`
	Specs string `db:"specs" json:"specs"`
}

// Tuple is the descriptive part of a Model, used to delete by value.
type Tuple struct {
	Brand string `json:"brand" validate:"required"`
	Model string `json:"model" validate:"required"`
	Color string `json:"color" validate:"required"`
	Specs string `json:"specs" validate:"required"`
}

func brandOf(m Model) string { return m.Brand }
func modelOf(m Model) string { return m.Model }
func colorOf(m Model) string { return m.Color }
func specsOf(m Model) string { return m.Specs }
