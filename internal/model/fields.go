package model

// Source column names of a CRM job export.
const (
	ColTechnician      = "Service Techniker"
	ColPeriod          = "Zeitraum"
	ColDeal            = "Dealname"
	ColMoreTechnicians = "Weitere Techniker"
	ColPackingInfo     = "Informationen Packliste"
	ColPartsTools      = "Ersatzteil und Zubehör"
)

// FieldColumn maps a source column to a report column (1-based).
type FieldColumn struct {
	Field  string `json:"field"`
	Column int    `json:"column"`
}

// DefaultFieldColumns is the fixed field layout of the Packliste template:
// B, C, D, then F and G to the right of the seal placeholder E.
func DefaultFieldColumns() []FieldColumn {
	return []FieldColumn{
		{Field: ColPeriod, Column: 2},
		{Field: ColDeal, Column: 3},
		{Field: ColMoreTechnicians, Column: 4},
		{Field: ColPackingInfo, Column: 6},
		{Field: ColPartsTools, Column: 7},
	}
}
