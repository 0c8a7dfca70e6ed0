package model

// Region is one of the five Brazilian macro-regions.
type Region string

const (
	RegionNorte       Region = "Norte"
	RegionNordeste    Region = "Nordeste"
	RegionCentroOeste Region = "Centro-Oeste"
	RegionSudeste     Region = "Sudeste"
	RegionSul         Region = "Sul"
)

// Regions lists all macro-regions in conventional IBGE order.
var Regions = []Region{
	RegionNorte,
	RegionNordeste,
	RegionCentroOeste,
	RegionSudeste,
	RegionSul,
}

// Valid reports whether r is one of the five macro-regions.
func (r Region) Valid() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

// Municipality is one complete row from the municipality dimension: identity
// fields plus the raw socio-economic indicators used for clustering. Rows with
// a NULL in any required indicator never reach this struct; the repository
// filters them out at query time.
type Municipality struct {
	IBGECode     string `json:"ibge_code"` // 7-digit IBGE municipality code
	Name         string `json:"name"`
	StateCode    string `json:"state_code"`
	Region       Region `json:"region"`
	Population   int64  `json:"population"`
	SizeCategory string `json:"size_category"`

	HDI                float64 `json:"hdi"`           // [0,1], higher = better
	HDIEducation       float64 `json:"hdi_education"` // [0,1]
	HDIIncome          float64 `json:"hdi_income"`    // [0,1]
	VulnerabilityIndex float64 `json:"vulnerability_index"` // [0,1], higher = worse
	Gini               float64 `json:"gini"`                // [0,1], higher = more unequal
	IncomePerCapita    float64 `json:"income_per_capita"`   // BRL, positive
}
