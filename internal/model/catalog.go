package model

// DefaultCGRProducts is the standard 7-product catalog used when a search
// request does not specify products.
var DefaultCGRProducts = []string{
	"ressorts de compression",
	"ressorts de traction",
	"ressorts de torsion",
	"pièces en fil plié",
	"pièces découpées",
	"clips et agrafes métalliques",
	"sous-ensembles assemblés",
}

// DefaultGeographicZone is used when a request names no geographic zone.
const DefaultGeographicZone = "France"

// CompanySize enumerates the target company size buckets accepted by the
// search forms.
type CompanySize string

const (
	SizeSmall  CompanySize = "PME"
	SizeMedium CompanySize = "ETI"
	SizeLarge  CompanySize = "GE"
	SizeAny    CompanySize = "toutes"
)
