package models

import "strings"

// Sector is the fixed neighborhood classification attached to each record.
type Sector string

const (
	SectorSamaria   Sector = "Samaria"
	SectorSanLuis   Sector = "San Luis"
	SectorMorritos  Sector = "Morritos"
	SectorVerso     Sector = "Verso"
	SectorSoledad   Sector = "Soledad"
	SectorPaila     Sector = "Paila"
	SectorElPintado Sector = "El Pintado"
	SectorOtro      Sector = "Otro"
)

// DefaultSector is what the form starts with and what the draft resets to
// after a successful submission.
const DefaultSector = SectorSamaria

// Sectors lists the closed sector set in display order. The dashboard uses
// this order to break ties in the per-sector aggregates.
var Sectors = []Sector{
	SectorSamaria,
	SectorSanLuis,
	SectorMorritos,
	SectorVerso,
	SectorSoledad,
	SectorPaila,
	SectorElPintado,
	SectorOtro,
}

// ParseSector resolves a raw value to a known sector, case-insensitively.
// Unknown or empty values fall back to the default sector, matching the
// form's behavior of always holding a valid selection.
func ParseSector(raw string) Sector {
	trimmed := strings.TrimSpace(raw)
	for _, s := range Sectors {
		if strings.EqualFold(string(s), trimmed) {
			return s
		}
	}
	return DefaultSector
}

// ValidSector reports whether raw names a member of the sector set.
func ValidSector(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	for _, s := range Sectors {
		if strings.EqualFold(string(s), trimmed) {
			return true
		}
	}
	return false
}

// SectorIndex returns the display-order position of a sector, or the end of
// the list for unknown values.
func SectorIndex(s Sector) int {
	for i, known := range Sectors {
		if known == s {
			return i
		}
	}
	return len(Sectors)
}
