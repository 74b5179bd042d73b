package system

import (
	"time"

	"system-exporter/internal/normalize"
)

// NoDataMarker is the header error reported when nothing has been observed.
const NoDataMarker = "Sin datos"

type TradingInfo struct {
	Wealth                  *string  `json:"riqueza,omitempty"`
	TradingClass            *string  `json:"clase,omitempty"`
	BuyBaseMarkup           *float64 `json:"margen_compra,omitempty"`
	SellBaseMarkup          *float64 `json:"margen_venta,omitempty"`
	BuyPriceIncreaseRate    *float64 `json:"tasa_incremento_compra,omitempty"`
	SellPriceDecreaseRate   *float64 `json:"tasa_decremento_venta,omitempty"`
	MaxBuyingPriceMultiple  *float64 `json:"multiplicador_maximo_compra,omitempty"`
	MinSellingPriceMultiple *float64 `json:"multiplicador_minimo_venta,omitempty"`
	Error                   string   `json:"error,omitempty"`
}

type StationSpawnInfo struct {
	ModelFile *string `json:"archivo_modelo,omitempty"`
	Type      *string `json:"tipo,omitempty"`
	Race      *string `json:"raza,omitempty"`
	// Present marks a station record that exposed no readable field.
	Present bool   `json:"presente,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Header struct {
	Name           *string           `json:"nombre,omitempty"`
	Race           *string           `json:"raza,omitempty"`
	Class          *string           `json:"clase,omitempty"`
	StarType       *string           `json:"tipo_estrella,omitempty"`
	Seed           *normalize.SeedID `json:"seed,omitempty"`
	Station        *StationSpawnInfo `json:"estacion_espacial,omitempty"`
	AnomalyStation *bool             `json:"estacion_anomalia,omitempty"`
	PirateStation  *bool             `json:"estacion_pirata,omitempty"`
	Abandoned      *bool             `json:"abandonado,omitempty"`
	PlanetSlots    *int64            `json:"num_planetas_campo,omitempty"`
	PrimePlanets   *int64            `json:"planetas_primarios,omitempty"`
	Trading        *TradingInfo      `json:"comercio,omitempty"`
	Conflict       *string           `json:"conflicto,omitempty"`
	AsteroidLevel  *string           `json:"nivel_asteroides,omitempty"`
	PlanetCount    *int              `json:"num_planetas,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// DisplayName returns the system name or an empty string.
func (h Header) DisplayName() string {
	if h.Name == nil {
		return ""
	}
	return *h.Name
}

// ArchiveEntry is one persisted snapshot row.
type ArchiveEntry struct {
	ID          string            `json:"id"`
	SystemName  *string           `json:"system_name"`
	Seed        *normalize.SeedID `json:"seed"`
	PlanetCount int               `json:"planet_count"`
	Version     string            `json:"version"`
	FileName    string            `json:"file_name"`
	Payload     []byte            `json:"-"`
	CapturedAt  time.Time         `json:"captured_at"`
}
