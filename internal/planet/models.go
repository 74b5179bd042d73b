package planet

import "system-exporter/internal/normalize"

// Host field names of one planet slot.
const (
	FieldPosition   = "mPosition"
	FieldData       = "mPlanetData"
	FieldGeneration = "mPlanetGenerationInputData"
	FieldDiscovery  = "mPlanetDiscoveryData"
)

// Record is one accepted planet. Index counts accepted planets only.
type Record struct {
	Index            int             `json:"index"`
	Position         *normalize.Vec3 `json:"posicion,omitempty"`
	Name             *string         `json:"nombre,omitempty"`
	Life             *string         `json:"vida,omitempty"`
	Fauna            *string         `json:"fauna,omitempty"`
	BasicResources   []string        `json:"recursos_basicos,omitempty"`
	BasicResourcesES []string        `json:"recursos_basicos_es,omitempty"`
	ExtraResources   []string        `json:"recursos_extra,omitempty"`
	ExtraResourcesES []string        `json:"recursos_extra_es,omitempty"`
	Generation       *Generation     `json:"generacion,omitempty"`
	UniverseAddress  *string         `json:"direccion_universo,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// Generation holds the procedural inputs the host used for the planet.
type Generation struct {
	Biome             *string           `json:"bioma,omitempty"`
	BiomeSubType      *string           `json:"bioma_subtipo,omitempty"`
	Class             *string           `json:"clase,omitempty"`
	CommonSubstance   *string           `json:"sustancia_comun,omitempty"`
	CommonSubstanceES *string           `json:"sustancia_comun_es,omitempty"`
	RareSubstance     *string           `json:"sustancia_rara,omitempty"`
	RareSubstanceES   *string           `json:"sustancia_rara_es,omitempty"`
	ForceContinents   *bool             `json:"forzar_continentes,omitempty"`
	HasRings          *bool             `json:"tiene_anillos,omitempty"`
	InAbandonedSystem *bool             `json:"sistema_abandonado,omitempty"`
	InEmptySystem     *bool             `json:"sistema_vacio,omitempty"`
	InGasGiantSystem  *bool             `json:"sistema_gigante_gaseoso,omitempty"`
	InPirateSystem    *bool             `json:"sistema_pirata,omitempty"`
	PlanetIndex       *int64            `json:"indice_planeta,omitempty"`
	PlanetSize        *string           `json:"tamaño_planeta,omitempty"`
	Prime             *bool             `json:"planeta_primario,omitempty"`
	RealityIndex      *int64            `json:"indice_realidad,omitempty"`
	Star              *string           `json:"estrella,omitempty"`
	Seed              *normalize.SeedID `json:"seed,omitempty"`
}

// Summary is the archived row of one planet.
type Summary struct {
	SnapshotID      string          `json:"snapshot_id"`
	Index           int             `json:"index"`
	Name            *string         `json:"name"`
	Biome           *string         `json:"biome"`
	CommonSubstance *string         `json:"common_substance"`
	Position        *normalize.Vec3 `json:"position"`
}

// Summarize reduces a record to its archived columns.
func (r Record) Summarize(snapshotID string) Summary {
	s := Summary{
		SnapshotID: snapshotID,
		Index:      r.Index,
		Name:       r.Name,
		Position:   r.Position,
	}
	if r.Generation != nil {
		s.Biome = r.Generation.Biome
	}
	if len(r.BasicResources) > 0 {
		first := r.BasicResources[0]
		s.CommonSubstance = &first
	}
	return s
}
