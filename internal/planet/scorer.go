package planet

import (
	"fmt"
	"log/slog"
	"math"

	"system-exporter/internal/enum"
	"system-exporter/internal/extract"
	"system-exporter/internal/host"
	"system-exporter/internal/normalize"
	"system-exporter/internal/shared/config"
)

// Criterion weights. The sum is MaxScore.
const (
	PointsName     = 3
	PointsSeed     = 3
	PointsIndex    = 1
	PointsBiome    = 2
	PointsPosition = 1
	PointsResource = 1

	MaxScore = PointsName + PointsSeed + PointsIndex + PointsBiome + PointsPosition + PointsResource
)

// Rules holds the empirically chosen thresholds of the scorer.
type Rules struct {
	MinScore          int
	PositionThreshold float64
	MaxPlanetIndex    int64
}

func DefaultRules() Rules {
	return Rules{MinScore: 6, PositionThreshold: 1000, MaxPlanetIndex: 10}
}

func RulesFromConfig(cfg config.ScoringConfig) Rules {
	return Rules{
		MinScore:          cfg.MinScore,
		PositionThreshold: cfg.PositionThreshold,
		MaxPlanetIndex:    int64(cfg.MaxPlanetIndex),
	}
}

// Scorer decides whether a planet slot holds real data. The host keeps a
// fixed-size slot array with no in-use flag, so validity is inferred.
type Scorer struct {
	rules   Rules
	decoder *enum.Decoder
	logger  *slog.Logger
}

func NewScorer(rules Rules, decoder *enum.Decoder, logger *slog.Logger) *Scorer {
	return &Scorer{
		rules:   rules,
		decoder: decoder,
		logger:  logger.With("component", "planet_scorer"),
	}
}

func (s *Scorer) Rules() Rules { return s.rules }

// Score sums the satisfied criteria of slot. Unreadable inputs score 0.
func (s *Scorer) Score(slot host.Record) int {
	if slot == nil {
		return 0
	}

	data, _ := host.Child(slot, FieldData)
	gen, _ := host.Child(slot, FieldGeneration)

	score := 0
	score += s.criterion("name", PointsName, func() bool { return hasName(data) })
	score += s.criterion("seed", PointsSeed, func() bool { return s.hasSeed(gen) })
	score += s.criterion("index", PointsIndex, func() bool { return s.hasPlausibleIndex(gen) })
	score += s.criterion("biome", PointsBiome, func() bool { return s.hasBiome(gen) })
	score += s.criterion("position", PointsPosition, func() bool { return s.isPlaced(slot) })
	score += s.criterion("resource", PointsResource, func() bool { return hasCommonSubstance(data) })
	return score
}

// IsValid reports whether slot reaches the acceptance threshold.
func (s *Scorer) IsValid(slot host.Record) bool {
	return s.Score(slot) >= s.rules.MinScore
}

func (s *Scorer) criterion(name string, points int, check func() bool) (awarded int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("Scoring criterion faulted", "criterion", name, "panic", fmt.Sprint(r))
			awarded = 0
		}
	}()
	if check() {
		return points
	}
	return 0
}

func hasName(data host.Record) bool {
	if data == nil {
		return false
	}
	raw, err := data.Field("Name")
	if err != nil {
		return false
	}
	_, ok := normalize.CleanText(raw)
	return ok
}

func (s *Scorer) hasSeed(gen host.Record) bool {
	if gen == nil {
		return false
	}
	raw, err := gen.Field("Seed")
	if err != nil {
		return false
	}
	seed, ok := extract.SeedOf(raw)
	return ok && seed.IsSet()
}

func (s *Scorer) hasPlausibleIndex(gen host.Record) bool {
	if gen == nil {
		return false
	}
	raw, err := gen.Field("PlanetIndex")
	if err != nil {
		return false
	}
	n, ok := enum.Coerce(raw)
	return ok && n >= 0 && n < s.rules.MaxPlanetIndex
}

func (s *Scorer) hasBiome(gen host.Record) bool {
	if gen == nil {
		return false
	}
	raw, err := gen.Field("Biome")
	if err != nil {
		return false
	}
	name, ok := s.decoder.Decode(raw, enum.Biome, "Biome")
	if !ok {
		return false
	}
	switch name {
	case "", "Default", "None":
		return false
	}
	return true
}

func (s *Scorer) isPlaced(slot host.Record) bool {
	raw, err := slot.Field(FieldPosition)
	if err != nil {
		return false
	}
	v, ok := normalize.Normalize(raw).Vector()
	if !ok {
		return false
	}
	t := s.rules.PositionThreshold
	return math.Abs(v.X) > t || math.Abs(v.Y) > t || math.Abs(v.Z) > t
}

func hasCommonSubstance(data host.Record) bool {
	if data == nil {
		return false
	}
	raw, err := data.Field("CommonSubstanceID")
	if err != nil {
		return false
	}
	_, ok := resourceID(raw)
	return ok
}

// resourceID reads a substance identifier from a byte string, text or symbol.
func resourceID(raw host.Value) (string, bool) {
	id, ok := normalize.Normalize(raw).String()
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
