package system

import (
	"fmt"

	"system-exporter/internal/enum"
	"system-exporter/internal/extract"
	"system-exporter/internal/host"
	"system-exporter/internal/normalize"
)

// Host field names of cGcSolarSystemData and its nested records.
const (
	FieldSystemData   = "mSolarSystemData"
	FieldTradingData  = "TradingData"
	FieldStationSpawn = "SpaceStationSpawn"
)

var headerFields = []extract.Field[Header]{
	extract.Text("Name", "nombre", func(h *Header) **string { return &h.Name }),
	extract.Symbol("InhabitingRace", "raza", enum.AlienRace, func(h *Header) **string { return &h.Race }),
	extract.Symbol("Class", "clase", enum.SolarSystemClass, func(h *Header) **string { return &h.Class }),
	extract.Symbol("StarType", "tipo_estrella", enum.StarType, func(h *Header) **string { return &h.StarType }),
	extract.Seed("Seed", "seed", func(s normalize.SeedID) bool { return !s.Negative() }, func(h *Header) **normalize.SeedID { return &h.Seed }),
	extract.Bool("AnomalyStation", "estacion_anomalia", func(h *Header) **bool { return &h.AnomalyStation }),
	extract.Bool("PirateStation", "estacion_pirata", func(h *Header) **bool { return &h.PirateStation }),
	extract.Bool("Abandoned", "abandonado", func(h *Header) **bool { return &h.Abandoned }),
	extract.Int("Planets", "num_planetas_campo", func(h *Header) **int64 { return &h.PlanetSlots }),
	extract.Int("PrimePlanets", "planetas_primarios", func(h *Header) **int64 { return &h.PrimePlanets }),
	extract.Symbol("ConflictData", "conflicto", enum.ConflictLevel, func(h *Header) **string { return &h.Conflict }),
	extract.Symbol("AsteroidLevel", "nivel_asteroides", enum.AsteroidLevel, func(h *Header) **string { return &h.AsteroidLevel }),
}

var tradingFields = []extract.Field[TradingInfo]{
	extract.Symbol("Wealth", "riqueza", enum.WealthClass, func(t *TradingInfo) **string { return &t.Wealth }),
	extract.Symbol("TradingClass", "clase", enum.TradingClass, func(t *TradingInfo) **string { return &t.TradingClass }),
	extract.Float("BuyBaseMarkup", "margen_compra", func(t *TradingInfo) **float64 { return &t.BuyBaseMarkup }),
	extract.Float("SellBaseMarkup", "margen_venta", func(t *TradingInfo) **float64 { return &t.SellBaseMarkup }),
	extract.Float("BuyPriceIncreaseRate", "tasa_incremento_compra", func(t *TradingInfo) **float64 { return &t.BuyPriceIncreaseRate }),
	extract.Float("SellPriceDecreaseRate", "tasa_decremento_venta", func(t *TradingInfo) **float64 { return &t.SellPriceDecreaseRate }),
	extract.Float("MaxBuyingPriceMultiplier", "multiplicador_maximo_compra", func(t *TradingInfo) **float64 { return &t.MaxBuyingPriceMultiple }),
	extract.Float("MinSellingPriceMultiplier", "multiplicador_minimo_venta", func(t *TradingInfo) **float64 { return &t.MinSellingPriceMultiple }),
}

var stationFields = []extract.Field[StationSpawnInfo]{
	extract.Text("File", "archivo_modelo", func(s *StationSpawnInfo) **string { return &s.ModelFile }),
	extract.Custom("Type", "tipo", decodeStationType),
	extract.Symbol("Race", "raza", enum.StationRace, func(s *StationSpawnInfo) **string { return &s.Race }),
}

// decodeStationType keeps unknown integers visible as Unknown_<n>.
func decodeStationType(ctx *extract.Context, raw host.Value, dst *StationSpawnInfo) bool {
	name, ok := ctx.Decoder.Decode(raw, enum.StationType, "SpaceStationSpawn.Type")
	if !ok {
		n, coerced := enum.Coerce(raw)
		if !coerced {
			return false
		}
		name = fmt.Sprintf("Unknown_%d", n)
	}
	dst.Type = &name
	return true
}

// ExtractTrading reads the trading sub-record. Nil means nothing was readable.
func ExtractTrading(ctx *extract.Context, rec host.Record) *TradingInfo {
	var info TradingInfo
	if written := extract.Apply(ctx, rec, tradingFields, &info); len(written) == 0 {
		return nil
	}
	return &info
}

// ExtractStation reads the station spawn sub-record. A station that exists
// but yields nothing is still reported as present.
func ExtractStation(ctx *extract.Context, rec host.Record) *StationSpawnInfo {
	var info StationSpawnInfo
	if written := extract.Apply(ctx, rec, stationFields, &info); len(written) == 0 {
		info.Present = true
	}
	return &info
}

// ExtractHeader reads the system header from the root handle. Nested records
// are optional and isolated from each other.
func ExtractHeader(ctx *extract.Context, root host.Record) (Header, error) {
	var header Header

	data, err := host.Child(root, FieldSystemData)
	if err != nil {
		if host.IsMissing(err) {
			return header, nil
		}
		return header, fmt.Errorf("failed to read system data: %w", err)
	}

	written := extract.Apply(ctx, data, headerFields, &header)

	if station, err := host.Child(data, FieldStationSpawn); err == nil {
		header.Station = ExtractStation(ctx, station)
	} else if !host.IsMissing(err) {
		header.Station = &StationSpawnInfo{Present: true, Error: err.Error()}
	}

	if trading, err := host.Child(data, FieldTradingData); err == nil {
		header.Trading = ExtractTrading(ctx, trading)
	} else if !host.IsMissing(err) {
		header.Trading = &TradingInfo{Error: err.Error()}
	}

	ctx.Logger.Debug("System header extracted",
		"fields", len(written),
		"station", header.Station != nil,
		"trading", header.Trading != nil,
	)
	return header, nil
}
