package planet

import (
	"fmt"

	"system-exporter/internal/enum"
	"system-exporter/internal/extract"
	"system-exporter/internal/host"
	"system-exporter/internal/normalize"
)

// MaxBasicResources bounds the common/uncommon/rare substance list.
const MaxBasicResources = 3

var basicResourceFields = []string{"CommonSubstanceID", "UncommonSubstanceID", "RareSubstanceID"}

var dataFields = []extract.Field[Record]{
	extract.Text("Name", "nombre", func(r *Record) **string { return &r.Name }),
	extract.Symbol("Life", "vida", enum.PlanetLife, func(r *Record) **string { return &r.Life }),
	extract.Symbol("CreatureLife", "fauna", enum.PlanetLife, func(r *Record) **string { return &r.Fauna }),
}

var generationFields = []extract.Field[Generation]{
	extract.Symbol("Biome", "bioma", enum.Biome, func(g *Generation) **string { return &g.Biome }),
	extract.Symbol("BiomeSubType", "bioma_subtipo", enum.BiomeSubType, func(g *Generation) **string { return &g.BiomeSubType }),
	extract.Symbol("Class", "clase", enum.PlanetClass, func(g *Generation) **string { return &g.Class }),
	extract.Resource("CommonSubstance", "sustancia_comun",
		func(g *Generation) **string { return &g.CommonSubstance },
		func(g *Generation) **string { return &g.CommonSubstanceES }),
	extract.Resource("RareSubstance", "sustancia_rara",
		func(g *Generation) **string { return &g.RareSubstance },
		func(g *Generation) **string { return &g.RareSubstanceES }),
	extract.Bool("ForceContinents", "forzar_continentes", func(g *Generation) **bool { return &g.ForceContinents }),
	extract.Bool("HasRings", "tiene_anillos", func(g *Generation) **bool { return &g.HasRings }),
	extract.Bool("InAbandonedSystem", "sistema_abandonado", func(g *Generation) **bool { return &g.InAbandonedSystem }),
	extract.Bool("InEmptySystem", "sistema_vacio", func(g *Generation) **bool { return &g.InEmptySystem }),
	extract.Bool("InGasGiantSystem", "sistema_gigante_gaseoso", func(g *Generation) **bool { return &g.InGasGiantSystem }),
	extract.Bool("InPirateSystem", "sistema_pirata", func(g *Generation) **bool { return &g.InPirateSystem }),
	extract.Int("PlanetIndex", "indice_planeta", func(g *Generation) **int64 { return &g.PlanetIndex }),
	extract.Symbol("PlanetSize", "tamaño_planeta", enum.PlanetSize, func(g *Generation) **string { return &g.PlanetSize }),
	extract.Bool("Prime", "planeta_primario", func(g *Generation) **bool { return &g.Prime }),
	extract.Int("RealityIndex", "indice_realidad", func(g *Generation) **int64 { return &g.RealityIndex }),
	extract.Symbol("Star", "estrella", enum.StarType, func(g *Generation) **string { return &g.Star }),
	extract.Seed("Seed", "seed", nil, func(g *Generation) **normalize.SeedID { return &g.Seed }),
}

var slotFields = []extract.Field[Record]{
	extract.Custom("mPosition", "posicion", func(_ *extract.Context, raw host.Value, dst *Record) bool {
		v, ok := normalize.Normalize(raw).Vector()
		if !ok {
			return false
		}
		dst.Position = &v
		return true
	}),
}

var discoveryFields = []extract.Field[Record]{
	extract.Custom("mUniverseAddress", "direccion_universo", func(_ *extract.Context, raw host.Value, dst *Record) bool {
		v := normalize.Normalize(raw)
		var address string
		switch v.Kind() {
		case normalize.Number, normalize.Seed:
			address = v.Display()
		case normalize.Text, normalize.Symbol:
			address, _ = v.String()
		default:
			return false
		}
		dst.UniverseAddress = &address
		return true
	}),
}

type Extractor struct {
	ctx *extract.Context
}

func NewExtractor(ctx *extract.Context) *Extractor {
	return &Extractor{ctx: ctx}
}

// Extract reads one accepted planet slot. A fault in one nested record marks
// the planet with an error and keeps whatever was already read.
func (e *Extractor) Extract(slot host.Record, index int) (rec Record) {
	rec.Index = index
	logger := e.ctx.Logger.With("component", "planet_extractor", "planet_index", index)

	defer func() {
		if r := recover(); r != nil {
			rec.Error = fmt.Sprint(r)
			logger.Error("Planet extraction faulted", "error", rec.Error)
		}
	}()

	extract.Apply(e.ctx, slot, slotFields, &rec)

	var errs []error

	if data, err := host.Child(slot, FieldData); err == nil {
		extract.Apply(e.ctx, data, dataFields, &rec)
		rec.BasicResources, rec.BasicResourcesES = e.basicResources(data)
		rec.ExtraResources, rec.ExtraResourcesES = e.extraResources(data)
	} else if !host.IsMissing(err) {
		errs = append(errs, err)
	}

	if gen, err := host.Child(slot, FieldGeneration); err == nil {
		var g Generation
		if written := extract.Apply(e.ctx, gen, generationFields, &g); len(written) > 0 {
			rec.Generation = &g
		}
	} else if !host.IsMissing(err) {
		errs = append(errs, err)
	}

	if disc, err := host.Child(slot, FieldDiscovery); err == nil {
		extract.Apply(e.ctx, disc, discoveryFields, &rec)
	} else if !host.IsMissing(err) {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		rec.Error = errs[0].Error()
		logger.Error("Planet extraction incomplete", "error", rec.Error, "failures", len(errs))
	}
	return rec
}

func (e *Extractor) basicResources(data host.Record) ([]string, []string) {
	list := extract.NewResourceList(e.ctx.Resources, MaxBasicResources)
	for _, field := range basicResourceFields {
		raw, err := data.Field(field)
		if err != nil {
			continue
		}
		if id, ok := resourceID(raw); ok {
			list.Add(id)
		}
	}
	return list.IDs(), list.Translated()
}

func (e *Extractor) extraResources(data host.Record) ([]string, []string) {
	list := extract.NewResourceList(e.ctx.Resources, 0)

	raw, err := data.Field("ExtraResourceHints")
	if err != nil {
		return nil, nil
	}
	hints, ok := raw.Items()
	if !ok {
		return nil, nil
	}

	for _, hint := range hints {
		rec, ok := hint.RecordValue()
		if !ok || rec == nil {
			continue
		}
		res, err := rec.Field("Resource")
		if err != nil {
			continue
		}
		if id, ok := resourceID(res); ok {
			list.Add(id)
		}
	}
	return list.IDs(), list.Translated()
}
