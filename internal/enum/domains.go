package enum

// Host enumerations the exporter reads. Names ending in the sentinel collide
// with reserved words on the host side.
var (
	WealthClass = MustSequential("cGcWealthClass",
		"Poor", "Average", "Wealthy", "Pirate")

	TradingClass = MustSequential("cGcTradingClass",
		"Mining", "HighTech", "Trading", "Manufacturing", "Fusion", "Scientific", "PowerGeneration")

	AlienRace = MustSequential("cGcAlienRace",
		"Traders", "Warriors", "Explorers", "Robots", "Atlas", "Diplomats", "Exotics", "None_", "Builders")

	StationRace = MustSequential("eRace",
		"Traders", "Warriors", "Explorers", "Robots", "Atlas", "Diplomats", "Exotics", "None_", "Builders")

	SolarSystemClass = MustSequential("cGcSolarSystemClass",
		"Default", "Initial", "Anomaly", "GameStart")

	StarType = MustSequential("cGcGalaxyStarTypes",
		"Yellow", "Green", "Blue", "Red", "Purple")

	ConflictLevel = MustSequential("cGcPlayerConflictData",
		"Low", "Default", "High", "Pirate")

	StationType = MustSequential("cGcSpaceStationSpawnData.eType",
		"None_", "SpaceStation", "MegaFreighter", "DerelictFreighter")

	AsteroidLevel = MustSequential("cGcSolarSystemData.eAsteroidLevel",
		"None_", "LowCount", "HighCount", "CommonRoids", "RareRoids")

	PlanetLife = MustSequential("cGcPlanetLife",
		"Dead", "Low", "Mid", "Full")

	Biome = MustSequential("cGcBiomeType",
		"Lush", "Toxic", "Scorched", "Radioactive", "Frozen", "Barren", "Dead", "Weird",
		"Red", "Green", "Blue", "Test", "Swamp", "Lava", "Waterworld", "GasGiant", "All")

	BiomeSubType = MustSequential("cGcBiomeSubType",
		"None_", "Standard", "HighQuality", "Structure", "Beam", "Hexagon", "FractCube",
		"Bubble", "Shards", "Contour", "Shell", "BoneSpire", "WireCell", "HydroGarden",
		"HugePlant", "HugeLush", "HugeRing", "HugeRock", "HugeScorch", "HugeToxic",
		"Variant_A", "Variant_B", "Variant_C", "Variant_D", "Infested", "Swamp", "Lava",
		"Worlds", "Remix_A", "Remix_B", "Remix_C", "Remix_D")

	PlanetClass = MustSequential("cGcPlanetClass",
		"Default", "Initial", "InInitialSystem")

	PlanetSize = MustSequential("cGcPlanetSize",
		"Large", "Medium", "Small", "Moon", "Giant")
)

// All lists every declared domain.
func All() []*Domain {
	return []*Domain{
		WealthClass, TradingClass, AlienRace, StationRace, SolarSystemClass, StarType,
		ConflictLevel, StationType, AsteroidLevel, PlanetLife, Biome, BiomeSubType,
		PlanetClass, PlanetSize,
	}
}
