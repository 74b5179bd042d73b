package resource

// Display names keyed by canonical uppercase substance id.
var spanishNames = map[string]string{
	"RED2":      "Cadmio",
	"ASTEROID1": "Plata",
	"ASTEROID2": "Oro",
	"LAND1":     "Ferrita",
	"LAND2":     "Ferrita pura",
	"LAND3":     "Ferrita magnetizada",
	"FUEL1":     "Carbono",
	"FUEL2":     "Carbono condensado",
	"OXYGEN":    "Oxígeno",
	"CATALYST1": "Sodio",
	"CATALYST2": "Nitrato de sodio",
	"CAVE1":     "Cobalto",
	"CAVE2":     "Cobalto ionizado",
	"WATER1":    "Sal",
	"WATER2":    "Sal clorada",
	"LUSH1":     "Parafinio",
	"TOXIC1":    "Amonio",
	"COLD1":     "Dihidrógeno",
	"HOT1":      "Fósforo",
	"RADIO1":    "Uranio",
	"DUSTY1":    "Pirita",
	"SWAMP1":    "Hecesio",
	"LAVA1":     "Sulphurina",
	"YELLOW":    "Cobre",
	"YELLOW2":   "Cobre",
	"RED1":      "Cadmio",
	"GREEN1":    "Emerilio",
	"BLUE1":     "Indio",
	"GREEN2":    "Emerilio",
	"BLUE2":     "Indio",
	"EX_YELLOW": "Cobre activado",
	"EX_RED":    "Cadmio activado",
	"EX_GREEN":  "Emerilio activado",
	"EX_BLUE":   "Indio activado",
	"GAS1":      "Nitrógeno",
	"GAS2":      "Azufre",
	"GAS3":      "Radón",
	"EX_PURPLE": "Cuarcita activada",
	"PURPLE2":   "Cuarcita",
}

var englishNames = map[string]string{
	"RED2":      "Cadmium",
	"ASTEROID1": "Silver",
	"ASTEROID2": "Gold",
	"LAND1":     "Ferrite Dust",
	"LAND2":     "Pure Ferrite",
	"LAND3":     "Magnetised Ferrite",
	"FUEL1":     "Carbon",
	"FUEL2":     "Condensed Carbon",
	"OXYGEN":    "Oxygen",
	"CATALYST1": "Sodium",
	"CATALYST2": "Sodium Nitrate",
	"CAVE1":     "Cobalt",
	"CAVE2":     "Ionised Cobalt",
	"WATER1":    "Salt",
	"WATER2":    "Chlorine",
	"LUSH1":     "Paraffinium",
	"TOXIC1":    "Ammonia",
	"COLD1":     "Dioxite",
	"HOT1":      "Phosphorus",
	"RADIO1":    "Uranium",
	"DUSTY1":    "Pyrite",
	"SWAMP1":    "Faecium",
	"LAVA1":     "Sulphurine",
	"YELLOW":    "Copper",
	"YELLOW2":   "Copper",
	"RED1":      "Cadmium",
	"GREEN1":    "Emeril",
	"BLUE1":     "Indium",
	"GREEN2":    "Emeril",
	"BLUE2":     "Indium",
	"EX_YELLOW": "Activated Copper",
	"EX_RED":    "Activated Cadmium",
	"EX_GREEN":  "Activated Emeril",
	"EX_BLUE":   "Activated Indium",
	"GAS1":      "Nitrogen",
	"GAS2":      "Sulphurine",
	"GAS3":      "Radon",
	"EX_PURPLE": "Activated Quartzite",
	"PURPLE2":   "Quartzite",
}
