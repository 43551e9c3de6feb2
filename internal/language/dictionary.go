// Package language provides heuristic French detection and FR->EN query
// translation for the catalog's bilingual audience.
package language

// frStopWords are short French function words used as detection markers.
var frStopWords = map[string]struct{}{
	"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {},
	"du": {}, "de": {}, "et": {}, "ou": {}, "en": {}, "pour": {},
	"avec": {}, "sans": {}, "dans": {}, "sur": {}, "sous": {},
	"pas": {}, "est": {}, "sont": {}, "mon": {}, "ma": {}, "mes": {},
	"ce": {}, "cette": {}, "ces": {}, "je": {}, "tu": {}, "il": {},
	"elle": {}, "nous": {}, "vous": {},
}

// frToEn is the static FR->EN furniture term dictionary. Pure data,
// intentionally scoped to the catalog vocabulary.
var frToEn = map[string]string{
	// Furniture. Identical cognates ("table", "sofa") are deliberately
	// absent: they translate to themselves and would skew detection.
	"chaise":       "chair",
	"canape":       "sofa",
	"canapé":       "sofa",
	"fauteuil":     "armchair",
	"armoire":      "wardrobe",
	"lit":          "bed",
	"bureau":       "desk",
	"etagere":      "shelf",
	"étagère":      "shelf",
	"lampe":        "lamp",
	"miroir":       "mirror",
	"tapis":        "rug",
	"rideau":       "curtain",
	"rideaux":      "curtains",
	"coussin":      "cushion",
	"tabouret":     "stool",
	"commode":      "dresser",
	"bibliotheque": "bookcase",
	"bibliothèque": "bookcase",
	"banc":         "bench",
	"buffet":       "sideboard",
	"placard":      "cupboard",
	"tiroir":       "drawer",
	"meuble":       "furniture",
	"meubles":      "furniture",

	// Rooms
	"cuisine":  "kitchen",
	"chambre":  "bedroom",
	"salon":    "living room",
	"salle":    "room",
	"bain":     "bath",
	"jardin":   "garden",
	"entree":   "hallway",
	"entrée":   "hallway",
	"terrasse": "terrace",

	// Materials
	"bois":   "wood",
	"metal":  "metal",
	"métal":  "metal",
	"verre":  "glass",
	"cuir":   "leather",
	"tissu":  "fabric",
	"marbre": "marble",
	"osier":  "wicker",
	"rotin":  "rattan",

	// Colors
	"blanc": "white",
	"noir":  "black",
	"rouge": "red",
	"bleu":  "blue",
	"vert":  "green",
	"jaune": "yellow",
	"gris":  "gray",
	"rose":  "pink",
	"brun":  "brown",
	"beige": "beige",

	// Styles and qualifiers
	"moderne":    "modern",
	"ancien":     "antique",
	"rustique":   "rustic",
	"petit":      "small",
	"petite":     "small",
	"grand":      "large",
	"grande":     "large",
	"rond":       "round",
	"ronde":      "round",
	"carre":      "square",
	"carré":      "square",
	"rangement":  "storage",
	"eclairage":  "lighting",
	"éclairage":  "lighting",
	"decoration": "decoration",
	"décoration": "decoration",
	"mur":        "wall",
	"sol":        "floor",
	"plante":     "plant",
	"coin":       "corner",
}

// frDiacritics are the accented characters treated as French markers.
const frDiacritics = "àâäéèêëîïôöùûüÿçœæ"
