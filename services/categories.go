package services

// Feste Kategorien des Katalogs.
const (
	CategoryDairy      = "Dairy & Eggs"
	CategoryMeatFish   = "Protein - Meat & Fish"
	CategoryPlantBased = "Protein - Plant-based"
	CategoryGrains     = "Grains & Cereals"
	CategoryVegetables = "Vegetables & Frozen Veg"
	CategoryFrozen     = "Frozen Meals"
	CategoryCanned     = "Canned & Shelf-stable"
	CategoryFruit      = "Fruit & Snacks"
	CategoryPantry     = "Pantry"
	CategoryOther      = "Other"

	// CategorySkip markiert Taxonomie-Einträge, die für eine Diät-App nicht
	// relevant sind. Adapter müssen Records mit dieser Kategorie verwerfen,
	// bevor sie die Dedup-Stufe erreichen.
	CategorySkip = "SKIP"
)

// OFFSkipTags listet Open-Food-Facts-Tags, die aus der Domäne fallen
// (Süßwaren, Softdrinks, Alkohol, Fertigpizza). Bewusst als eigene,
// separat pflegbare Ausschlussliste gehalten — das ist Domänen-Policy,
// keine Ableitung.
var OFFSkipTags = map[string]bool{
	"en:snacks":              true,
	"en:chocolates":          true,
	"en:biscuits":            true,
	"en:candies":             true,
	"en:confectioneries":     true,
	"en:sweeteners":          true,
	"en:cakes":               true,
	"en:pastries":            true,
	"en:ice-creams":          true,
	"en:chips":               true,
	"en:crackers":            true,
	"en:sweets":              true,
	"en:sodas":               true,
	"en:alcoholic-beverages": true,
	"en:beers":               true,
	"en:wines":               true,
	"en:spirits":             true,
	"en:energy-drinks":       true,
	"en:beverages":           true,
	"en:waters":              true,
	"en:pizzas":              true,
}

// offCategoryMap bildet Open-Food-Facts categories_tags auf unsere Kategorien ab.
var offCategoryMap = map[string]string{
	// Dairy & Eggs
	"en:dairies":                 CategoryDairy,
	"en:dairy":                   CategoryDairy,
	"en:milks":                   CategoryDairy,
	"en:yogurts":                 CategoryDairy,
	"en:cheeses":                 CategoryDairy,
	"en:eggs":                    CategoryDairy,
	"en:butters":                 CategoryDairy,
	"en:creams":                  CategoryDairy,
	"en:quark":                   CategoryDairy,
	"en:fermented-milk-products": CategoryDairy,

	// Protein - Meat & Fish
	"en:meats":         CategoryMeatFish,
	"en:poultry":       CategoryMeatFish,
	"en:fishes":        CategoryMeatFish,
	"en:seafood":       CategoryMeatFish,
	"en:smoked-fishes": CategoryMeatFish,
	"en:sausages":      CategoryMeatFish,
	"en:hams":          CategoryMeatFish,
	"en:beef":          CategoryMeatFish,
	"en:pork":          CategoryMeatFish,
	"en:chicken":       CategoryMeatFish,

	// Protein - Plant-based
	"en:meat-alternatives": CategoryPlantBased,
	"en:tofu":              CategoryPlantBased,
	"en:tempeh":            CategoryPlantBased,
	"en:seitan":            CategoryPlantBased,

	// Grains & Cereals
	"en:cereals-and-potatoes": CategoryGrains,
	"en:cereals":              CategoryGrains,
	"en:breads":               CategoryGrains,
	"en:pastas":               CategoryGrains,
	"en:rices":                CategoryGrains,
	"en:breakfast-cereals":    CategoryGrains,
	"en:flours":               CategoryGrains,
	"en:oats":                 CategoryGrains,
	"en:noodles":              CategoryGrains,
	"en:potatoes":             CategoryGrains,

	// Vegetables & Frozen Veg
	"en:vegetables":        CategoryVegetables,
	"en:frozen-vegetables": CategoryVegetables,
	"en:canned-vegetables": CategoryVegetables,
	"en:salads":            CategoryVegetables,
	"en:legumes":           CategoryVegetables,

	// Frozen Meals
	"en:frozen-foods":   CategoryFrozen,
	"en:frozen-meals":   CategoryFrozen,
	"en:prepared-meals": CategoryFrozen,

	// Canned & Shelf-stable
	"en:canned-foods":  CategoryCanned,
	"en:canned-fruits": CategoryCanned,
	"en:soups":         CategoryCanned,
	"en:sauces":        CategoryCanned,
	"en:condiments":    CategoryCanned,

	// Fruit & Snacks (nur die gesunden Sachen — Süßkram steht in OFFSkipTags)
	"en:fruits":       CategoryFruit,
	"en:dried-fruits": CategoryFruit,
	"en:nuts":         CategoryFruit,
	"en:fruit-juices": CategoryFruit,

	// Pantry
	"en:oils-and-fats": CategoryPantry,
	"en:olive-oils":    CategoryPantry,
	"en:vinegars":      CategoryPantry,
	"en:spices":        CategoryPantry,
	"en:honey":         CategoryPantry,
}

// blsCategoryMap bildet den ersten Buchstaben eines BLS-Codes auf unsere
// Kategorien ab.
var blsCategoryMap = map[byte]string{
	'B': CategoryGrains,     // Brot
	'C': CategoryGrains,     // Cerealien
	'D': CategoryOther,      // Diverse
	'E': CategoryDairy,      // Eier
	'F': CategoryFruit,      // Früchte
	'G': CategoryVegetables, // Gemüse
	'H': CategoryVegetables, // Hülsenfrüchte
	'K': CategoryGrains,     // Kartoffeln
	'M': CategoryDairy,      // Milch
	'N': CategoryGrains,     // Nudeln
	'O': CategoryFruit,      // Obst
	'R': CategoryMeatFish,   // Rind
	'S': CategoryPantry,     // Speisefette
	'T': CategoryMeatFish,   // Fleisch allgemein
	'U': CategoryMeatFish,   // Fisch
	'V': CategoryMeatFish,   // Geflügel
	'W': CategoryMeatFish,   // Wurst
	'X': CategoryOther,      // Süßwaren
	'Y': CategoryOther,      // Getränke
	'Z': CategoryPantry,     // Zucker/Gewürze
}

// MapOFFCategory nimmt den ersten Tag mit bekannter Zuordnung; unbekannte
// Tags fallen durch zum nächsten. Ohne Treffer bleibt "Other". Tags auf der
// Ausschlussliste liefern CategorySkip.
func MapOFFCategory(categoriesTags []string) string {
	for _, tag := range categoriesTags {
		lower := toLowerASCII(tag)
		if OFFSkipTags[lower] {
			return CategorySkip
		}
		if cat, ok := offCategoryMap[lower]; ok {
			return cat
		}
	}
	return CategoryOther
}

// MapBLSCategory ordnet einen BLS-Lebensmittelcode über dessen ersten
// Buchstaben zu, Default "Other".
func MapBLSCategory(blsCode string) string {
	if blsCode == "" {
		return CategoryOther
	}
	c := blsCode[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if cat, ok := blsCategoryMap[c]; ok {
		return cat
	}
	return CategoryOther
}

func toLowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
