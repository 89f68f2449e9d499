package zone

// Идентификаторы тайлов, которые клиент знает без обращения к серверу.
const (
	TileUnknown = "UNKNOWN"
	TileNothing = "NOTHING"
)

// geoRunes - символ текстовой карты -> id тайла.
var geoRunes = map[rune]string{
	' ': TileNothing,
	'⡩': "SAND",
	'ʛ': "DRY_BUSH",
	'#': "ROCK",
	'~': "SEA_WATER",
	'܄': "SHORT_GRASS",
	'፨': "ROCKY_GROUND",
	'؛': "HIGH_GRASS",
	'⁖': "DIRT",
	'߉': "LEAF_TREE",
	'ፆ': "TROPICAL_TREE",
	'آ': "DEAD_TREE",
	'ގ': "FRESH_WATER_TILE",
	'c': "COPPER_DEPOSIT",
	't': "TIN_DEPOSIT",
	'i': "IRON_DEPOSIT",
}

// backgroundTiles - фоновый тайл по типу зоны.
var backgroundTiles = map[string]string{
	"JUNGLE":   "DIRT",
	"SEA":      "SALTED_WATER",
	"MOUNTAIN": "ROCKY_GROUND",
	"HILL":     "DIRT",
	"BEACH":    "SAND",
	"PLAIN":    "DIRT",
}

// TileForRune возвращает id тайла для символа карты. Неизвестный символ - UNKNOWN.
func TileForRune(r rune) string {
	if id, ok := geoRunes[r]; ok {
		return id
	}
	return TileUnknown
}

// BackgroundTile возвращает фоновый тайл для типа зоны.
func BackgroundTile(zoneType string) (string, bool) {
	id, ok := backgroundTiles[zoneType]
	return id, ok
}

// IsBlank - тайл, который не рисуется.
func IsBlank(tileID string) bool {
	return tileID == TileUnknown || tileID == TileNothing
}
