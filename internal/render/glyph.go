package render

import (
	"strings"
	"unicode/utf8"

	"github.com/buxx/rollgui2-sub000/internal/zone"
	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// Глифы сущностей поверх карты.
const (
	GlyphPlayer    = '@'
	GlyphCharacter = 'P'
	GlyphStuff     = '*'
	GlyphResource  = '%'
	GlyphBuild     = 'B'
	GlyphFloor     = '_'
	GlyphUnknown   = '?'
)

// TileGlyph - символ тайла: char из /zones/tiles, иначе первая буква id.
func TileGlyph(tileID string, defs map[string]api.Tile) rune {
	switch tileID {
	case "", zone.TileNothing:
		return ' '
	case zone.TileUnknown:
		return GlyphUnknown
	}
	if def, ok := defs[tileID]; ok && def.Char != "" {
		r, _ := utf8.DecodeRuneInString(def.Char)
		return r
	}
	r, _ := utf8.DecodeRuneInString(strings.ToLower(tileID))
	return r
}

// WorldGlyph - символ зоны на карте мира (тип зоны).
func WorldGlyph(zoneType string) rune {
	switch zoneType {
	case "SEA":
		return '~'
	case "MOUNTAIN":
		return '^'
	case "JUNGLE":
		return '&'
	case "BEACH":
		return '.'
	case "HILL":
		return 'n'
	case "PLAIN":
		return '"'
	}
	if zoneType == "" {
		return ' '
	}
	r, _ := utf8.DecodeRuneInString(zoneType)
	return r
}

// BuildGlyph - пол рисуется отдельно, чтобы было видно, что по нему можно ходить.
func BuildGlyph(b api.Build) rune {
	if b.IsFloor {
		return GlyphFloor
	}
	return GlyphBuild
}
