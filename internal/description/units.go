package description

import (
	"strconv"
	"strings"
)

// unitSuffixes - единицы в значениях по умолчанию, в порядке проверки.
var unitSuffixes = []string{"l", "kg", "g", "m³", "u"}

// SplitUnit отделяет единицу измерения: "12.5 kg" -> ("12.5", "kg").
func SplitUnit(value string) (string, string) {
	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(value, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(value, suffix)), suffix
		}
	}
	return strings.TrimSpace(value), ""
}

// parseNumber разбирает число с необязательной единицей. Пустая строка - 0.
func parseNumber(value string) (float64, string, error) {
	number, suffix := SplitUnit(value)
	if number == "" {
		return 0, suffix, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64)
	return f, suffix, err
}
