package services

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// Größen-/Mengenangaben wie "500g", "1,5 l", "250 ml"
	sizeTokenRegex = regexp.MustCompile(`\d+([.,]\d+)?\s*(g|ml|kg|l|cl|dl)\b`)
	// Satzzeichen und Markensymbole
	noiseCharRegex = regexp.MustCompile("[®™©,.\\-–—/()!?\"']")
)

// NormalizeForMatching kanonisiert ein (Marke, Name)-Paar zu einem
// vergleichbaren Schlüssel für das Fuzzy-Matching: Kleinschreibung,
// Größenangaben und Störzeichen entfernt, Whitespace kollabiert, Marke
// vorangestellt. Liefert den leeren String, wenn kein Buchstabe übrig
// bleibt — solche Records sind nicht matchbar.
func NormalizeForMatching(name, brand string) string {
	text := strings.ToLower(strings.TrimSpace(name))
	if b := strings.ToLower(strings.TrimSpace(brand)); b != "" {
		text = b + " " + text
	}

	text = sizeTokenRegex.ReplaceAllString(text, "")
	text = noiseCharRegex.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")

	if !containsLetter(text) {
		return ""
	}
	return text
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
