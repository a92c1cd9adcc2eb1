package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/StephanBK/sloth/models"
)

// MatchResult beschreibt, warum ein Staging-Record als Duplikat gilt.
type MatchResult struct {
	ProductID  string
	Method     string  // models.MatchBarcodeExact | models.MatchFuzzyName
	Confidence float64 // Ähnlichkeits-Ratio, 1.0 bei Barcode-Treffer
}

// Matcher entscheidet für jeden Staging-Record: exaktes Duplikat (Barcode),
// Fuzzy-Duplikat (Namensähnlichkeit über Schwellwert) oder neu. Der Index
// wächst in Aufnahme-Reihenfolge mit, damit spätere Records desselben Laufs
// gegen früher aufgenommene matchen — diese Reihenfolge verhindert, dass
// Beinahe-Duplikate aus einer Quelle paarweise durchrutschen.
type Matcher struct {
	threshold float64
	keys      map[string]string // normalisierter Schlüssel -> Produkt-ID
	eans      map[string]string // EAN -> Produkt-ID
	logger    *zap.Logger
}

// NewMatcher erstellt einen leeren Matcher mit gegebenem Schwellwert.
func NewMatcher(threshold float64, logger *zap.Logger) *Matcher {
	return &Matcher{
		threshold: threshold,
		keys:      make(map[string]string),
		eans:      make(map[string]string),
		logger:    logger,
	}
}

// SeedFromCatalog lädt alle vorhandenen Katalogzeilen in den Index. Der
// Index hält den kompletten Katalog im Speicher (bewusster Trade-off: der
// Katalog passt in den RAM, der Quell-Dump nicht).
func (m *Matcher) SeedFromCatalog(db *gorm.DB) error {
	var products []models.Product
	if err := db.Select("id", "name", "brand", "ean").Find(&products).Error; err != nil {
		return err
	}
	for i := range products {
		p := &products[i]
		brand := ""
		if p.Brand != nil {
			brand = *p.Brand
		}
		ean := ""
		if p.EAN != nil {
			ean = *p.EAN
		}
		m.Seed(p.ID, p.Name, brand, ean)
	}
	m.logger.Info("Dedup-Index aus Katalog geladen",
		zap.Int("keys", len(m.keys)),
		zap.Int("eans", len(m.eans)))
	return nil
}

// Seed trägt ein bestehendes Produkt in den Index ein.
func (m *Matcher) Seed(productID, name, brand, ean string) {
	if key := NormalizeForMatching(name, brand); key != "" {
		m.keys[key] = productID
	}
	if ean != "" {
		m.eans[ean] = productID
	}
}

// Match prüft einen Staging-Record gegen den Index. Liefert (nil, bestRatio)
// für neue Records; sonst das Match-Ergebnis.
func (m *Matcher) Match(rec *models.StagingProduct) (*MatchResult, float64) {
	if rec.EAN != "" {
		if id, ok := m.eans[rec.EAN]; ok {
			return &MatchResult{ProductID: id, Method: models.MatchBarcodeExact, Confidence: 1.0}, 1.0
		}
	}

	key := NormalizeForMatching(rec.Name, rec.Brand)
	if key == "" {
		// Nicht matchbar — gilt als neu, landet aber nicht im Index.
		return nil, 0
	}

	bestRatio := 0.0
	bestID := ""
	bestKey := ""
	for existingKey, productID := range m.keys {
		ratio := SimilarityRatio(key, existingKey)
		if ratio < bestRatio {
			continue
		}
		// Bei Ratio-Gleichstand gewinnt der kleinere Schlüssel, sonst hinge
		// die Produkt-ID von der Map-Iterationsreihenfolge ab
		if ratio == bestRatio && bestKey != "" && existingKey >= bestKey {
			continue
		}
		bestRatio, bestID, bestKey = ratio, productID, existingKey
	}

	if bestRatio >= m.threshold {
		return &MatchResult{ProductID: bestID, Method: models.MatchFuzzyName, Confidence: bestRatio}, bestRatio
	}
	return nil, bestRatio
}

// Admit nimmt ein neu zugelassenes Produkt sofort in den Index auf.
func (m *Matcher) Admit(productID string, rec *models.StagingProduct) {
	if key := NormalizeForMatching(rec.Name, rec.Brand); key != "" {
		m.keys[key] = productID
	}
	if rec.EAN != "" {
		m.eans[rec.EAN] = productID
	}
}

// Size gibt die Anzahl der Namens-Schlüssel im Index zurück.
func (m *Matcher) Size() int {
	return len(m.keys)
}

// SimilarityRatio berechnet die Zeichenfolgen-Ähnlichkeit zweier Strings als
// 2*M/T, wobei M die Gesamtlänge aller übereinstimmenden Blöcke und T die
// Summe beider Stringlängen ist. Das ist dasselbe Maß, mit dem der Katalog
// historisch aufgebaut wurde — ein anderer Algorithmus würde andere
// Match-Entscheidungen treffen. Der paarweise O(n*m)-Vergleich gegen den
// ganzen Index ist eine bekannte Performance-Grenze, für die bereits
// barcode-reduzierten Staging-Dateien aber akzeptabel.
func SimilarityRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchedSize(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(total)
}

// matchedSize summiert rekursiv die längsten gemeinsamen Blöcke links und
// rechts des jeweils längsten Treffers.
func matchedSize(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchedSize(a, b, alo, i, blo, j) +
		matchedSize(a, b, i+size, ahi, j+size, bhi)
}

func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	b2j := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}
	return besti, bestj, bestsize
}
