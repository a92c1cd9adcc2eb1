package providers

import (
	"context"

	"github.com/StephanBK/sloth/models"
)

// Source ist das Interface, das jeder Quell-Adapter (OFF-Staging, BLS)
// implementieren muss. Load liefert die bereits gefilterte, quellintern
// deduplizierte Menge an Staging-Records für die Admission-Stufe.
type Source interface {
	Load(ctx context.Context) ([]*models.StagingProduct, error)

	// Name gibt den eindeutigen Namen der Quelle zurück (z.B. "off").
	Name() string
}
