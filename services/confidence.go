package services

import (
	"github.com/StephanBK/sloth/models"
)

// ComputeConfidence berechnet den Vertrauens-Score (0.0–1.0) eines Produkts.
// Handgepflegte und wissenschaftliche Daten stehen bewusst über Crowd-Daten,
// egal wie vollständig letztere sich selbst einschätzen: manuelle Einträge
// bekommen 1.0, BLS fest 0.95, Open Food Facts gestaffelt nach der
// selbstgemeldeten completeness.
func ComputeConfidence(dataSource string, completeness float64) float64 {
	switch dataSource {
	case models.SourceManual:
		return 1.0
	case models.SourceBLS:
		return 0.95
	case models.SourceOFF:
		switch {
		case completeness >= 0.8:
			return 0.8
		case completeness >= 0.5:
			return 0.5
		default:
			return 0.3
		}
	}
	return 0.3
}
