package models

const (
	CardUnused = "unused"
	CardUsed   = "used"
)

// ScratchCard gates student-facing result checks. Serial numbers run
// sequentially across the whole collection, pins are random.
type ScratchCard struct {
	ID           string `json:"id,omitempty"`
	SerialNumber string `json:"serialNumber"`
	Pin          string `json:"pin"`
	Status       string `json:"status"`
	GeneratedAt  string `json:"generatedAt"`
	UsedAt       string `json:"usedAt,omitempty"`
	UsedBy       string `json:"usedBy,omitempty"`
}
