package school

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yms-edu/registrar/internal/metrics"
	"github.com/yms-edu/registrar/internal/models"
	"github.com/yms-edu/registrar/internal/store"
)

const collCards = "scratchCards"

const maxCardBatch = 1000

type CardRepo struct {
	Store store.DocStore
	Now   func() time.Time
}

func NewCardRepo(s store.DocStore) *CardRepo {
	return &CardRepo{Store: s, Now: time.Now}
}

// generatePin returns an 8-character uppercase pin.
func generatePin() (string, error) {
	raw := make([]byte, 5)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate pin: %w", err)
	}
	return base32.StdEncoding.EncodeToString(raw)[:8], nil
}

// Generate mints a batch of cards. Serial numbers continue from the
// current collection size, so concurrent batches may interleave; serials
// are labels, uniqueness lives in the document key.
func (r *CardRepo) Generate(quantity int) ([]models.ScratchCard, error) {
	if quantity <= 0 || quantity > maxCardBatch {
		return nil, fmt.Errorf("%w: invalid quantity", models.ErrInvalid)
	}

	base, err := r.Store.Count(collCards)
	if err != nil {
		return nil, err
	}

	cards := make([]models.ScratchCard, 0, quantity)
	for i := 1; i <= quantity; i++ {
		pin, err := generatePin()
		if err != nil {
			return cards, err
		}
		card := models.ScratchCard{
			SerialNumber: fmt.Sprintf("SC-%05d", base+int64(i)),
			Pin:          pin,
			Status:       models.CardUnused,
			GeneratedAt:  r.Now().UTC().Format(time.RFC3339),
		}
		data, err := json.Marshal(card)
		if err != nil {
			return cards, fmt.Errorf("failed to encode card: %w", err)
		}
		doc, err := r.Store.Add(collCards, data)
		if err != nil {
			return cards, err
		}
		metrics.DocumentWrites.WithLabelValues(collCards, "add").Inc()
		card.ID = doc.ID
		cards = append(cards, card)
	}
	return cards, nil
}

func (r *CardRepo) List() ([]models.ScratchCard, error) {
	docs, err := r.Store.Query(collCards, store.Query{OrderBy: "generatedAt", Desc: true})
	if err != nil {
		return nil, err
	}
	cards := make([]models.ScratchCard, 0, len(docs))
	for _, doc := range docs {
		var card models.ScratchCard
		if err := json.Unmarshal(doc.Data, &card); err != nil {
			return nil, fmt.Errorf("failed to decode card %s: %w", doc.ID, err)
		}
		card.ID = doc.ID
		cards = append(cards, card)
	}
	return cards, nil
}

func (r *CardRepo) Delete(id string) error {
	if err := r.Store.Delete(collCards, id); err != nil {
		return err
	}
	metrics.DocumentWrites.WithLabelValues(collCards, "delete").Inc()
	return nil
}

func (r *CardRepo) MarkUsed(id, usedBy string) error {
	if _, err := r.Store.Get(collCards, id); err != nil {
		return err
	}
	if usedBy == "" {
		usedBy = "Unknown User"
	}
	patch := map[string]any{
		"status": models.CardUsed,
		"usedAt": r.Now().UTC().Format(time.RFC3339),
		"usedBy": usedBy,
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode card patch: %w", err)
	}
	if err := r.Store.Merge(collCards, id, data); err != nil {
		return err
	}
	metrics.DocumentWrites.WithLabelValues(collCards, "merge").Inc()
	return nil
}
