package school

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yms-edu/registrar/internal/models"
	"github.com/yms-edu/registrar/internal/store"
)

func TestGenerateCards(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	cards, err := repos.cards.Generate(3)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	seen := make(map[string]bool)
	for i, card := range cards {
		assert.Equal(t, fmt.Sprintf("SC-%05d", i+1), card.SerialNumber)
		assert.Len(t, card.Pin, 8)
		assert.Equal(t, models.CardUnused, card.Status)
		assert.NotEmpty(t, card.ID)
		assert.False(t, seen[card.Pin], "Expected unique pins")
		seen[card.Pin] = true
	}

	// A second batch continues the serial sequence.
	more, err := repos.cards.Generate(2)
	require.NoError(t, err)
	require.Len(t, more, 2)
	assert.Equal(t, "SC-00004", more[0].SerialNumber)
	assert.Equal(t, "SC-00005", more[1].SerialNumber)
}

func TestGenerateCardsInvalidQuantity(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	for _, quantity := range []int{0, -5, maxCardBatch + 1} {
		_, err := repos.cards.Generate(quantity)
		assert.ErrorIs(t, err, models.ErrInvalid, "quantity %d", quantity)
	}
}

func TestMarkCardUsed(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	cards, err := repos.cards.Generate(1)
	require.NoError(t, err)

	require.NoError(t, repos.cards.MarkUsed(cards[0].ID, "YMS-25-001"))

	listed, err := repos.cards.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, models.CardUsed, listed[0].Status)
	assert.Equal(t, "YMS-25-001", listed[0].UsedBy)
	assert.NotEmpty(t, listed[0].UsedAt)

	t.Run("empty user defaulted", func(t *testing.T) {
		require.NoError(t, repos.cards.MarkUsed(cards[0].ID, ""))
		listed, err := repos.cards.List()
		require.NoError(t, err)
		assert.Equal(t, "Unknown User", listed[0].UsedBy)
	})

	t.Run("missing card", func(t *testing.T) {
		err := repos.cards.MarkUsed("nope", "anyone")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDeleteCard(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	cards, err := repos.cards.Generate(1)
	require.NoError(t, err)

	require.NoError(t, repos.cards.Delete(cards[0].ID))
	assert.ErrorIs(t, repos.cards.Delete(cards[0].ID), store.ErrNotFound)
}
