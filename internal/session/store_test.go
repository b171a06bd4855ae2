package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"forex-signal-bot/internal/domain"
)

func TestGetCreatesSessionOnce(t *testing.T) {
	store := NewStore()

	s := store.Get(42)
	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, StateInit, s.State)
	assert.Empty(t, s.Language)

	store.Get(42)
	assert.Equal(t, 1, store.Len())
}

func TestUpdateMutatesAndReturnsCopy(t *testing.T) {
	store := NewStore()

	got := store.Update(7, func(s *Session) {
		s.Language = domain.LanguageEN
		s.State = StateIdle
	})
	assert.Equal(t, domain.LanguageEN, got.Language)

	got.Pair = "EURUSD"
	assert.Empty(t, store.Get(7).Pair, "returned copy must not alias stored session")
	assert.Equal(t, StateIdle, store.Get(7).State)
}

func TestUpdateIsSerialized(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(1, func(s *Session) {
				s.Pair += "x"
			})
		}()
	}
	wg.Wait()
	assert.Len(t, store.Get(1).Pair, 50)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "AWAITING_HORIZON", StateAwaitingHorizon.String())
	assert.Equal(t, "UNKNOWN", State(99).String())
}
