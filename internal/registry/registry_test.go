package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yms-edu/registrar/internal/store"
	"github.com/yms-edu/registrar/internal/store/sqlite"
)

type MockSequencer struct {
	mock.Mock
}

func (m *MockSequencer) NextSeq(kind, year string) (int64, error) {
	args := m.Called(kind, year)
	return args.Get(0).(int64), args.Error(1)
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func TestMintFormats(t *testing.T) {
	kinds := Kinds("YMS")

	testCases := []struct {
		name string
		kind Kind
		seq  int64
		want string
	}{
		{"student", kinds["student"], 1, "YMS-25-001"},
		{"student double digit", kinds["student"], 11, "YMS-25-011"},
		{"teacher", kinds["teacher"], 1, "YMS-S-2501"},
		{"admin", kinds["admin"], 7, "YMS-AD-25-07"},
		{"grows past pad width", kinds["student"], 1234, "YMS-25-1234"},
		{"teacher past pad width", kinds["teacher"], 105, "YMS-S-25105"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seq := new(MockSequencer)
			seq.On("NextSeq", tc.kind.Tag, "25").Return(tc.seq, nil).Once()

			reg := NewWithClock(seq, fixedClock)
			uid, err := reg.Mint(tc.kind)
			require.NoError(t, err)
			assert.Equal(t, tc.want, uid)
			seq.AssertExpectations(t)
		})
	}
}

func TestMintRetriesTransient(t *testing.T) {
	kind := Kinds("YMS")["student"]

	seq := new(MockSequencer)
	transient := fmt.Errorf("counter busy: %w", store.ErrTransient)
	seq.On("NextSeq", "students", "25").Return(int64(0), transient).Twice()
	seq.On("NextSeq", "students", "25").Return(int64(42), nil).Once()

	reg := NewWithClock(seq, fixedClock)
	uid, err := reg.Mint(kind)
	require.NoError(t, err)
	assert.Equal(t, "YMS-25-042", uid)
	seq.AssertExpectations(t)
}

func TestMintGivesUpAfterRetryBudget(t *testing.T) {
	kind := Kinds("YMS")["student"]

	seq := new(MockSequencer)
	transient := fmt.Errorf("counter busy: %w", store.ErrTransient)
	seq.On("NextSeq", "students", "25").Return(int64(0), transient).Times(mintAttempts)

	reg := NewWithClock(seq, fixedClock)
	_, err := reg.Mint(kind)
	assert.ErrorIs(t, err, store.ErrTransient)
	seq.AssertExpectations(t)
}

func TestMintDoesNotRetryPermanentErrors(t *testing.T) {
	kind := Kinds("YMS")["student"]

	seq := new(MockSequencer)
	seq.On("NextSeq", "students", "25").Return(int64(0), fmt.Errorf("schema gone")).Once()

	reg := NewWithClock(seq, fixedClock)
	_, err := reg.Mint(kind)
	assert.Error(t, err)
	seq.AssertExpectations(t)
}

// Concurrent mints against a real store must never hand out the same
// sequence number.
func TestMintConcurrentUnique(t *testing.T) {
	s, err := sqlite.NewSQLiteStore(t.TempDir()+"/mint.db", "../../migrations")
	require.NoError(t, err)
	defer s.Close()

	kind := Kinds("YMS")["student"]
	reg := NewWithClock(s, fixedClock)

	const n = 20
	uids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uid, err := reg.Mint(kind)
			assert.NoError(t, err)
			uids <- uid
		}()
	}
	wg.Wait()
	close(uids)

	seen := make(map[string]bool, n)
	for uid := range uids {
		assert.False(t, seen[uid], "duplicate uid %s", uid)
		seen[uid] = true
	}
	assert.Len(t, seen, n)
}
