package seed

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/repository"
)

func newStore(t *testing.T) *repository.FileStore {
	t.Helper()

	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "schedules.json"))
	require.NoError(t, err)
	return store
}

func TestImportDocument(t *testing.T) {
	store := newStore(t)
	doc := `{
		"1402-1": {"Nodal": {"1": {"shift1": "Ali"}}},
		"1402-12": {},
		"bogus": {"Nodal": {}}
	}`

	cnt, err := ImportDocument(store, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)

	ws, found, err := store.GetSchedule(domain.PeriodKey{Year: 1402, Month: 1})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ali", ws["Nodal"]["1"]["shift1"])

	_, found, err = store.GetSchedule(domain.PeriodKey{Year: 1402, Month: 12})
	require.NoError(t, err)
	assert.True(t, found)
}

func TestImportDocumentInvalidJSON(t *testing.T) {
	_, err := ImportDocument(newStore(t), strings.NewReader("[1, 2"))
	assert.Error(t, err)
}

func TestSeedRandomPeriods(t *testing.T) {
	store := newStore(t)

	cnt, err := SeedRandomPeriods(store, 1403, 1, 3, domain.DefaultWorkplaces, 5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3, cnt)

	for month := 1; month <= 3; month++ {
		_, found, err := store.GetSchedule(domain.PeriodKey{Year: 1403, Month: month})
		require.NoError(t, err)
		assert.True(t, found)
	}

	_, err = SeedRandomPeriods(store, 1403, 3, 1, domain.DefaultWorkplaces, 5, 0.5)
	assert.Error(t, err)
}
