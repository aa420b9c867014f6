package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fundscope/funding-dashboard/internal/errors"
)

const fixtureCSV = `date,startup,amount,vertical,subvertical,city,investors,round
2020-06-15,PayQuick,100,FinTech,Payments,Mumbai,"Accel, Tiger Global",Series B
2019-05-20,Grocify,40,E-Commerce,Grocery,Bengaluru,Accel,Seed Round
bad-date,Dropped,10,FinTech,Payments,Mumbai,Accel,Seed
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "funding.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(fixtureCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "PayQuick", records[0]["startup"])
	assert.Equal(t, "Accel, Tiger Global", records[0]["investors"])
}

func TestReadCSVShortRowPadded(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0]["c"])
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestStoreSnapshot(t *testing.T) {
	store := NewStore(writeFixture(t, fixtureCSV))

	snap, err := store.Snapshot()
	require.NoError(t, err)

	// The bad-date row is dropped; the rest arrive date descending.
	require.Len(t, snap.Events, 2)
	assert.Equal(t, "PayQuick", snap.Events[0].Startup)
	assert.Equal(t, "Bangalore", snap.Events[1].City)
	assert.Equal(t, "Seed", snap.Events[1].Round)
	assert.NotEmpty(t, snap.Version)
}

func TestStoreSnapshotCached(t *testing.T) {
	store := NewStore(writeFixture(t, fixtureCSV))

	first, err := store.Snapshot()
	require.NoError(t, err)
	second, err := store.Snapshot()
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestStoreSnapshotReloadsOnFileChange(t *testing.T) {
	path := writeFixture(t, fixtureCSV)
	store := NewStore(path)

	first, err := store.Snapshot()
	require.NoError(t, err)

	updated := fixtureCSV + "2021-01-10,LendFast,60,FinTech,Lending,Delhi,Matrix,Series A\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	// Size change alone triggers the reload even on coarse mtime filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	second, err := store.Snapshot()
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Len(t, second.Events, 3)
	assert.NotEqual(t, first.Version, second.Version)
}

func TestStoreInvalidate(t *testing.T) {
	store := NewStore(writeFixture(t, fixtureCSV))

	first, err := store.Snapshot()
	require.NoError(t, err)

	store.Invalidate()

	second, err := store.Snapshot()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestStoreMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.csv"))

	_, err := store.Snapshot()
	require.Error(t, err)
}

func TestStoreSchemaError(t *testing.T) {
	store := NewStore(writeFixture(t, "date,startup\n2020-01-01,OnlyTwoCols\n"))

	_, err := store.Snapshot()
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestSnapshotStakesMemoized(t *testing.T) {
	store := NewStore(writeFixture(t, fixtureCSV))

	snap, err := store.Snapshot()
	require.NoError(t, err)

	stakes := snap.Stakes()
	require.Len(t, stakes, 3)
	assert.Equal(t, "Accel", stakes[0].Investor)
	assert.Equal(t, "Tiger Global", stakes[1].Investor)

	again := snap.Stakes()
	// Same backing array, not a recomputation.
	assert.Equal(t, &stakes[0], &again[0])
}
