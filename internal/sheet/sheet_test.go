package sheet

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"probe-inventory-backend/internal/model"
)

// newSheetDB opens an isolated in-memory SQLite database.
func newSheetDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.SheetRow{}))
	return db
}

func TestGormSheetRoundTrip(t *testing.T) {
	db := newSheetDB(t, "sheetRoundTrip")
	store := NewGormSheet(db, 2) // small batch to exercise chunking
	ctx := context.Background()

	header := []string{"Serial Number", "Type", "Status"}
	rows := [][]string{
		{"pH_2601_00001", "pH Probe", "Instock"},
		{"pH_2601_00002", "pH Probe", "Calibrated"},
		{"DO_2806_00001", "DO Probe", "Instock"},
	}

	require.NoError(t, store.Overwrite(ctx, header, rows))

	table, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, header, table.Header)
	assert.Equal(t, rows, table.Rows)
	assert.True(t, store.IsReachable(ctx))
}

func TestGormSheetOverwriteLeavesTrailingRowsUntilTruncated(t *testing.T) {
	db := newSheetDB(t, "sheetTruncate")
	store := NewGormSheet(db, 10)
	ctx := context.Background()

	header := []string{"Serial Number"}
	require.NoError(t, store.Overwrite(ctx, header, [][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}}))

	// A shorter overwrite updates in place; old 4th and 5th rows stay.
	require.NoError(t, store.Overwrite(ctx, header, [][]string{{"x"}, {"y"}, {"z"}}))
	table, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, table.Rows, 5)
	assert.Equal(t, [][]string{{"x"}, {"y"}, {"z"}, {"d"}, {"e"}}, table.Rows)

	require.NoError(t, store.DeleteTrailingRows(ctx, 3))
	table, err = store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x"}, {"y"}, {"z"}}, table.Rows)
}

func TestGormSheetAppendRows(t *testing.T) {
	db := newSheetDB(t, "sheetAppend")
	store := NewGormSheet(db, 10)
	ctx := context.Background()

	require.NoError(t, store.Overwrite(ctx, []string{"Serial Number"}, [][]string{{"a"}}))
	require.NoError(t, store.AppendRows(ctx, [][]string{{"b"}, {"c"}}))

	table, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, table.Rows)
}

func TestGormSheetEmpty(t *testing.T) {
	db := newSheetDB(t, "sheetEmpty")
	store := NewGormSheet(db, 10)

	table, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Nil(t, table.Header)
	assert.Empty(t, table.Rows)
}

// The failure path uses sqlmock so a broken connection is observable
// without a real database.
func TestGormSheetReadFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT").WillReturnError(fmt.Errorf("connection refused"))

	store := NewGormSheet(gormDB, 10)
	_, err = store.ReadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet read failed")

	mock.ExpectQuery("SELECT").WillReturnError(fmt.Errorf("connection refused"))
	assert.False(t, store.IsReachable(context.Background()))
}
