package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPreferenceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Preference{}))
	return db
}

func TestPreferenceRepo_GetMissing(t *testing.T) {
	repo := NewPreferenceRepository(setupPreferenceTestDB(t))

	v, found, err := repo.GetUint(context.Background(), "theme", "theme_bg_top")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, v)
}

func TestPreferenceRepo_PutThenGet(t *testing.T) {
	repo := NewPreferenceRepository(setupPreferenceTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.PutUint(ctx, "theme", "theme_bg_top", 0x4c8cb9))

	v, found, err := repo.GetUint(ctx, "theme", "theme_bg_top")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint32(0x4c8cb9), v)
}

func TestPreferenceRepo_PutOverwrites(t *testing.T) {
	db := setupPreferenceTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.PutUint(ctx, "theme", "theme_box_bg", 1))
	require.NoError(t, repo.PutUint(ctx, "theme", "theme_box_bg", 0xFFFFFFFF))

	v, _, err := repo.GetUint(ctx, "theme", "theme_box_bg")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), v)

	var count int64
	require.NoError(t, db.Model(&models.Preference{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPreferenceRepo_NamespacesAreIsolated(t *testing.T) {
	repo := NewPreferenceRepository(setupPreferenceTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.PutUint(ctx, "theme", "theme_bg_top", 1))
	require.NoError(t, repo.PutUint(ctx, "panel", "theme_bg_top", 2))

	v, _, err := repo.GetUint(ctx, "theme", "theme_bg_top")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)

	require.NoError(t, repo.DeleteNamespace(ctx, "panel"))

	_, found, err := repo.GetUint(ctx, "panel", "theme_bg_top")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = repo.GetUint(ctx, "theme", "theme_bg_top")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPreferenceRepo_List(t *testing.T) {
	repo := NewPreferenceRepository(setupPreferenceTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.PutUint(ctx, "theme", "theme_txt_pri", 3))
	require.NoError(t, repo.PutUint(ctx, "theme", "theme_bg_top", 1))
	require.NoError(t, repo.PutUint(ctx, "other", "x", 9))

	prefs, err := repo.List(ctx, "theme")
	require.NoError(t, err)
	require.Len(t, prefs, 2)
	assert.Equal(t, "theme_bg_top", prefs[0].Key)
	assert.Equal(t, "theme_txt_pri", prefs[1].Key)
	assert.False(t, prefs[0].UpdatedAt.IsZero())
}

func TestPreferenceRepo_Validation(t *testing.T) {
	repo := NewPreferenceRepository(setupPreferenceTestDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.PutUint(ctx, "", "k", 1), models.ErrNamespaceRequired)
	assert.ErrorIs(t, repo.PutUint(ctx, "theme", "", 1), models.ErrKeyRequired)
	assert.ErrorIs(t, repo.DeleteNamespace(ctx, ""), models.ErrNamespaceRequired)
}

func TestPreferenceRepo_ClosedDatabase(t *testing.T) {
	db := setupPreferenceTestDB(t)
	repo := NewPreferenceRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, _, err = repo.GetUint(context.Background(), "theme", "theme_bg_top")
	assert.Error(t, err)
	assert.Error(t, repo.PutUint(context.Background(), "theme", "theme_bg_top", 1))
}
