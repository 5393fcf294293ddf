package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLinksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	linksTable := `
CREATE TABLE product_categories (
  product_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  created_at DATETIME,
  PRIMARY KEY (product_id, category_id)
);`
	require.NoError(t, db.Exec(linksTable).Error)
	return db
}

func linkCategory(t *testing.T, db *gorm.DB, productID, categoryID uuid.UUID) {
	t.Helper()
	link := models.ProductCategory{ProductID: productID, CategoryID: categoryID}
	require.NoError(t, db.Create(&link).Error)
}

func TestReconcileCategoryLinks(t *testing.T) {
	db := setupLinksTestDB(t)
	repo := NewRepository(db)
	productID := uuid.New()
	catA, catB, catC := uuid.New(), uuid.New(), uuid.New()
	linkCategory(t, db, productID, catA)
	linkCategory(t, db, productID, catB)

	err := repo.ReconcileCategoryLinks(context.Background(), productID,
		[]uuid.UUID{catC}, []uuid.UUID{catA})
	require.NoError(t, err)

	ids, err := repo.CategoryIDs(context.Background(), productID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{catB, catC}, ids)
}

func TestReconcileCategoryLinksRollsBackOnFailure(t *testing.T) {
	db := setupLinksTestDB(t)
	repo := NewRepository(db)
	productID := uuid.New()
	catA, catB := uuid.New(), uuid.New()
	linkCategory(t, db, productID, catA)

	// The duplicate pair violates the composite primary key, failing the
	// insert after the removal already ran inside the transaction.
	err := repo.ReconcileCategoryLinks(context.Background(), productID,
		[]uuid.UUID{catB, catB}, []uuid.UUID{catA})
	require.Error(t, err)

	ids, err := repo.CategoryIDs(context.Background(), productID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{catA}, ids, "failed reconciliation must leave links untouched")
}
