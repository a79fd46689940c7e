package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/testutil"
)

func TestCategoryTree_AncestorChain(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	men := testutil.TestCategory(t, svc.db, "Men", nil)
	shirts := testutil.TestCategory(t, svc.db, "T-Shirts", &men.ID)
	polos := testutil.TestCategory(t, svc.db, "Polos", &shirts.ID)

	chain, err := svc.tree.AncestorChain(polos.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{polos.ID, shirts.ID, men.ID}, chain)

	chain, err = svc.tree.AncestorChain(men.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{men.ID}, chain)
}

func TestCategoryTree_AncestorChain_NotFound(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	_, err := svc.tree.AncestorChain(99999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryTree_AncestorChain_Cycle(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	a := testutil.TestCategory(t, svc.db, "A", nil)
	b := testutil.TestCategory(t, svc.db, "B", &a.ID)
	// 直接改库制造 A -> B -> A
	require.NoError(t, svc.db.Model(&model.Category{}).Where("id = ?", a.ID).Update("parent_id", b.ID).Error)

	_, err := svc.tree.AncestorChain(b.ID)
	assert.ErrorIs(t, err, ErrCategoryCycle)
}

func TestCategoryTree_AllDescendantIDs(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	men := testutil.TestCategory(t, svc.db, "Men", nil)
	shirts := testutil.TestCategory(t, svc.db, "T-Shirts", &men.ID)
	pants := testutil.TestCategory(t, svc.db, "Pants", &men.ID)
	polos := testutil.TestCategory(t, svc.db, "Polos", &shirts.ID)
	women := testutil.TestCategory(t, svc.db, "Women", nil)

	t.Run("expands downward breadth first", func(t *testing.T) {
		ids, err := svc.tree.AllDescendantIDs([]int64{men.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{men.ID, shirts.ID, pants.ID, polos.ID}, ids)
	})

	t.Run("leaf returns itself", func(t *testing.T) {
		ids, err := svc.tree.AllDescendantIDs([]int64{polos.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{polos.ID}, ids)
	})

	t.Run("overlapping seeds are not a cycle", func(t *testing.T) {
		ids, err := svc.tree.AllDescendantIDs([]int64{shirts.ID, men.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{men.ID, shirts.ID, pants.ID, polos.ID}, ids)
	})

	t.Run("does not walk upward", func(t *testing.T) {
		ids, err := svc.tree.AllDescendantIDs([]int64{shirts.ID})
		require.NoError(t, err)
		assert.NotContains(t, ids, men.ID)
		assert.NotContains(t, ids, women.ID)
	})

	t.Run("empty input", func(t *testing.T) {
		ids, err := svc.tree.AllDescendantIDs(nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestCategoryTree_AllDescendantIDs_Cycle(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	a := testutil.TestCategory(t, svc.db, "A", nil)
	b := testutil.TestCategory(t, svc.db, "B", &a.ID)
	c := testutil.TestCategory(t, svc.db, "C", &b.ID)
	require.NoError(t, svc.db.Model(&model.Category{}).Where("id = ?", a.ID).Update("parent_id", c.ID).Error)

	_, err := svc.tree.AllDescendantIDs([]int64{a.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	self := testutil.TestCategory(t, svc.db, "Self", nil)
	require.NoError(t, svc.db.Model(&model.Category{}).Where("id = ?", self.ID).Update("parent_id", self.ID).Error)

	_, err = svc.tree.AllDescendantIDs([]int64{self.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)
}
