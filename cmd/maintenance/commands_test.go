package main

import (
	"bytes"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/config"
	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/testutil"
)

func runCmd(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()

	cfg := &config.Config{
		JWT:         config.JWTConfig{Secret: "maintenance-test", ExpireHours: 1},
		Maintenance: config.MaintenanceConfig{NotificationRetentionDays: 30},
	}
	root := newRootCmd(func(string) (*gorm.DB, *config.Config, error) {
		return db, cfg, nil
	})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestReconcileRatings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	category := testutil.TestCategory(t, db, "Books", nil)
	product := testutil.TestProduct(t, db, category.ID)
	comment := testutil.TestComment(t, db, author.ID, product.ID, testutil.Approved(author.ID))
	testutil.TestVote(t, db, voter.ID, comment.ID, 1)

	out, err := runCmd(t, db, "reconcile-ratings")
	require.NoError(t, err)
	assert.Contains(t, out, "reconciled 1 comment ratings")

	var reloaded model.Comment
	require.NoError(t, db.First(&reloaded, comment.ID).Error)
	assert.Equal(t, 1, reloaded.Rating)
}

func TestPurgeNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)
	old := testutil.TestNotification(t, db, user.ID, true)
	require.NoError(t, db.Model(old).Update("created_at", time.Now().AddDate(0, 0, -10)).Error)
	testutil.TestNotification(t, db, user.ID, true)
	unread := testutil.TestNotification(t, db, user.ID, false)
	require.NoError(t, db.Model(unread).Update("created_at", time.Now().AddDate(0, 0, -10)).Error)

	out, err := runCmd(t, db, "purge-notifications", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 1 read notifications")

	var remaining int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestSetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)

	out, err := runCmd(t, db, "set-role", strconv.FormatInt(user.ID, 10), model.RoleModerator)
	require.NoError(t, err)
	assert.Contains(t, out, "is now moderator")

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, model.RoleModerator, reloaded.Role)

	_, err = runCmd(t, db, "set-role", "abc", model.RoleAdmin)
	assert.Error(t, err)

	_, err = runCmd(t, db, "set-role", strconv.FormatInt(user.ID, 10), "root")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	_, err := runCmd(t, db, "seed")
	require.NoError(t, err)

	var admins, moderators, products, assignments int64
	db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&admins)
	db.Model(&model.User{}).Where("role = ?", model.RoleModerator).Count(&moderators)
	db.Model(&model.Product{}).Count(&products)
	db.Model(&model.ModeratorCategory{}).Count(&assignments)

	assert.Equal(t, int64(1), admins)
	assert.Equal(t, int64(1), moderators)
	assert.Equal(t, int64(3), products)
	assert.Equal(t, int64(1), assignments)

	_, err = runCmd(t, db, "seed")
	assert.Error(t, err)
}

func TestConnectError(t *testing.T) {
	root := newRootCmd(func(string) (*gorm.DB, *config.Config, error) {
		return nil, nil, errors.New("no database")
	})
	root.SetArgs([]string{"reconcile-ratings"})
	root.SetOut(&bytes.Buffer{})

	assert.EqualError(t, root.Execute(), "no database")
}
