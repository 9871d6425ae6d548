package migration

import (
	"context"
	"testing"

	"recipe-finder/entities"
	"recipe-finder/internal/testutil"
	"recipe-finder/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, Migrate(db))

	utils.SetConfig("ADMIN_EMAIL", "admin@example.com")
	utils.SetConfig("ADMIN_PASSWORD", "Sup3r-Secret")
	utils.SetConfig("ADMIN_USERNAME", "")
	t.Cleanup(func() {
		utils.SetConfig("ADMIN_EMAIL", "")
		utils.SetConfig("ADMIN_PASSWORD", "")
	})

	for i := 0; i < 2; i++ {
		require.NoError(t, Seed(context.Background(), db))
	}

	var roles []entities.Role
	require.NoError(t, db.Order("role_name").Find(&roles).Error)
	require.Len(t, roles, 2)
	assert.Equal(t, "admin", roles[0].RoleName)
	assert.Equal(t, "user", roles[1].RoleName)

	var admin entities.User
	require.NoError(t, db.Preload("Role").Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, "admin", admin.Username)
	assert.True(t, admin.IsAdmin())

	var users int64
	require.NoError(t, db.Model(&entities.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}
