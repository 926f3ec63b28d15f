package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	mydb "catalog/internal/db"
	"catalog/internal/db/dbtest"
	"catalog/internal/models"
)

func TestSeedIsIdempotent(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, mydb.Seed(ctx, gdb))
	require.NoError(t, mydb.Seed(ctx, gdb))

	var types int64
	require.NoError(t, gdb.Model(&models.Type{}).Count(&types).Error)
	require.EqualValues(t, len(models.DefaultTypes), types)

	var admin models.User
	require.NoError(t, gdb.Where("email = ?", mydb.AdminEmail).First(&admin).Error)
	require.True(t, models.CheckPassword(admin.PasswordHash, mydb.AdminPassword))
	require.NoError(t, mydb.Ping(ctx, gdb))
}

func TestImageOwnerKindCheck(t *testing.T) {
	gdb := dbtest.New(t)

	err := gdb.Create(&models.Image{OwnerKind: "user", OwnerID: 1, Path: "uploads/a.png"}).Error
	require.Error(t, err)

	err = gdb.Create(&models.Image{OwnerKind: models.OwnerPost, OwnerID: 1, Path: ""}).Error
	require.Error(t, err)

	require.NoError(t, gdb.Create(&models.Image{OwnerKind: models.OwnerPost, OwnerID: 1, Path: "uploads/a.png"}).Error)
}
