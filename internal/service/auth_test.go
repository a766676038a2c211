package service

import (
	"testing"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Auth.Register(f.ctx, models.RegisterRequest{
		Name:     " Maria ",
		Email:    "Maria@FutSpot.test",
		Password: "bola1234",
		Phone:    strPtr("11999990000"),
		Role:     "JOGADOR",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Maria", resp.User.Name)
	assert.Equal(t, "maria@futspot.test", resp.User.Email)
	assert.Equal(t, models.RolePlayer, resp.User.Role)

	_, err = f.svc.Auth.Register(f.ctx, models.RegisterRequest{
		Name: "Outra Maria", Email: "maria@futspot.test", Password: "bola1234", Role: models.RoleOwner,
	})
	assertKind(t, err, apperrors.KindValidation)

	login, err := f.svc.Auth.Login(f.ctx, models.LoginRequest{Email: "MARIA@futspot.test", Password: "bola1234", Role: models.RolePlayer})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = f.svc.Auth.Login(f.ctx, models.LoginRequest{Email: "maria@futspot.test", Password: "errada", Role: models.RolePlayer})
	assertKind(t, err, apperrors.KindUnauthorized)

	_, err = f.svc.Auth.Login(f.ctx, models.LoginRequest{Email: "ninguem@futspot.test", Password: "bola1234", Role: models.RolePlayer})
	assertKind(t, err, apperrors.KindUnauthorized)

	_, err = f.svc.Auth.Login(f.ctx, models.LoginRequest{Email: "maria@futspot.test", Password: "bola1234", Role: models.RoleOwner})
	assertKind(t, err, apperrors.KindUnauthorized)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Auth.Register(f.ctx, models.RegisterRequest{
		Name: "Juiz", Email: "juiz@futspot.test", Password: "apito123", Role: "arbitro",
	})
	assertKind(t, err, apperrors.KindValidation)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)

	me, err := f.svc.Users.Me(f.ctx, f.playerID)
	require.NoError(t, err)
	assert.Equal(t, "Jogador", me.Name)

	updated, err := f.svc.Users.Update(f.ctx, f.playerID, models.UpdateUserRequest{Phone: strPtr(" 11988887777 ")})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "11988887777", *updated.Phone)
	assert.Equal(t, "Jogador", updated.Name)

	_, err = f.svc.Users.Update(f.ctx, f.playerID, models.UpdateUserRequest{Name: strPtr("")})
	assertKind(t, err, apperrors.KindValidation)

	_, err = f.svc.Users.Me(f.ctx, 999)
	assertKind(t, err, apperrors.KindNotFound)
}
