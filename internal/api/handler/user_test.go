package handler

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/response"
	"github.com/qs3c/storefront_server/internal/testutil"
)

func TestUserHandler_Me(t *testing.T) {
	h, ctx, cleanup := setupHandlers(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB, testutil.WithUsername("profileuser"))

	router := gin.New()
	router.Use(mockActor(user))
	router.GET("/users/me", h.user.Me)

	resp := parseResponse(t, performRequest(router, "GET", "/users/me", nil))
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := dataMap(t, resp)
	assert.Equal(t, "profileuser", data["username"])
	assert.Equal(t, model.RoleUser, data["role"])
}

func TestUserHandler_Me_DeletedUser(t *testing.T) {
	h, _, cleanup := setupHandlers(t)
	defer cleanup()

	router := gin.New()
	router.Use(mockActor(&model.User{ID: 9999, Role: model.RoleUser}))
	router.GET("/users/me", h.user.Me)

	resp := parseResponse(t, performRequest(router, "GET", "/users/me", nil))
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestUserHandler_SetRole(t *testing.T) {
	h, ctx, cleanup := setupHandlers(t)
	defer cleanup()

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.PATCH("/users/:id/role", h.user.SetRole)
	path := fmt.Sprintf("/users/%d/role", user.ID)

	resp := parseResponse(t, performRequest(router, "PATCH", path, dto.SetRoleRequest{Role: model.RoleModerator}))
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, model.RoleModerator, dataMap(t, resp)["role"])

	resp = parseResponse(t, performRequest(router, "PATCH", path, gin.H{"role": "superuser"}))
	assert.Equal(t, response.CodeParamError, resp.Code)

	resp = parseResponse(t, performRequest(router, "PATCH", "/users/9999/role", dto.SetRoleRequest{Role: model.RoleAdmin}))
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}
