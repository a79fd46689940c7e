package handler

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/jwt"
	"github.com/qs3c/storefront_server/internal/pkg/response"
)

func TestAuthHandler_RegisterThenLogin(t *testing.T) {
	h, ctx, cleanup := setupHandlers(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.auth.Register)
	router.POST("/login", h.auth.Login)

	resp := parseResponse(t, performRequest(router, "POST", "/register", dto.RegisterRequest{
		Username: "shopper",
		Email:    "shopper@example.com",
		Password: "password123",
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)
	userID := int64(dataMap(t, resp)["user_id"].(float64))

	var user model.User
	require.NoError(t, ctx.DB.First(&user, userID).Error)
	assert.Equal(t, model.RoleUser, user.Role)

	resp = parseResponse(t, performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "shopper@example.com",
		Password: "password123",
	}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	token, _ := dataMap(t, resp)["token"].(string)
	claims, err := jwt.ParseToken(token, "test-secret-key")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	h, _, cleanup := setupHandlers(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.auth.Register)

	first := dto.RegisterRequest{Username: "taken", Email: "taken@example.com", Password: "password123"}
	require.Equal(t, response.CodeSuccess, parseResponse(t, performRequest(router, "POST", "/register", first)).Code)

	tests := []struct {
		name string
		body interface{}
	}{
		{"duplicate email", dto.RegisterRequest{Username: "fresh", Email: "taken@example.com", Password: "password123"}},
		{"duplicate username", dto.RegisterRequest{Username: "taken", Email: "fresh@example.com", Password: "password123"}},
		{"invalid email", dto.RegisterRequest{Username: "fresh", Email: "not-an-email", Password: "password123"}},
		{"short password", dto.RegisterRequest{Username: "fresh", Email: "fresh@example.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := parseResponse(t, performRequest(router, "POST", "/register", tt.body))
			assert.Equal(t, response.CodeParamError, resp.Code)
		})
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h, _, cleanup := setupHandlers(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.auth.Register)
	router.POST("/login", h.auth.Login)

	performRequest(router, "POST", "/register", dto.RegisterRequest{
		Username: "shopper", Email: "shopper@example.com", Password: "password123",
	})

	resp := parseResponse(t, performRequest(router, "POST", "/login", dto.LoginRequest{
		Email: "shopper@example.com", Password: "wrong-password",
	}))
	assert.Equal(t, response.CodeAuthFailed, resp.Code)

	resp = parseResponse(t, performRequest(router, "POST", "/login", dto.LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	}))
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}
