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

func categoryRouter(h *testHandlers) *gin.Engine {
	router := gin.New()
	router.GET("/categories", h.category.Tree)
	router.POST("/categories", h.category.Create)
	router.PUT("/categories/:id", h.category.Update)
	router.DELETE("/categories/:id", h.category.Delete)
	return router
}

func TestCategoryHandler_CreateAndTree(t *testing.T) {
	h, _, cleanup := setupHandlers(t)
	defer cleanup()
	router := categoryRouter(h)

	resp := parseResponse(t, performRequest(router, "POST", "/categories", dto.CreateCategoryRequest{Name: "Books"}))
	require.Equal(t, response.CodeSuccess, resp.Code)
	rootID := int64(dataMap(t, resp)["id"].(float64))

	resp = parseResponse(t, performRequest(router, "POST", "/categories", dto.CreateCategoryRequest{Name: "Sci-Fi", ParentID: &rootID}))
	require.Equal(t, response.CodeSuccess, resp.Code)

	resp = parseResponse(t, performRequest(router, "GET", "/categories", nil))
	require.Equal(t, response.CodeSuccess, resp.Code)

	roots, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, roots, 1)
	root := roots[0].(map[string]interface{})
	assert.Equal(t, "Books", root["name"])
	children := root["children"].([]interface{})
	require.Len(t, children, 1)
	assert.Equal(t, "Sci-Fi", children[0].(map[string]interface{})["name"])
}

func TestCategoryHandler_Create_Errors(t *testing.T) {
	h, _, cleanup := setupHandlers(t)
	defer cleanup()
	router := categoryRouter(h)

	resp := parseResponse(t, performRequest(router, "POST", "/categories", gin.H{"name": ""}))
	assert.Equal(t, response.CodeParamError, resp.Code)

	resp = parseResponse(t, performRequest(router, "POST", "/categories", dto.CreateCategoryRequest{Name: "Orphan", ParentID: testutil.Int64Ptr(9999)}))
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestCategoryHandler_Update_RejectsCycle(t *testing.T) {
	h, ctx, cleanup := setupHandlers(t)
	defer cleanup()
	router := categoryRouter(h)

	root := testutil.TestCategory(t, ctx.DB, "Home", nil)
	child := testutil.TestCategory(t, ctx.DB, "Kitchen", &root.ID)

	path := fmt.Sprintf("/categories/%d", root.ID)
	resp := parseResponse(t, performRequest(router, "PUT", path, dto.UpdateCategoryRequest{Name: "Home", ParentID: &child.ID}))
	assert.Equal(t, response.CodeInvalidState, resp.Code)

	resp = parseResponse(t, performRequest(router, "PUT", path, dto.UpdateCategoryRequest{Name: "Home", ParentID: &root.ID}))
	assert.Equal(t, response.CodeInvalidState, resp.Code)

	resp = parseResponse(t, performRequest(router, "PUT", fmt.Sprintf("/categories/%d", child.ID), dto.UpdateCategoryRequest{Name: "Cooking"}))
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Nil(t, dataMap(t, resp)["parent_id"])

	var moved model.Category
	require.NoError(t, ctx.DB.First(&moved, child.ID).Error)
	assert.Equal(t, "Cooking", moved.Name)
	assert.Nil(t, moved.ParentID)
}

func TestCategoryHandler_Delete(t *testing.T) {
	h, ctx, cleanup := setupHandlers(t)
	defer cleanup()
	router := categoryRouter(h)

	parent := testutil.TestCategory(t, ctx.DB, "Outdoor", nil)
	withProduct := testutil.TestCategory(t, ctx.DB, "Tents", &parent.ID)
	testutil.TestProduct(t, ctx.DB, withProduct.ID)
	empty := testutil.TestCategory(t, ctx.DB, "Empty", nil)
	moderator := testutil.TestModerator(t, ctx.DB)
	testutil.TestAssignment(t, ctx.DB, moderator.ID, empty.ID)

	tests := []struct {
		name     string
		id       int64
		wantCode int
	}{
		{"has children", parent.ID, response.CodeInvalidState},
		{"has products", withProduct.ID, response.CodeInvalidState},
		{"empty", empty.ID, response.CodeSuccess},
		{"already gone", empty.ID, response.CodeResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := parseResponse(t, performRequest(router, "DELETE", fmt.Sprintf("/categories/%d", tt.id), nil))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}

	var remaining int64
	require.NoError(t, ctx.DB.Model(&model.ModeratorCategory{}).Where("category_id = ?", empty.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
