package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/config"
	"github.com/qs3c/storefront_server/internal/api/middleware"
	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/pkg/response"
	"github.com/qs3c/storefront_server/internal/repository"
	"github.com/qs3c/storefront_server/internal/service"
	"github.com/qs3c/storefront_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

type testContext struct {
	DB *gorm.DB
}

type testHandlers struct {
	comment      *CommentHandler
	category     *CategoryHandler
	assignment   *ModeratorCategoryHandler
	notification *NotificationHandler
	auth         *AuthHandler
	user         *UserHandler
}

func setupHandlers(t *testing.T) (*testHandlers, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	assignmentRepo := repository.NewModeratorCategoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "test-secret-key", ExpireHours: 24},
		Comment: config.CommentConfig{DefaultPageSize: 5, MaxPageSize: 100},
	}

	tree := service.NewCategoryTree(categoryRepo)
	access := service.NewAccessService(tree, assignmentRepo, productRepo)
	notificationService := service.NewNotificationService(repository.NewNotificationRepository(db))
	commentService := service.NewCommentService(commentRepo, productRepo, access, notificationService, cfg)
	voteService := service.NewVoteService(repository.NewVoteRepository(db), commentRepo)

	h := &testHandlers{
		comment:      NewCommentHandler(commentService, voteService),
		category:     NewCategoryHandler(service.NewCategoryService(categoryRepo, productRepo, tree)),
		assignment:   NewModeratorCategoryHandler(service.NewModeratorCategoryService(assignmentRepo, userRepo, categoryRepo)),
		notification: NewNotificationHandler(notificationService),
		auth:         NewAuthHandler(service.NewAuthService(userRepo, cfg)),
		user:         NewUserHandler(service.NewUserService(userRepo)),
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return h, &testContext{DB: db}, cleanup
}

// mockActor 跳过 JWT，直接注入当前操作者
func mockActor(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		c.Set(middleware.ActorKey, model.ActorOf(user))
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// pageItems 取分页响应中的 items
func pageItems(t *testing.T, resp response.Response) (float64, []interface{}) {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "expected page data, got %T", resp.Data)
	items, _ := data["items"].([]interface{})
	return data["total"].(float64), items
}

func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "expected object data, got %T", resp.Data)
	return data
}

func countNotifications(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Notification{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}
