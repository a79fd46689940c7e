package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/config"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/repository"
	"github.com/qs3c/storefront_server/internal/testutil"
)

// recordingSink 记录所有投递的通知
type recordingSink struct {
	mu       sync.Mutex
	messages []*dto.NotificationMessage
}

func (s *recordingSink) Push(_ context.Context, msg *dto.NotificationMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSink) For(userID int64) []*dto.NotificationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*dto.NotificationMessage
	for _, m := range s.messages {
		if m.RecipientUserID == userID {
			out = append(out, m)
		}
	}
	return out
}

func (s *recordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

type failingSink struct{}

func (failingSink) Push(context.Context, *dto.NotificationMessage) error {
	return errors.New("sink unavailable")
}

type testServices struct {
	db           *gorm.DB
	tree         *CategoryTree
	access       *AccessService
	comments     *CommentService
	votes        *VoteService
	assignments  *ModeratorCategoryService
	categories   *CategoryService
	notification *NotificationService
	sink         *recordingSink
}

func setupServices(t *testing.T) (*testServices, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	assignmentRepo := repository.NewModeratorCategoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)

	tree := NewCategoryTree(categoryRepo)
	access := NewAccessService(tree, assignmentRepo, productRepo)
	sink := &recordingSink{}
	cfg := &config.Config{
		Comment: config.CommentConfig{DefaultPageSize: 5, MaxPageSize: 100},
	}

	svc := &testServices{
		db:           db,
		tree:         tree,
		access:       access,
		comments:     NewCommentService(commentRepo, productRepo, access, sink, cfg),
		votes:        NewVoteService(repository.NewVoteRepository(db), commentRepo),
		assignments:  NewModeratorCategoryService(assignmentRepo, userRepo, categoryRepo),
		categories:   NewCategoryService(categoryRepo, productRepo, tree),
		notification: NewNotificationService(repository.NewNotificationRepository(db)),
		sink:         sink,
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return svc, cleanup
}
