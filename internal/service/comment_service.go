package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/config"
	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/content"
	"github.com/qs3c/storefront_server/internal/pkg/metrics"
	"github.com/qs3c/storefront_server/internal/repository"
)

var (
	ErrCommentNotFound         = errors.New("评论不存在")
	ErrCommentPermission       = errors.New("无权操作此评论")
	ErrCommentNotPending       = errors.New("评论已审核，无法修改")
	ErrParentNotFound          = errors.New("父评论不存在")
	ErrParentNotInProduct      = errors.New("父评论不属于该商品")
	ErrEmptyContent            = errors.New("评论内容不能为空")
	ErrInvalidModerationStatus = errors.New("审核状态只能是 approved 或 rejected")
	ErrModerationConflict      = errors.New("评论已被其他人审核")
)

const (
	defaultPageSize    = 5
	maxPageSize        = 100
	notifyConcurrency  = 8
	relatedTypeComment = "comment"
)

// NotificationSink 通知投递，失败不影响主流程
type NotificationSink interface {
	Push(ctx context.Context, msg *dto.NotificationMessage) error
}

type CommentService struct {
	commentRepo *repository.CommentRepository
	productRepo *repository.ProductRepository
	access      *AccessService
	sink        NotificationSink
	cfg         *config.Config
	now         func() time.Time
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	productRepo *repository.ProductRepository,
	access *AccessService,
	sink NotificationSink,
	cfg *config.Config,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		productRepo: productRepo,
		access:      access,
		sink:        sink,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Create 创建评论。管理员和负责该商品分类的版主直接通过，其余进入待审核并通知版主
func (s *CommentService) Create(ctx context.Context, actor model.Actor, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	product, err := s.getProduct(req.ProductID)
	if err != nil {
		return nil, err
	}

	text := content.Sanitize(req.Content)
	if text == "" {
		return nil, ErrEmptyContent
	}

	parentID := req.ParentID
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}

		if parent.ProductID != product.ID {
			return nil, ErrParentNotInProduct
		}

		// 只支持一级回复
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	comment := &model.Comment{
		UserID:    actor.ID,
		ProductID: product.ID,
		ParentID:  parentID,
		Content:   text,
		Status:    model.CommentStatusPending,
	}

	autoApprove, err := s.access.CanAutoApprove(actor, product)
	if err != nil {
		return nil, err
	}
	if autoApprove {
		now := s.now()
		comment.Status = model.CommentStatusApproved
		comment.ModeratedBy = &actor.ID
		comment.ModeratedAt = &now
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	metrics.CommentsCreated.WithLabelValues(comment.Status).Inc()

	if comment.IsPending() {
		s.notifyModerators(ctx, product, comment)
	}

	return s.getItem(comment.ID)
}

// Update 作者编辑自己仍在待审核的评论
func (s *CommentService) Update(actor model.Actor, commentID int64, req *dto.UpdateCommentRequest) (*dto.CommentItem, error) {
	comment, err := s.getComment(commentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != actor.ID {
		return nil, ErrCommentPermission
	}
	if !comment.IsPending() {
		return nil, ErrCommentNotPending
	}

	text := content.Sanitize(req.Content)
	if text == "" {
		return nil, ErrEmptyContent
	}

	rows, err := s.commentRepo.UpdatePendingContent(commentID, text)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// 内容未变化时 MySQL 影响行数也是 0，重新确认状态
		current, err := s.getComment(commentID)
		if err != nil {
			return nil, err
		}
		if !current.IsPending() {
			return nil, ErrCommentNotPending
		}
	}

	return s.getItem(commentID)
}

// Moderate 审核评论，只能从 pending 流转一次
func (s *CommentService) Moderate(ctx context.Context, actor model.Actor, commentID int64, status string) (*dto.CommentItem, error) {
	if status != model.CommentStatusApproved && status != model.CommentStatusRejected {
		return nil, ErrInvalidModerationStatus
	}

	comment, err := s.getComment(commentID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.access.CanModerate(actor, comment)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrCommentPermission
	}

	if !comment.IsPending() {
		return nil, ErrCommentNotPending
	}

	rows, err := s.commentRepo.TransitionFromPending(commentID, status, actor.ID, s.now())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrModerationConflict
	}
	metrics.ModerationActions.WithLabelValues(status).Inc()

	logrus.WithFields(logrus.Fields{
		"comment_id":   commentID,
		"moderator_id": actor.ID,
		"status":       status,
	}).Info("Comment moderated")

	s.notifyAuthor(ctx, comment, status)

	return s.getItem(commentID)
}

// Delete 作者可删除自己的评论，版主和管理员可删除任意评论
func (s *CommentService) Delete(actor model.Actor, commentID int64) error {
	comment, err := s.getComment(commentID)
	if err != nil {
		return err
	}

	if comment.UserID != actor.ID && !actor.IsElevated() {
		return ErrCommentPermission
	}

	deleted, err := s.commentRepo.DeleteWithReplies(commentID)
	if err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}

	logrus.WithFields(logrus.Fields{
		"comment_id": commentID,
		"actor_id":   actor.ID,
		"deleted":    deleted,
	}).Debug("Comment deleted")
	return nil
}

// ListByProduct 商品评论列表，先按可见性过滤再分页
func (s *CommentService) ListByProduct(viewer Viewer, productID int64, page, pageSize int) ([]*dto.CommentItem, int64, int, int, error) {
	if _, err := s.getProduct(productID); err != nil {
		return nil, 0, 0, 0, err
	}

	page, pageSize = s.normalizePage(page, pageSize)

	roots, total, err := s.commentRepo.ListVisibleRoots(productID, viewer.UserID(), page, pageSize)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	if len(roots) == 0 {
		return []*dto.CommentItem{}, total, page, pageSize, nil
	}

	parentIDs := make([]int64, len(roots))
	for i, c := range roots {
		parentIDs[i] = c.ID
	}

	replies, err := s.commentRepo.GetRepliesByParentIDs(parentIDs)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	repliesMap := make(map[int64][]*model.Comment)
	for _, r := range replies {
		if r.ParentID != nil {
			repliesMap[*r.ParentID] = append(repliesMap[*r.ParentID], r)
		}
	}
	for _, c := range roots {
		c.Replies = repliesMap[c.ID]
	}

	visible := FilterForViewer(roots, viewer)

	items := make([]*dto.CommentItem, len(visible))
	for i, c := range visible {
		items[i] = buildCommentItem(c)
		if len(c.Replies) > 0 {
			items[i].Replies = make([]*dto.CommentItem, len(c.Replies))
			for j, r := range c.Replies {
				items[i].Replies[j] = buildCommentItem(r)
			}
		}
	}

	return items, total, page, pageSize, nil
}

// ListPending 待审核队列，按操作者负责的分类范围过滤，最早的在前
func (s *CommentService) ListPending(actor model.Actor, page, pageSize int) ([]*dto.CommentItem, int64, int, int, error) {
	scope, err := s.access.VisiblePendingCategoryScope(actor)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	page, pageSize = s.normalizePage(page, pageSize)

	// nil 表示不限分类，空切片表示没有可见分类
	var categoryIDs []int64
	if !scope.All {
		categoryIDs = scope.CategoryIDs
		if categoryIDs == nil {
			categoryIDs = []int64{}
		}
	}

	comments, total, err := s.commentRepo.ListPending(categoryIDs, page, pageSize)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	items := make([]*dto.CommentItem, len(comments))
	for i, c := range comments {
		items[i] = buildCommentItem(c)
	}
	return items, total, page, pageSize, nil
}

// notifyModerators 通知负责该商品的版主有新的待审核评论
func (s *CommentService) notifyModerators(ctx context.Context, product *model.Product, comment *model.Comment) {
	moderatorIDs, err := s.access.ModeratorsForProduct(product)
	if err != nil {
		metrics.NotificationFailures.Inc()
		logrus.WithError(err).WithField("comment_id", comment.ID).Warn("Failed to resolve moderators for pending comment")
		return
	}

	var g errgroup.Group
	g.SetLimit(notifyConcurrency)
	for _, moderatorID := range moderatorIDs {
		msg := &dto.NotificationMessage{
			RecipientUserID: moderatorID,
			Type:            model.NotificationCommentPending,
			Message:         fmt.Sprintf("商品「%s」有一条新评论等待审核", product.Name),
			RelatedID:       comment.ID,
			RelatedType:     relatedTypeComment,
		}
		g.Go(func() error {
			s.push(ctx, msg)
			return nil
		})
	}
	_ = g.Wait()
}

// notifyAuthor 通知作者审核结果
func (s *CommentService) notifyAuthor(ctx context.Context, comment *model.Comment, status string) {
	msg := &dto.NotificationMessage{
		RecipientUserID: comment.UserID,
		Type:            model.NotificationCommentApproved,
		Message:         "你的评论已通过审核",
		RelatedID:       comment.ID,
		RelatedType:     relatedTypeComment,
	}
	if status == model.CommentStatusRejected {
		msg.Type = model.NotificationCommentRejected
		msg.Message = "你的评论未通过审核"
	}
	s.push(ctx, msg)
}

func (s *CommentService) push(ctx context.Context, msg *dto.NotificationMessage) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Push(ctx, msg); err != nil {
		metrics.NotificationFailures.Inc()
		logrus.WithError(err).WithFields(logrus.Fields{
			"recipient": msg.RecipientUserID,
			"type":      msg.Type,
			"related":   msg.RelatedID,
		}).Warn("Failed to deliver notification")
	}
}

func (s *CommentService) normalizePage(page, pageSize int) (int, int) {
	def, limit := defaultPageSize, maxPageSize
	if s.cfg != nil {
		if s.cfg.Comment.DefaultPageSize > 0 {
			def = s.cfg.Comment.DefaultPageSize
		}
		if s.cfg.Comment.MaxPageSize > 0 {
			limit = s.cfg.Comment.MaxPageSize
		}
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = def
	}
	if pageSize > limit {
		pageSize = limit
	}
	return page, pageSize
}

func (s *CommentService) getProduct(productID int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *CommentService) getComment(commentID int64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) getItem(commentID int64) (*dto.CommentItem, error) {
	comment, err := s.commentRepo.GetByIDWithUser(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return buildCommentItem(comment), nil
}

func buildCommentItem(c *model.Comment) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:          c.ID,
		ProductID:   c.ProductID,
		Content:     c.Content,
		ContentHTML: content.RenderMarkdown(c.Content),
		Status:      c.Status,
		Rating:      c.Rating,
		ParentID:    c.ParentID,
		ModeratedBy: c.ModeratedBy,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}

	if c.ModeratedAt != nil {
		item.ModeratedAt = c.ModeratedAt.Format(time.RFC3339)
	}

	if c.User != nil {
		item.User = &dto.CommentUser{
			ID:        c.User.ID,
			Username:  c.User.Username,
			FirstName: c.User.FirstName,
			LastName:  c.User.LastName,
		}
	}

	return item
}
