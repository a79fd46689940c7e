package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/metrics"
	"github.com/qs3c/storefront_server/internal/repository"
)

var (
	ErrInvalidVote  = errors.New("投票值只能是 1 或 -1")
	ErrSelfVote     = errors.New("不能给自己的评论投票")
	ErrVoteConflict = errors.New("投票冲突，请重试")
)

type VoteService struct {
	voteRepo    *repository.VoteRepository
	commentRepo *repository.CommentRepository
}

func NewVoteService(voteRepo *repository.VoteRepository, commentRepo *repository.CommentRepository) *VoteService {
	return &VoteService{
		voteRepo:    voteRepo,
		commentRepo: commentRepo,
	}
}

// Vote 投票：首次投票计入，重复同值撤销，反向投票翻转
func (s *VoteService) Vote(actor model.Actor, commentID int64, value int) (*dto.VoteResponse, error) {
	if value != 1 && value != -1 {
		return nil, ErrInvalidVote
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	// 看不到的评论按不存在处理
	if !AuthenticatedViewer(actor.ID).CanSee(comment) {
		return nil, ErrCommentNotFound
	}
	if comment.UserID == actor.ID {
		return nil, ErrSelfVote
	}

	var (
		rating int
		action string
	)
	err = s.voteRepo.Transaction(func(tx *repository.VoteRepository) error {
		existing, err := tx.Get(actor.ID, commentID)
		if err != nil {
			return err
		}

		var delta int
		switch {
		case existing == nil:
			if err := tx.Create(&model.CommentVote{UserID: actor.ID, CommentID: commentID, Vote: value}); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrVoteConflict
				}
				return err
			}
			delta, action = value, "created"
		case existing.Vote == value:
			rows, err := tx.Delete(existing.ID, value)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrVoteConflict
			}
			delta, action = -value, "removed"
		default:
			rows, err := tx.Flip(existing.ID, existing.Vote, value)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrVoteConflict
			}
			delta, action = 2*value, "flipped"
		}

		if err := tx.AdjustRating(commentID, delta); err != nil {
			return err
		}

		rating, err = tx.GetRating(commentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.Votes.WithLabelValues(action).Inc()

	return &dto.VoteResponse{
		CommentID: commentID,
		Rating:    rating,
	}, nil
}
