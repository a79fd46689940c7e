package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/repository"
)

var ErrInvalidRole = errors.New("角色不合法")

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile 获取用户详情
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return buildUserInfo(user), nil
}

// SetRole 修改用户角色。降级后原有的分类分配保留，但不再生效
func (s *UserService) SetRole(userID int64, role string) (*dto.UserInfo, error) {
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Role != role {
		if _, err := s.userRepo.UpdateRole(userID, role); err != nil {
			return nil, fmt.Errorf("update role of user %d: %w", userID, err)
		}
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"from":    user.Role,
			"to":      role,
		}).Info("User role changed")
		user.Role = role
	}

	return buildUserInfo(user), nil
}
