package service

import (
	"github.com/qs3c/storefront_server/internal/model"
)

// ViewerKind 查看者类型
type ViewerKind int

const (
	ViewerAnonymous ViewerKind = iota
	ViewerAuthenticated
	ViewerElevated
)

// Viewer 评论的查看者
type Viewer struct {
	kind ViewerKind
	id   int64
}

func AnonymousViewer() Viewer {
	return Viewer{kind: ViewerAnonymous}
}

func AuthenticatedViewer(userID int64) Viewer {
	return Viewer{kind: ViewerAuthenticated, id: userID}
}

func ElevatedViewer(userID int64) Viewer {
	return Viewer{kind: ViewerElevated, id: userID}
}

// ViewerFor 根据操作者构造查看者，nil 为匿名
func ViewerFor(actor *model.Actor) Viewer {
	switch {
	case actor == nil:
		return AnonymousViewer()
	case actor.IsElevated():
		return ElevatedViewer(actor.ID)
	default:
		return AuthenticatedViewer(actor.ID)
	}
}

func (v Viewer) Kind() ViewerKind {
	return v.kind
}

// UserID 匿名时为 0
func (v Viewer) UserID() int64 {
	if v.Kind() == ViewerAnonymous {
		return 0
	}
	return v.id
}

// CanSee 已通过的评论对所有人可见，其余只对作者本人可见。
// 版主和管理员在普通列表中没有额外权限，待审核内容只通过待审核队列查看
func (v Viewer) CanSee(c *model.Comment) bool {
	if c.Status == model.CommentStatusApproved {
		return true
	}
	switch v.Kind() {
	case ViewerAuthenticated, ViewerElevated:
		return c.UserID == v.id
	default:
		return false
	}
}

// FilterForViewer 过滤一级评论，并对每条评论的回复单独过滤一次。
// 不修改入参，返回的一级评论是浅拷贝
func FilterForViewer(comments []*model.Comment, viewer Viewer) []*model.Comment {
	visible := make([]*model.Comment, 0, len(comments))
	for _, c := range comments {
		if !viewer.CanSee(c) {
			continue
		}

		cp := *c
		if c.Replies != nil {
			cp.Replies = make([]*model.Comment, 0, len(c.Replies))
			for _, r := range c.Replies {
				if viewer.CanSee(r) {
					cp.Replies = append(cp.Replies, r)
				}
			}
		}
		visible = append(visible, &cp)
	}
	return visible
}
