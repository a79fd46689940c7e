package model

// Actor 当前操作者，由调用方显式传入
type Actor struct {
	ID   int64
	Role string
}

// ActorOf 从用户构造操作者
func ActorOf(u *User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsModerator() bool {
	return a.Role == RoleModerator
}

// IsElevated 管理员或版主
func (a Actor) IsElevated() bool {
	return a.IsAdmin() || a.IsModerator()
}
