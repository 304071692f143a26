package users

import "time"

type Role string

const (
	RoleFrontDesk Role = "front_desk"
	RoleManager   Role = "manager"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusBlocked  Status = "blocked"
)

// User is a staff member who works the desk through the chat bot.
type User struct {
	ID         int64
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	Role       Role
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Telegram struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

func (u *User) Active() bool { return u != nil && u.Status == StatusApproved }

func (u *User) IsManager() bool { return u.Active() && u.Role == RoleManager }

func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return "@" + u.Username
	default:
		return "staff"
	}
}
