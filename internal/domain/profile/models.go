package profile

import "time"

type Profile struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"fullName"`
	Role       string     `json:"role"`
	Department string     `json:"department,omitempty"`
	Position   string     `json:"position,omitempty"`
	ManagerID  string     `json:"managerId,omitempty"`
	AvatarURL  string     `json:"avatarUrl,omitempty"`
	JoinDate   *time.Time `json:"joinDate,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// SelfUpdate carries the fields a profile owner may change about themselves.
type SelfUpdate struct {
	FullName   string `json:"fullName"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

type Avatar struct {
	ContentType string
	Data        []byte
	UpdatedAt   time.Time
}
