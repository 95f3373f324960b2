package models

type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	case RoleGuest:
		return RoleGuest
	}
	return RoleUser
}

// Session is the client-held login state. An empty Token means nobody is logged in.
type Session struct {
	Token    string `json:"-"`
	Role     Role   `json:"role"`
	Username string `json:"username,omitempty"`
}

func (s Session) LoggedIn() bool { return s.Token != "" }

func (s Session) IsAdmin() bool { return s.LoggedIn() && s.Role == RoleAdmin }

func GuestSession() Session { return Session{Role: RoleGuest} }

type Product struct {
	ID          int     `json:"id,omitempty"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}
