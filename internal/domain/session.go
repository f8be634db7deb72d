package domain

// User is the signed-in user's profile as returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AppSettings are user preferences persisted across restarts.
type AppSettings struct {
	Theme                Theme  `json:"theme"`
	Language             string `json:"language"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	LastActiveTab        string `json:"lastActiveTab,omitempty"`
}

func DefaultAppSettings() AppSettings {
	return AppSettings{
		Theme:                ThemeSystem,
		Language:             "en",
		NotificationsEnabled: true,
	}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthSession is the login response body.
type AuthSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
