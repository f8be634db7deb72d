package domain

import "time"

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a transient message shown to the user until dismissed.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// UIState is presentation state shared by all screens.
type UIState struct {
	Theme         Theme          `json:"theme"`
	ActiveTab     string         `json:"activeTab"`
	Notifications []Notification `json:"notifications"`
}

func (u UIState) Clone() UIState {
	c := u
	if u.Notifications != nil {
		c.Notifications = append([]Notification(nil), u.Notifications...)
	}
	return c
}
