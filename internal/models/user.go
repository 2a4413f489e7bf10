package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Experience is one entry of a user's work history.
type Experience struct {
	Title       string `json:"title"`
	Role        string `json:"role,omitempty"`
	Year        string `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

// Links holds a user's external profile links keyed by kind (github, linkedin, website, ...).
type Links map[string]string

// UnmarshalJSON accepts the legacy empty-array form written at registration.
func (l *Links) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || trimmed[0] == '[' {
		*l = Links{}
		return nil
	}
	m := map[string]string{}
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*l = m
	return nil
}

type User struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Password    string       `json:"password"`
	Skills      []string     `json:"skills"`
	Badges      []string     `json:"badges"`
	Experiences []Experience `json:"experiences"`
	Bio         string       `json:"bio"`
	Links       Links        `json:"links"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// UserProfile is the lightweight profile the project feed is ranked against.
type UserProfile struct {
	Name      string   `json:"name"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}
