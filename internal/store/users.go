package store

import (
	"context"

	"marketplace/internal/models"
)

// RegisterUser inserts a customer with an empty thread and a zero unread counter.
// It returns false, leaving the existing user untouched, if the username is taken.
func (s *Store) RegisterUser(ctx context.Context, username, password string) (bool, error) {
	return s.mutate(ctx, "RegisterUser", func(doc *models.Document) (bool, error) {
		if _, exists := doc.Users[username]; exists {
			return false, nil
		}
		doc.Users[username] = password
		if _, ok := doc.Chats[username]; !ok {
			doc.Chats[username] = []models.ChatMessage{}
		}
		doc.Unread[username] = 0
		return true, nil
	})
}

// ValidateUser reports whether password exactly matches the stored one
func (s *Store) ValidateUser(username, password string) bool {
	var ok bool
	s.view(func(doc *models.Document) {
		stored, exists := doc.Users[username]
		ok = exists && stored == password
	})
	return ok
}

// UserExists reports whether username is registered
func (s *Store) UserExists(username string) bool {
	var ok bool
	s.view(func(doc *models.Document) {
		_, ok = doc.Users[username]
	})
	return ok
}

// Users returns a copy of the username to password mapping
func (s *Store) Users() map[string]string {
	out := make(map[string]string)
	s.view(func(doc *models.Document) {
		for k, v := range doc.Users {
			out[k] = v
		}
	})
	return out
}
