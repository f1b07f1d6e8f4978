package store

import (
	"context"

	"marketplace/internal/apperr"
	"marketplace/internal/models"
)

// AddMessage appends a message to username's thread, creating the thread if absent
func (s *Store) AddMessage(ctx context.Context, username string, message models.ChatMessage) error {
	_, err := s.AddMessageWithUnread(ctx, username, message, "")
	return err
}

// AddMessageWithUnread appends a message and, when unreadKey is non-empty,
// bumps that counter in the same save. It returns the counter's new value.
func (s *Store) AddMessageWithUnread(ctx context.Context, username string, message models.ChatMessage, unreadKey string) (int, error) {
	var count int
	_, err := s.mutate(ctx, "AddMessage", func(doc *models.Document) (bool, error) {
		doc.Chats[username] = append(doc.Chats[username], message)
		if unreadKey != "" {
			doc.Unread[unreadKey]++
			count = doc.Unread[unreadKey]
		}
		return true, nil
	})
	return count, err
}

// ReadThread returns username's thread and, when resetKey is non-empty,
// zeroes that unread counter in the same step
func (s *Store) ReadThread(ctx context.Context, username, resetKey string) ([]models.ChatMessage, error) {
	var thread []models.ChatMessage
	_, err := s.mutate(ctx, "ReadThread", func(doc *models.Document) (bool, error) {
		thread = append([]models.ChatMessage{}, doc.Chats[username]...)
		if resetKey == "" || doc.Unread[resetKey] == 0 {
			return false, nil
		}
		doc.Unread[resetKey] = 0
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// Thread returns a copy of username's thread
func (s *Store) Thread(username string) []models.ChatMessage {
	var out []models.ChatMessage
	s.view(func(doc *models.Document) {
		out = append([]models.ChatMessage{}, doc.Chats[username]...)
	})
	return out
}

// Chats returns a copy of every thread keyed by customer username
func (s *Store) Chats() map[string][]models.ChatMessage {
	out := make(map[string][]models.ChatMessage)
	s.view(func(doc *models.Document) {
		for k, thread := range doc.Chats {
			out[k] = append([]models.ChatMessage{}, thread...)
		}
	})
	return out
}

// GetUnreadCount returns key's unread counter, 0 when absent
func (s *Store) GetUnreadCount(key string) int {
	var n int
	s.view(func(doc *models.Document) {
		n = doc.Unread[key]
	})
	return n
}

// SetUnreadCount overwrites key's unread counter
func (s *Store) SetUnreadCount(ctx context.Context, key string, count int) error {
	if count < 0 {
		return apperr.Validation("SetUnreadCount", "count must not be negative, got %d", count)
	}
	_, err := s.mutate(ctx, "SetUnreadCount", func(doc *models.Document) (bool, error) {
		doc.Unread[key] = count
		return true, nil
	})
	return err
}

// IncrementUnread adds one to key's unread counter and returns the new value
func (s *Store) IncrementUnread(ctx context.Context, key string) (int, error) {
	var n int
	_, err := s.mutate(ctx, "IncrementUnread", func(doc *models.Document) (bool, error) {
		doc.Unread[key]++
		n = doc.Unread[key]
		return true, nil
	})
	return n, err
}

// Unread returns a copy of every unread counter
func (s *Store) Unread() map[string]int {
	out := make(map[string]int)
	s.view(func(doc *models.Document) {
		for k, v := range doc.Unread {
			out[k] = v
		}
	})
	return out
}
