package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"marketplace/internal/apperr"
	"marketplace/internal/models"
	"marketplace/internal/store"
	"marketplace/internal/util"

	"go.uber.org/zap"
)

// TimestampLayout is how message times are rendered
const TimestampLayout = "3:04:05 PM"

// ThreadSummary describes one customer thread for the admin thread picker
type ThreadSummary struct {
	Username string `json:"username"`
	Messages int    `json:"messages"`
	Unread   int    `json:"unread"`
}

// ChatService maintains one thread per customer shared with the admin.
// Unread counters are maintained here, not by the store.
type ChatService struct {
	store          *store.Store
	sessions       *SessionManager
	eventPublisher EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewChatService creates a new chat service
func NewChatService(store *store.Store, sessions *SessionManager, eventPublisher EventPublisher) *ChatService {
	return &ChatService{
		store:          store,
		sessions:       sessions,
		eventPublisher: eventPublisher,
		logger:         util.ComponentLogger("chat"),
		now:            time.Now,
	}
}

// PostCustomerMessage appends a customer message to their own thread and
// bumps the admin's unread counter.
func (s *ChatService) PostCustomerMessage(ctx context.Context, sess *Session, text string) (models.ChatMessage, error) {
	ctx, span := util.StartSpan(ctx, "ChatService.PostCustomerMessage")
	defer span.End()

	if sess == nil || sess.Admin {
		return models.ChatMessage{}, apperr.Unauthorized("PostCustomerMessage", "customer session required")
	}
	return s.post(ctx, "PostCustomerMessage", sess.Username, models.SenderCustomer, text, models.AdminKey)
}

// PostAdminMessage appends an admin message to username's thread. The
// customer's unread counter is bumped unless they have the thread open.
func (s *ChatService) PostAdminMessage(ctx context.Context, sess *Session, username, text string) (models.ChatMessage, error) {
	ctx, span := util.StartSpan(ctx, "ChatService.PostAdminMessage")
	defer span.End()

	if sess == nil || !sess.Admin {
		return models.ChatMessage{}, apperr.Unauthorized("PostAdminMessage", "admin session required")
	}
	if !s.store.UserExists(username) {
		return models.ChatMessage{}, apperr.NotFound("PostAdminMessage", "customer %q not found", username)
	}

	unreadKey := username
	if s.sessions.IsViewingOwnThread(username) {
		unreadKey = ""
	}
	return s.post(ctx, "PostAdminMessage", username, models.SenderAdmin, text, unreadKey)
}

func (s *ChatService) post(ctx context.Context, op, thread, sender, text, unreadKey string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, apperr.Validation(op, "message text is empty")
	}

	msg := models.ChatMessage{
		Sender:    sender,
		Text:      text,
		Timestamp: s.now().Format(TimestampLayout),
	}

	unread, err := s.store.AddMessageWithUnread(ctx, thread, msg, unreadKey)
	if err != nil {
		return models.ChatMessage{}, err
	}

	util.MessagesPostedTotal.WithLabelValues(sender).Inc()
	s.logger.Info("Message posted",
		zap.String("thread", thread),
		zap.String("sender", sender),
		zap.String("unread_key", unreadKey),
		zap.Int("unread", unread))

	event := &models.MessagePostedEvent{
		BaseEvent: newBaseEvent(models.EventTypeMessagePosted),
		Thread:    thread,
		Sender:    sender,
		Text:      text,
	}
	if err := s.eventPublisher.PublishMessagePosted(ctx, event); err != nil {
		s.logger.Error("Failed to publish MessagePosted event", zap.Error(err))
	}

	return msg, nil
}

// ViewThread returns username's thread and resets the viewer's own unread
// counter: the customer's for a customer session, the admin's for the admin.
// The session is marked as having the thread open until LeaveThread.
func (s *ChatService) ViewThread(ctx context.Context, sess *Session, username string) ([]models.ChatMessage, error) {
	ctx, span := util.StartSpan(ctx, "ChatService.ViewThread")
	defer span.End()

	if sess == nil {
		return nil, apperr.Unauthorized("ViewThread", "session required")
	}

	resetKey := models.AdminKey
	if !sess.Admin {
		if username != sess.Username {
			return nil, apperr.Unauthorized("ViewThread", "customers can only view their own thread")
		}
		resetKey = sess.Username
	}
	if !s.store.UserExists(username) {
		return nil, apperr.NotFound("ViewThread", "customer %q not found", username)
	}

	thread, err := s.store.ReadThread(ctx, username, resetKey)
	if err != nil {
		return nil, err
	}
	sess.setViewing(username)
	return thread, nil
}

// LeaveThread marks the session as no longer having a thread open
func (s *ChatService) LeaveThread(sess *Session) {
	sess.setViewing("")
}

// UnreadCount returns the unread counter owned by the session
func (s *ChatService) UnreadCount(sess *Session) int {
	if sess.Admin {
		return s.store.GetUnreadCount(models.AdminKey)
	}
	return s.store.GetUnreadCount(sess.Username)
}

// Threads lists customer threads holding at least one message, by username
func (s *ChatService) Threads() []ThreadSummary {
	chats := s.store.Chats()
	unread := s.store.Unread()

	out := make([]ThreadSummary, 0, len(chats))
	for username, thread := range chats {
		if len(thread) == 0 {
			continue
		}
		out = append(out, ThreadSummary{
			Username: username,
			Messages: len(thread),
			Unread:   unread[username],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Username < out[j].Username
	})
	return out
}
