package service

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/apperr"
	"marketplace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerMessageBumpsAdminUnreadUntilViewed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.customer(t, "alice")
	admin := f.admin(t)

	require.Equal(t, 0, f.chat.UnreadCount(admin))

	_, err := f.chat.PostCustomerMessage(ctx, alice, "is the laptop still available?")
	require.NoError(t, err)
	assert.Equal(t, 1, f.chat.UnreadCount(admin))

	thread, err := f.chat.ViewThread(ctx, admin, "alice")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, models.SenderCustomer, thread[0].Sender)
	assert.Equal(t, 0, f.chat.UnreadCount(admin))
	assert.Equal(t, "alice", admin.ViewingThread())
}

func TestAdminMessageBumpsCustomerUnreadUnlessThreadOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.customer(t, "alice")
	admin := f.admin(t)

	_, err := f.chat.PostAdminMessage(ctx, admin, "alice", "yes it is")
	require.NoError(t, err)
	assert.Equal(t, 1, f.chat.UnreadCount(alice))

	thread, err := f.chat.ViewThread(ctx, alice, "alice")
	require.NoError(t, err)
	assert.Len(t, thread, 1)
	assert.Equal(t, 0, f.chat.UnreadCount(alice))

	_, err = f.chat.PostAdminMessage(ctx, admin, "alice", "anything else?")
	require.NoError(t, err)
	assert.Equal(t, 0, f.chat.UnreadCount(alice))

	f.chat.LeaveThread(alice)
	_, err = f.chat.PostAdminMessage(ctx, admin, "alice", "ping")
	require.NoError(t, err)
	assert.Equal(t, 1, f.chat.UnreadCount(alice))
}

func TestBlankMessagesRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.customer(t, "alice")
	admin := f.admin(t)

	_, err := f.chat.PostCustomerMessage(ctx, alice, "   \n\t")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	_, err = f.chat.PostAdminMessage(ctx, admin, "alice", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.Empty(t, f.store.Thread("alice"))
	assert.Equal(t, 0, f.chat.UnreadCount(admin))
}

func TestMessageTimestampAndTrim(t *testing.T) {
	f := newFixture(t)
	f.chat.now = func() time.Time {
		return time.Date(2026, 10, 15, 14, 5, 9, 0, time.UTC)
	}
	alice := f.customer(t, "alice")

	msg, err := f.chat.PostCustomerMessage(context.Background(), alice, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, "2:05:09 PM", msg.Timestamp)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	posted := events[0].(*models.MessagePostedEvent)
	assert.Equal(t, "alice", posted.Thread)
	assert.Equal(t, models.SenderCustomer, posted.Sender)
}

func TestRoleChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.customer(t, "alice")
	f.customer(t, "bob")
	admin := f.admin(t)

	_, err := f.chat.PostCustomerMessage(ctx, admin, "hi")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	_, err = f.chat.PostAdminMessage(ctx, alice, "bob", "hi")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	_, err = f.chat.ViewThread(ctx, alice, "bob")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	_, err = f.chat.PostAdminMessage(ctx, admin, "ghost", "hi")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestViewUnknownThreadKeepsUnread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.customer(t, "alice")
	admin := f.admin(t)

	_, err := f.chat.PostCustomerMessage(ctx, alice, "hello?")
	require.NoError(t, err)
	require.Equal(t, 1, f.chat.UnreadCount(admin))

	thread, err := f.chat.ViewThread(ctx, admin, "ghost")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Nil(t, thread)
	assert.Equal(t, 1, f.chat.UnreadCount(admin))
	assert.Empty(t, admin.ViewingThread())
	assert.NotContains(t, f.store.Chats(), "ghost")
}

func TestThreadsListsNonEmptyThreads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.customer(t, "bob")
	alice := f.customer(t, "alice")
	f.customer(t, "carol")
	admin := f.admin(t)

	_, err := f.chat.PostCustomerMessage(ctx, bob, "one")
	require.NoError(t, err)
	_, err = f.chat.PostCustomerMessage(ctx, alice, "two")
	require.NoError(t, err)
	_, err = f.chat.PostAdminMessage(ctx, admin, "alice", "three")
	require.NoError(t, err)

	assert.Equal(t, []ThreadSummary{
		{Username: "alice", Messages: 2, Unread: 1},
		{Username: "bob", Messages: 1, Unread: 0},
	}, f.chat.Threads())
}
