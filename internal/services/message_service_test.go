package services

import (
	"testing"
	"time"

	"talentlink_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeMessage(id, sender, recipient, content string, createdAt time.Time) models.Message {
	m := models.Message{
		SenderID:    sender,
		RecipientID: recipient,
		Content:     content,
	}
	m.ID = id
	m.CreatedAt = createdAt
	return m
}

func TestBuildConversations_SortsByRecency(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// По одному последнему сообщению на собеседника, как отдает репозиторий
	heads := []models.Message{
		makeMessage("m4", "bob", "me", "see you", base.Add(3*time.Hour)),
		makeMessage("m3", "me", "alice", "sure", base.Add(2*time.Hour)),
	}
	unread := map[string]int64{"bob": 1}

	conversations := BuildConversations("me", heads, unread)
	require.Len(t, conversations, 2)

	// Свежий диалог первый
	assert.Equal(t, "bob", conversations[0].PartnerID)
	assert.Equal(t, "see you", conversations[0].LastMessage)
	assert.Equal(t, int64(1), conversations[0].UnreadCount)

	assert.Equal(t, "alice", conversations[1].PartnerID)
	assert.Equal(t, "sure", conversations[1].LastMessage)
	assert.Equal(t, int64(0), conversations[1].UnreadCount)
}

func TestBuildConversations_IncludesDormantThreads(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Давняя переписка не должна выпадать из списка, сколько бы
	// сообщений ни накопилось в остальных диалогах
	heads := []models.Message{
		makeMessage("m2", "bob", "me", "recent", base),
		makeMessage("m1", "carol", "me", "a year ago", base.AddDate(-1, 0, 0)),
	}

	conversations := BuildConversations("me", heads, map[string]int64{"carol": 3})
	require.Len(t, conversations, 2)
	assert.Equal(t, "carol", conversations[1].PartnerID)
	assert.Equal(t, int64(3), conversations[1].UnreadCount)
}

func TestBuildConversations_PartnerSideOfHead(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Последнее сообщение может быть и исходящим, и входящим;
	// собеседник определяется по противоположной стороне
	heads := []models.Message{
		makeMessage("m2", "me", "alice", "outgoing head", base.Add(time.Hour)),
		makeMessage("m1", "bob", "me", "incoming head", base),
	}

	conversations := BuildConversations("me", heads, nil)
	require.Len(t, conversations, 2)
	assert.Equal(t, "alice", conversations[0].PartnerID)
	assert.Equal(t, "bob", conversations[1].PartnerID)
}

func TestBuildConversations_PartnerNameFromProfile(t *testing.T) {
	t.Parallel()

	alice := &models.User{Profile: &models.Profile{FullName: "Alice Doe", AvatarURL: "https://cdn.test/a.png"}}
	alice.ID = "alice"

	m := makeMessage("m1", "alice", "me", "hello", time.Now())
	m.Sender = alice

	conversations := BuildConversations("me", []models.Message{m}, nil)
	require.Len(t, conversations, 1)
	assert.Equal(t, "Alice Doe", conversations[0].PartnerName)
	assert.Equal(t, "https://cdn.test/a.png", conversations[0].PartnerAvatar)
}

func TestBuildConversations_Empty(t *testing.T) {
	t.Parallel()

	conversations := BuildConversations("me", nil, nil)
	assert.Empty(t, conversations)
}
