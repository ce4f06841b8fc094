package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncatePreview(t *testing.T) {
	assert.Equal(t, "short", TruncatePreview("short"))

	long := strings.Repeat("a", PreviewMaxLen+50)
	assert.Len(t, TruncatePreview(long), PreviewMaxLen)

	// Multi-byte runes are cut on rune boundaries, not bytes.
	wide := strings.Repeat("ü", PreviewMaxLen+1)
	truncated := TruncatePreview(wide)
	assert.Equal(t, PreviewMaxLen, len([]rune(truncated)))
}

func TestConversationParticipants(t *testing.T) {
	conv := Conversation{ID: 1, User1ID: 3, User2ID: 7}

	assert.Equal(t, 7, conv.OtherParticipant(3))
	assert.Equal(t, 3, conv.OtherParticipant(7))
	assert.True(t, conv.HasParticipant(3))
	assert.True(t, conv.HasParticipant(7))
	assert.False(t, conv.HasParticipant(9))
}

func TestNotificationPayloadTagging(t *testing.T) {
	msg := MessagePayload(5, 1, 42)
	assert.Equal(t, NotificationKindMessage, msg.Kind)

	mod := ModerationPayload(42)
	assert.Equal(t, NotificationKindModeration, mod.Kind)
	assert.Zero(t, mod.ConversationID)
}

func TestNotificationPayloadRoundTripsThroughJSONB(t *testing.T) {
	payload := MessagePayload(5, 1, 42)

	value, err := payload.Value()
	require.NoError(t, err)

	raw, ok := value.([]byte)
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "message", decoded["kind"])
	assert.Equal(t, float64(42), decoded["message_id"])

	var scanned NotificationPayload
	require.NoError(t, scanned.Scan(raw))
	assert.Equal(t, payload, scanned)
}
