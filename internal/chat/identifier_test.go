package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveChatIdentifier_Commutative(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"7d5f0a43-1111-4a5e-9f00-000000000001", "0a9b2c3d-2222-4f6a-8e11-000000000002"},
		{"same", "same2"},
	}

	for _, p := range pairs {
		assert.Equal(t, DeriveChatIdentifier(p[0], p[1]), DeriveChatIdentifier(p[1], p[0]))
	}
}

func TestDeriveChatIdentifier_SortedJoin(t *testing.T) {
	assert.Equal(t, "a_b", DeriveChatIdentifier("b", "a"))
	assert.Equal(t, "a_b", DeriveChatIdentifier("a", "b"))
}

func TestIsChatParticipant(t *testing.T) {
	id := DeriveChatIdentifier("user1", "user2")

	assert.True(t, IsChatParticipant(id, "user1"))
	assert.True(t, IsChatParticipant(id, "user2"))
	assert.False(t, IsChatParticipant(id, "user3"))
}

func TestOtherParticipant(t *testing.T) {
	id := DeriveChatIdentifier("user1", "user2")

	assert.Equal(t, "user2", OtherParticipant(id, "user1"))
	assert.Equal(t, "user1", OtherParticipant(id, "user2"))
	assert.Equal(t, "", OtherParticipant(id, "intruder"))
}
