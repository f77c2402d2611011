package chat

import "strings"

// DeriveChatIdentifier returns the canonical room id for a pairwise private
// chat. Sorting makes it commutative: both participants land in the same
// room no matter who initiates.
func DeriveChatIdentifier(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

// IsChatParticipant reports whether userID is one of the two ids encoded in
// a chat identifier.
func IsChatParticipant(chatIdentifier, userID string) bool {
	for _, p := range strings.Split(chatIdentifier, "_") {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the id of the peer in a pairwise chat, or ""
// when userID is not a participant.
func OtherParticipant(chatIdentifier, userID string) string {
	parts := strings.Split(chatIdentifier, "_")
	if len(parts) != 2 {
		return ""
	}
	switch userID {
	case parts[0]:
		return parts[1]
	case parts[1]:
		return parts[0]
	}
	return ""
}
