package chat

// RoomKey derives the conversation room for two user identities. The pair is
// sorted so both participants compute the same key without coordination:
// RoomKey(a, b) == RoomKey(b, a).
func RoomKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
