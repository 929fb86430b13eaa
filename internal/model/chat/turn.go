package chat

import "time"

// Author identifies who wrote a turn.
type Author string

const (
	AuthorUser    Author = "user"
	AuthorPersona Author = "persona"
)

// Turn is one message in a session transcript. Seq is strictly increasing
// and gapless within a session, starting at 0 with the greeting.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	Seq       int       `json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
}
