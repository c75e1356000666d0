package kafka

import "time"

// FavoriteChangedEvent records that a user marked or unmarked a datatype tag
type FavoriteChangedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id"`
	Datatype  string    `json:"datatype"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeFavoriteMarked   = "favorite.marked"
	EventTypeFavoriteUnmarked = "favorite.unmarked"
)

// Kafka topics
const (
	TopicFavoriteMarked   = "favorite-marked"
	TopicFavoriteUnmarked = "favorite-unmarked"
)

// topicForEventType maps an event type to its topic
func topicForEventType(eventType string) string {
	if eventType == EventTypeFavoriteUnmarked {
		return TopicFavoriteUnmarked
	}
	return TopicFavoriteMarked
}
