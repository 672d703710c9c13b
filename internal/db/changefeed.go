package db

import "sync"

const (
	EntityUser          = "users"
	EntityDailyRecord   = "daily_records"
	EntityFoodEntry     = "food_entries"
	EntityActivityEntry = "activity_entries"
)

// Change identifies a committed mutation. Subscribers re-read current state
// on receipt; the change carries no row data.
type Change struct {
	Entity string
	UserID string
	Date   string
}

// ChangeFeed fans committed-write signals out to subscribers without ever
// blocking the publisher. A slow subscriber misses intermediate signals and
// catches up on its next read.
type ChangeFeed struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[string]map[int]chan Change
}

func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{subscribers: make(map[string]map[int]chan Change)}
}

func feedTopic(entity string, userID string) string {
	return entity + ":" + userID
}

// Subscribe registers for changes to one entity kind for one user. The
// returned func unsubscribes and closes the channel.
func (feed *ChangeFeed) Subscribe(entity string, userID string) (<-chan Change, func()) {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	topic := feedTopic(entity, userID)
	feed.nextID++
	id := feed.nextID

	ch := make(chan Change, 1)
	if feed.subscribers[topic] == nil {
		feed.subscribers[topic] = make(map[int]chan Change)
	}
	feed.subscribers[topic][id] = ch

	unsubscribe := func() {
		feed.mu.Lock()
		defer feed.mu.Unlock()
		if subs, ok := feed.subscribers[topic]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(feed.subscribers, topic)
			}
		}
	}
	return ch, unsubscribe
}

// Publish delivers a change signal to every subscriber of its topic.
func (feed *ChangeFeed) Publish(change Change) {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	for _, ch := range feed.subscribers[feedTopic(change.Entity, change.UserID)] {
		select {
		case ch <- change:
		default:
		}
	}
}
