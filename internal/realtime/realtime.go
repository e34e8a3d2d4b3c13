package realtime

import "time"

// Change is a collection mutation broadcast to live subscribers. Payloads are
// intentionally thin; consumers re-read the full snapshot on every change.
type Change struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChannelPrefix namespaces the redis pub/sub channels carrying changes.
const ChannelPrefix = "changes:"

func channelFor(collection string) string {
	return ChannelPrefix + collection
}
