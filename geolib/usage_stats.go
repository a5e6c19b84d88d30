package geolib

import (
	"encoding/json"
	"sync"
	"time"
)

// UsageStats tracks how often provider was used and how successful it
// was. It is safe for concurrent use.
type UsageStats struct {
	Name string

	mutex        sync.Mutex
	lastUsed     time.Time
	lastFailed   time.Time
	successCount uint64
	failureCount uint64
}

// Used registers a new lookup.
func (u *UsageStats) Used(err error) {
	now := time.Now()

	u.mutex.Lock()
	defer u.mutex.Unlock()

	u.lastUsed = now

	if err == nil {
		u.successCount++
	} else {
		u.failureCount++
		u.lastFailed = now
	}
}

func (u *UsageStats) MarshalJSON() ([]byte, error) {
	var lastUsedTime, lastFailedTime int64

	u.mutex.Lock()

	if !u.lastUsed.IsZero() {
		lastUsedTime = u.lastUsed.Unix()
	}

	if !u.lastFailed.IsZero() {
		lastFailedTime = u.lastFailed.Unix()
	}

	rawStruct := struct {
		Name         string `json:"name"`
		LastUsed     int64  `json:"last_used"`
		LastFailed   int64  `json:"last_failed"`
		SuccessCount uint64 `json:"success_count"`
		FailureCount uint64 `json:"failure_count"`
	}{
		Name:         u.Name,
		LastUsed:     lastUsedTime,
		LastFailed:   lastFailedTime,
		SuccessCount: u.successCount,
		FailureCount: u.failureCount,
	}

	u.mutex.Unlock()

	return json.Marshal(&rawStruct)
}
