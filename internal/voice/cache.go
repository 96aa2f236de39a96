package voice

import (
	"sync"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

const (
	cacheTTL      = 10 * time.Minute
	cacheMaxItems = 160
	cacheMaxText  = 170
)

type cacheEntry struct {
	wav     []byte
	addedAt time.Time
}

// ClipCache memoizes short clips. Nudges, greetings and follow-up stems
// repeat constantly within a session; long answers never do, so anything
// over the text cap is a miss by construction.
type ClipCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewClipCache() *ClipCache {
	return &ClipCache{entries: make(map[string]cacheEntry), now: time.Now}
}

func cacheKey(text string, lang interview.Lang) string {
	return string(lang) + "|" + text
}

func (c *ClipCache) Get(text string, lang interview.Lang) []byte {
	if len(text) > cacheMaxText {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cacheKey(text, lang)]
	if !ok {
		return nil
	}
	if c.now().Sub(e.addedAt) > cacheTTL {
		delete(c.entries, cacheKey(text, lang))
		return nil
	}
	return e.wav
}

func (c *ClipCache) Put(text string, lang interview.Lang, wav []byte) {
	if len(text) > cacheMaxText || len(wav) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= cacheMaxItems {
		c.evictOldestLocked()
	}
	c.entries[cacheKey(text, lang)] = cacheEntry{wav: wav, addedAt: c.now()}
}

func (c *ClipCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.addedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.addedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
