// Package typing keeps the ephemeral "who is typing" state per channel.
// It is never persisted; a restart simply forgets it.
package typing

import (
	"sort"
	"sync"
)

// Entry is one member's last announced draft.
type Entry struct {
	MemberID uint   `json:"memberId"`
	Text     string `json:"message"`
}

// Cache maps channel id -> member id -> text. Only its methods mutate it.
type Cache struct {
	mu       sync.Mutex
	channels map[uint]map[uint]string
}

// Publish receives a channel's list right after a change, while the cache is still locked,
// so consecutive broadcasts for a channel leave in the order the changes happened.
// It must not block or call back into the cache.
type Publish func(channelID uint, entries []Entry)

func NewCache() *Cache {
	return &Cache{channels: make(map[uint]map[uint]string)}
}

// Set upserts the member's text, or removes it when text is empty.
// It returns the channel's list after the change and hands the same list to publish.
func (c *Cache) Set(channelID, memberID uint, text string, publish Publish) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text == "" {
		c.clearLocked(channelID, memberID)
	} else {
		members, ok := c.channels[channelID]
		if !ok {
			members = make(map[uint]string)
			c.channels[channelID] = members
		}
		members[memberID] = text
	}

	entries := c.listLocked(channelID)
	if publish != nil {
		publish(channelID, entries)
	}
	return entries
}

// Clear removes the member's entry. changed is false when there was none,
// and publish only runs when it is true.
func (c *Cache) Clear(channelID, memberID uint, publish Publish) (entries []Entry, changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed = c.clearLocked(channelID, memberID)
	entries = c.listLocked(channelID)
	if changed && publish != nil {
		publish(channelID, entries)
	}
	return entries, changed
}

// ClearChannel forgets a deleted channel.
func (c *Cache) ClearChannel(channelID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.channels, channelID)
}

func (c *Cache) List(channelID uint) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listLocked(channelID)
}

func (c *Cache) clearLocked(channelID, memberID uint) bool {
	members, ok := c.channels[channelID]
	if !ok {
		return false
	}
	if _, ok := members[memberID]; !ok {
		return false
	}
	delete(members, memberID)
	if len(members) == 0 {
		delete(c.channels, channelID)
	}
	return true
}

func (c *Cache) listLocked(channelID uint) []Entry {
	members := c.channels[channelID]
	entries := make([]Entry, 0, len(members))
	for id, text := range members {
		entries = append(entries, Entry{MemberID: id, Text: text})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MemberID < entries[j].MemberID })
	return entries
}
