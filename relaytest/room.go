package relaytest

import (
	"slices"

	"github.com/luciancaetano/roomnet"
)

// room is the server-side authoritative room state.
type room struct {
	id         string
	ownerID    string
	maxClients int
	tags       []string
	metadata   map[string]any

	members   map[string]*conn
	joinOrder []string
}

func (r *room) hasTag(tag string) bool {
	return slices.Contains(r.tags, tag)
}

// matchesAll reports whether every requested tag appears in the room's tag
// set. Tags are opaque labels; duplicates count once.
func (r *room) matchesAll(tags []string) bool {
	for _, tag := range tags {
		if !r.hasTag(tag) {
			return false
		}
	}
	return true
}

func (r *room) isPrivate() bool {
	return r.hasTag(roomnet.TagPrivate)
}

func (r *room) isClosed() bool {
	return r.hasTag(roomnet.TagClosed)
}

func (r *room) isFull() bool {
	return len(r.members) >= r.maxClients
}

func (r *room) addMember(c *conn) {
	r.members[c.id] = c
	r.joinOrder = append(r.joinOrder, c.id)
}

func (r *room) removeMember(c *conn) {
	delete(r.members, c.id)
	if i := slices.Index(r.joinOrder, c.id); i >= 0 {
		r.joinOrder = slices.Delete(r.joinOrder, i, i+1)
	}
}

// removeTag deletes every occurrence of the tag (the tag set allows
// duplicates, but removal reopens a room only if no copy remains).
func (r *room) removeTag(tag string) {
	r.tags = slices.DeleteFunc(r.tags, func(t string) bool { return t == tag })
}

func (r *room) summary() roomnet.RoomSummary {
	return roomnet.RoomSummary{
		RoomID:      r.id,
		OwnerID:     r.ownerID,
		PlayerCount: len(r.members),
	}
}
