package models

import "time"

// ReactionKind identifies one of the reaction types supported by the platform
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionLaugh ReactionKind = "laugh"
	ReactionWow   ReactionKind = "wow"
	ReactionSad   ReactionKind = "sad"
	ReactionAngry ReactionKind = "angry"
)

// ReactionKinds returns all reaction kinds in display order
func ReactionKinds() []ReactionKind {
	return []ReactionKind{
		ReactionLike, ReactionLove, ReactionLaugh,
		ReactionWow, ReactionSad, ReactionAngry,
	}
}

// UserReaction is one user's live reaction on a target (at most one per user)
type UserReaction struct {
	UserID    uint         `json:"user_id"`
	Kind      ReactionKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReactionAggregate pairs server-computed counts-by-kind with the per-user
// reaction records for one target. The two halves are always replaced
// together, never one alone.
type ReactionAggregate struct {
	Counts map[ReactionKind]int `json:"counts"`
	Users  []UserReaction       `json:"users"`
}

// NewReactionAggregate returns an empty aggregate with every kind present
func NewReactionAggregate() ReactionAggregate {
	counts := make(map[ReactionKind]int, len(ReactionKinds()))
	for _, k := range ReactionKinds() {
		counts[k] = 0
	}
	return ReactionAggregate{Counts: counts, Users: []UserReaction{}}
}

// Normalized returns a copy with every reaction kind present in Counts,
// zero allowed
func (a ReactionAggregate) Normalized() ReactionAggregate {
	out := NewReactionAggregate()
	for k, v := range a.Counts {
		out.Counts[k] = v
	}
	out.Users = make([]UserReaction, len(a.Users))
	copy(out.Users, a.Users)
	return out
}

// Total sums the per-kind counts
func (a ReactionAggregate) Total() int {
	total := 0
	for _, v := range a.Counts {
		total += v
	}
	return total
}

// Equal reports whether two aggregates carry the same counts and the same
// user records in the same order
func (a ReactionAggregate) Equal(b ReactionAggregate) bool {
	for _, k := range ReactionKinds() {
		if a.Counts[k] != b.Counts[k] {
			return false
		}
	}
	if len(a.Users) != len(b.Users) {
		return false
	}
	for i := range a.Users {
		if a.Users[i].UserID != b.Users[i].UserID ||
			a.Users[i].Kind != b.Users[i].Kind ||
			!a.Users[i].CreatedAt.Equal(b.Users[i].CreatedAt) {
			return false
		}
	}
	return true
}
