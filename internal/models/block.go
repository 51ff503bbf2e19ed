package models

// BlockRelationship records both directions of a block between the current
// user and one other user. The two flags are independent.
type BlockRelationship struct {
	BlockedByMe bool `json:"blocked_by_me"`
	BlocksMe    bool `json:"blocks_me"`
}

// Active reports whether either direction of the block is in effect
func (b BlockRelationship) Active() bool {
	return b.BlockedByMe || b.BlocksMe
}

// BlockMap indexes block relationships by the other user's ID
type BlockMap map[uint]BlockRelationship

// Blocked reports whether any block is active between the current user and
// userID
func (m BlockMap) Blocked(userID uint) bool {
	return m[userID].Active()
}
