package notifications

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/anonto42/nano-midea/appclient/internal/models"
)

// The free-form notification data is not fully normalized upstream: the same
// reference can arrive as "post_id", "postId", or a nested object's id
// field, and numeric ids sometimes arrive as strings. NormalizePayload
// extracts everything into fixed fields once, at ingestion, so matching
// never has to guess again.

// flexUint decodes a uint that may arrive as a JSON number or string.
type flexUint uint

func (f *flexUint) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		// Not a number at all; leave zero rather than fail the event.
		*f = 0
		return nil
	}
	*f = flexUint(v)
	return nil
}

type rawPayload struct {
	PostID     string `json:"post_id"`
	PostIDAlt  string `json:"postId"`
	PostObject struct {
		ID string `json:"id"`
	} `json:"post"`

	CommentID     flexUint `json:"comment_id"`
	CommentIDAlt  flexUint `json:"commentId"`
	CommentObject struct {
		ID       flexUint `json:"id"`
		ParentID flexUint `json:"parent_id"`
		PostID   string   `json:"post_id"`
	} `json:"comment"`

	ParentCommentID    flexUint `json:"parent_comment_id"`
	ParentCommentIDAlt flexUint `json:"parentCommentId"`

	ReactionType string `json:"reaction_type"`
	ReactionAlt  string `json:"reactionType"`
	Reaction     string `json:"reaction"`

	MentionedUserID    flexUint `json:"mentioned_user_id"`
	MentionedUserIDAlt flexUint `json:"mentionedUserId"`
	Mention            struct {
		UserID flexUint `json:"user_id"`
	} `json:"mention"`
}

// NormalizePayload extracts the reference fields from a raw notification
// data object. Direct fields win over nested object ids. A payload that
// decodes to nothing yields the zero value; it never fails.
func NormalizePayload(raw json.RawMessage) models.NotificationPayload {
	var p models.NotificationPayload
	if len(raw) == 0 {
		return p
	}
	var rp rawPayload
	if err := json.Unmarshal(raw, &rp); err != nil {
		return p
	}

	p.PostID = firstString(rp.PostID, rp.PostIDAlt, rp.PostObject.ID, rp.CommentObject.PostID)
	p.CommentID = firstUint(rp.CommentID, rp.CommentIDAlt, rp.CommentObject.ID)
	p.ParentCommentID = firstUint(rp.ParentCommentID, rp.ParentCommentIDAlt, rp.CommentObject.ParentID)
	p.ReactionKind = models.ReactionKind(firstString(rp.ReactionType, rp.ReactionAlt, rp.Reaction))
	p.MentionedUserID = firstUint(rp.MentionedUserID, rp.MentionedUserIDAlt, rp.Mention.UserID)
	return p
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstUint(vals ...flexUint) uint {
	for _, v := range vals {
		if v != 0 {
			return uint(v)
		}
	}
	return 0
}

// referencesPost matches by the normalized field when it is populated, and
// only falls back to a substring search of the serialized payload when it is
// not. Preferring the direct match avoids false positives on ids embedded in
// unrelated text.
func referencesPost(n models.Notification, postID string) bool {
	if postID == "" {
		return false
	}
	if n.Payload.PostID != "" {
		return n.Payload.PostID == postID
	}
	return len(n.Raw) > 0 && bytes.Contains(n.Raw, []byte(postID))
}

// referencesComment is the comment-id counterpart of referencesPost. The
// fallback searches for the quoted and bare numeric forms to keep short ids
// from matching inside longer ones.
func referencesComment(n models.Notification, commentID uint) bool {
	if commentID == 0 {
		return false
	}
	if n.Payload.CommentID != 0 {
		return n.Payload.CommentID == commentID
	}
	if len(n.Raw) == 0 {
		return false
	}
	id := strconv.FormatUint(uint64(commentID), 10)
	return bytes.Contains(n.Raw, []byte(`:`+id+`,`)) ||
		bytes.Contains(n.Raw, []byte(`:`+id+`}`)) ||
		bytes.Contains(n.Raw, []byte(`:"`+id+`"`))
}
