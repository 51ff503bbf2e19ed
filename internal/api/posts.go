package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/anonto42/nano-midea/appclient/internal/models"
)

// profileBatchLimit sizes the single fetch profile listings are paginated
// over client-side.
const profileBatchLimit = 500

// Feed lists one page of the home feed.
func (c *Client) Feed(ctx context.Context, page, limit int) ([]models.Post, *PageMeta, error) {
	var data struct {
		Posts []models.Post `json:"posts"`
	}
	meta, err := c.get(ctx, "/api/v1/feed", pageQuery(page, limit), &data)
	if err != nil {
		return nil, nil, err
	}
	return data.Posts, meta, nil
}

// UserPosts fetches a user's post listing as one large batch for
// client-side slicing.
func (c *Client) UserPosts(ctx context.Context, userID uint) ([]models.Post, error) {
	var data struct {
		Posts []models.Post `json:"posts"`
	}
	q := url.Values{}
	q.Set("limit", fmt.Sprint(profileBatchLimit))
	if _, err := c.get(ctx, fmt.Sprintf("/api/v1/users/%d/posts", userID), q, &data); err != nil {
		return nil, err
	}
	return data.Posts, nil
}

// CreatePost validates and submits a new post.
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (models.Post, error) {
	var post models.Post
	if err := c.validate.Validate(req); err != nil {
		return post, err
	}
	if _, err := c.send(ctx, http.MethodPost, "/api/v1/posts", req, &post); err != nil {
		return post, err
	}
	return post, nil
}

// CreateComment validates and submits a new comment on a post.
func (c *Client) CreateComment(ctx context.Context, req models.CreateCommentRequest) (models.Comment, error) {
	var comment models.Comment
	if err := c.validate.Validate(req); err != nil {
		return comment, err
	}
	path := fmt.Sprintf("/api/v1/posts/%s/comments", url.PathEscape(req.PostID))
	if _, err := c.send(ctx, http.MethodPost, path, req, &comment); err != nil {
		return comment, err
	}
	return comment, nil
}

// PostComments lists the comments on one post.
func (c *Client) PostComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	path := fmt.Sprintf("/api/v1/posts/%s/comments", url.PathEscape(postID))
	if _, err := c.get(ctx, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
