package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/martijn/miniblog/internal/api/dto"
	"github.com/martijn/miniblog/internal/api/middleware"
	"github.com/martijn/miniblog/internal/core/domain"
)

func (h *RPCHandler) createPost(c *gin.Context, params json.RawMessage) (any, error) {
	caller := middleware.Caller(c)
	if caller == nil {
		return nil, domain.ErrAuthRequired
	}

	var p dto.CreatePostParams
	if err := json.Unmarshal(params, &p); err != nil && len(params) > 0 {
		return nil, domain.ErrMissingTopicContent
	}

	if err := h.postService.Create(c.Request.Context(), caller, p.Topic, p.Content); err != nil {
		return nil, err
	}
	return "Post created successfully", nil
}

func (h *RPCHandler) editPost(c *gin.Context, params json.RawMessage) (any, error) {
	caller := middleware.Caller(c)
	if caller == nil {
		return nil, domain.ErrAuthRequired
	}

	// A missing or malformed post_id resolves to no post at all.
	var p dto.EditPostParams
	if err := json.Unmarshal(params, &p); err != nil && len(params) > 0 {
		return nil, domain.ErrPostNotFound
	}

	if err := h.postService.Edit(c.Request.Context(), caller, p.PostID, p.Topic, p.Content); err != nil {
		return nil, err
	}
	return "Post updated successfully", nil
}

func (h *RPCHandler) deletePost(c *gin.Context, params json.RawMessage) (any, error) {
	caller := middleware.Caller(c)
	if caller == nil {
		return nil, domain.ErrAuthRequired
	}

	var p dto.PostIDParams
	if err := json.Unmarshal(params, &p); err != nil && len(params) > 0 {
		return nil, domain.ErrPostNotFound
	}

	if err := h.postService.Delete(c.Request.Context(), caller, p.PostID); err != nil {
		return nil, err
	}
	return "Post deleted successfully", nil
}

func (h *RPCHandler) adminDeletePost(c *gin.Context, params json.RawMessage) (any, error) {
	caller := middleware.Caller(c)

	var p dto.PostIDParams
	if err := json.Unmarshal(params, &p); err != nil && len(params) > 0 {
		p.PostID = 0
	}

	if err := h.postService.AdminDelete(c.Request.Context(), caller, p.PostID); err != nil {
		return nil, err
	}
	return "Post deleted successfully", nil
}

// getPosts is open to anonymous callers. The author email on each entry is
// revealed only to admins and to that post's own author; the rule applies
// per post, not to the result as a whole.
func (h *RPCHandler) getPosts(c *gin.Context, _ json.RawMessage) (any, error) {
	caller := middleware.Caller(c)

	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		return nil, err
	}

	entries := make([]dto.PostEntry, 0, len(posts))
	for _, post := range posts {
		entry := dto.PostEntry{
			ID:      post.ID,
			Topic:   post.Topic,
			Content: post.Content,
			Author:  post.AuthorName,
			UserID:  post.UserID,
		}
		if caller != nil && (caller.IsAdmin || caller.ID == post.UserID) {
			email := post.AuthorEmail
			entry.Email = &email
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
