// Package client is a Go consumer of the hashbridge API: a thin HTTP
// wrapper plus the optimistic like-button state machine the theme's UI
// contract describes.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hashbridge/internal/services"
)

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New builds a client for the service at baseURL. token may be empty for
// anonymous reads.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ToggleLike flips the caller's like on a post and returns the server's
// authoritative state.
func (c *Client) ToggleLike(postID, hashnodePostID string) (*services.LikeResult, error) {
	var result services.LikeResult
	err := c.do("POST", "/api/posts/like", map[string]string{
		"postId":         postID,
		"hashnodePostId": hashnodePostID,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// LikeStatus fetches the like count and whether the caller liked the post.
func (c *Client) LikeStatus(postID string) (*services.LikeStatus, error) {
	var status services.LikeStatus
	if err := c.do("GET", "/api/posts/likes/"+postID, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CreateComment posts a comment and returns the stored record with its
// author block.
func (c *Client) CreateComment(in services.CreateCommentInput) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	if err := c.do("POST", "/api/comments/create", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetComments fetches a post's comment tree.
func (c *Client) GetComments(postID string) ([]services.CommentView, error) {
	var out struct {
		Comments []services.CommentView `json:"comments"`
	}
	if err := c.do("GET", "/api/comments/"+postID, nil, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}
