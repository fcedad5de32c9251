// Package hashnode is the client for the upstream publishing platform's
// GraphQL API. Only the two mirror mutations are implemented; the schema is
// otherwise treated as opaque.
package hashnode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const addCommentMutation = `
	mutation AddComment($input: AddCommentInput!) {
		addComment(input: $input) {
			comment {
				id
			}
		}
	}
`

const likePostMutation = `
	mutation LikePost($input: LikePostInput!) {
		likePost(input: $input) {
			post {
				id
				reactionCount
			}
		}
	}
`

type Client struct {
	endpoint string
	token    string
	client   *http.Client
}

func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether mirroring can run. Callers skip the mirror step
// entirely when this is false.
func (c *Client) Configured() bool {
	return c.endpoint != "" && c.token != ""
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// AddComment mirrors a top-level comment to the upstream post and returns
// the upstream comment id.
func (c *Client) AddComment(postID, contentMarkdown string) (string, error) {
	var resp struct {
		AddComment struct {
			Comment struct {
				ID string `json:"id"`
			} `json:"comment"`
		} `json:"addComment"`
	}
	err := c.do(addCommentMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"postId":          postID,
			"contentMarkdown": contentMarkdown,
		},
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AddComment.Comment.ID == "" {
		return "", fmt.Errorf("addComment returned no comment id")
	}
	return resp.AddComment.Comment.ID, nil
}

// LikePost mirrors a single like to the upstream post.
func (c *Client) LikePost(postID string) error {
	var resp struct {
		LikePost struct {
			Post struct {
				ID string `json:"id"`
			} `json:"post"`
		} `json:"likePost"`
	}
	return c.do(likePostMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"postId":     postID,
			"likesCount": 1,
		},
	}, &resp)
}

func (c *Client) do(query string, variables map[string]interface{}, out interface{}) error {
	if !c.Configured() {
		return fmt.Errorf("hashnode credentials not configured")
	}

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequest("POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("hashnode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("hashnode returned %d: %s", resp.StatusCode, string(raw))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("hashnode graphql error: %s", envelope.Errors[0].Message)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode graphql data: %w", err)
		}
	}
	return nil
}
