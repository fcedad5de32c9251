package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hashbridge/internal/authn"
	"hashbridge/internal/client"
	"hashbridge/internal/errs"
	"hashbridge/internal/hashnode"
	"hashbridge/internal/models"
	"hashbridge/internal/services"
	"hashbridge/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	users map[string]*authn.AuthUser
}

func (f *fakeVerifier) VerifyToken(token string) (*authn.AuthUser, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, errs.Unauthenticated("Unauthorized: Invalid or expired token")
}

var (
	ada = &authn.AuthUser{
		ID:    "11111111-1111-4111-8111-111111111111",
		Email: "ada@example.com",
		UserMetadata: authn.UserMetadata{
			Name: "Ada",
		},
	}
	bob = &authn.AuthUser{
		ID:    "22222222-2222-4222-8222-222222222222",
		Email: "bob@example.com",
	}
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	hn := hashnode.NewClient("", "") // mirroring off in handler tests

	r := gin.New()
	RegisterRoutes(r, Deps{
		Verifier: &fakeVerifier{users: map[string]*authn.AuthUser{
			"ada-token": ada,
			"bob-token": bob,
		}},
		Comments: services.NewCommentService(st, hn),
		Likes:    services.NewLikeService(st, hn),
	})
	return r, st
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSession(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, "GET", "/api/auth/session", "ada-token", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User        authn.AuthUser `json:"user"`
		AccessToken string         `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ada.ID, resp.User.ID)
	assert.Equal(t, "ada-token", resp.AccessToken)
}

func TestSession_NoToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, "GET", "/api/auth/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No authorization header")
}

func TestCreateComment_Unauthorized(t *testing.T) {
	r, st := newTestRouter(t)

	w := doJSON(r, "POST", "/api/comments/create", "", map[string]string{
		"postId": "post-1", "content": "hi", "contentMarkdown": "hi",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "POST", "/api/comments/create", "bad-token", map[string]string{
		"postId": "post-1", "content": "hi", "contentMarkdown": "hi",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	comments, err := st.ListTopLevelComments("post-1")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCreateComment_EmptyContent(t *testing.T) {
	r, st := newTestRouter(t)

	w := doJSON(r, "POST", "/api/comments/create", "ada-token", map[string]string{
		"postId": "post-1", "content": "", "contentMarkdown": "hi",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Missing required fields", resp["error"])

	comments, err := st.ListTopLevelComments("post-1")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCreateComment_ReturnsCommentAndUser(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, "POST", "/api/comments/create", "ada-token", map[string]string{
		"postId": "post-1", "content": "hello", "contentMarkdown": "hello",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Comment models.Comment `json:"comment"`
		User    struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Comment.ID)
	assert.Equal(t, ada.ID, resp.Comment.UserID)
	assert.False(t, resp.Comment.SyncedToHashnode)
	assert.Equal(t, "Ada", resp.User.Name)
}

func TestGetComments_AnonymousNestedTree(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, "POST", "/api/comments/create", "ada-token", map[string]string{
		"postId": "post-1", "content": "top", "contentMarkdown": "top",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		Comment models.Comment `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, "POST", "/api/comments/create", "bob-token", map[string]interface{}{
		"postId": "post-1", "content": "reply", "contentMarkdown": "reply",
		"parentCommentId": created.Comment.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// No auth header on the read.
	w = doJSON(r, "GET", "/api/comments/post-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Comments []services.CommentView `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comments, 1)
	require.Len(t, resp.Comments[0].Replies, 1)
	assert.Equal(t, "reply", resp.Comments[0].Replies[0].ContentMarkdown)
}

func TestGetComments_EmptyPost(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, "GET", "/api/comments/post-none", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"comments": []}`, w.Body.String())
}

func TestLikeToggle_Flip(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, "POST", "/api/posts/like", "ada-token", map[string]string{"postId": "post-1"})
	require.Equal(t, http.StatusOK, w.Code)
	var first services.LikeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Liked)
	assert.Equal(t, int64(1), first.LikeCount)

	w = doJSON(r, "POST", "/api/posts/like", "ada-token", map[string]string{"postId": "post-1"})
	require.Equal(t, http.StatusOK, w.Code)
	var second services.LikeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.False(t, second.Liked)
	assert.Equal(t, int64(0), second.LikeCount)
}

func TestLikeToggle_Unauthorized(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, "POST", "/api/posts/like", "", map[string]string{"postId": "post-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLikeToggle_MissingPostID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, "POST", "/api/posts/like", "ada-token", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing postId")
}

func TestLikesStatus_Anonymous(t *testing.T) {
	r, st := newTestRouter(t)

	for _, user := range []string{"u1", "u2", "u3"} {
		require.NoError(t, st.InsertLike(&models.Like{PostID: "post-1", UserID: user}))
	}

	w := doJSON(r, "GET", "/api/posts/likes/post-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likeCount": 3, "userLiked": false}`, w.Body.String())
}

func TestLikesStatus_AuthenticatedCaller(t *testing.T) {
	r, st := newTestRouter(t)
	require.NoError(t, st.InsertLike(&models.Like{PostID: "post-1", UserID: ada.ID}))

	w := doJSON(r, "GET", "/api/posts/likes/post-1", "ada-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likeCount": 1, "userLiked": true}`, w.Body.String())

	// An invalid token downgrades to anonymous rather than failing the read.
	w = doJSON(r, "GET", "/api/posts/likes/post-1", "bad-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likeCount": 1, "userLiked": false}`, w.Body.String())
}

func TestMisconfiguredAuth_Deterministic500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := store.NewMemoryStore()
	hn := hashnode.NewClient("", "")

	r := gin.New()
	RegisterRoutes(r, Deps{
		// Real client with no configuration, as when env vars are absent.
		Verifier: authn.NewClient("", ""),
		Comments: services.NewCommentService(st, hn),
		Likes:    services.NewLikeService(st, hn),
	})

	w := doJSON(r, "POST", "/api/comments/create", "some-token", map[string]string{
		"postId": "post-1", "content": "hi", "contentMarkdown": "hi",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "configuration")

	comments, err := st.ListTopLevelComments("post-1")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestMissingDatabase_Deterministic500(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Verifier: &fakeVerifier{users: map[string]*authn.AuthUser{"ada-token": ada}},
		// Nil services: DATABASE_URL was never set.
	})

	w := doJSON(r, "GET", "/api/comments/post-1", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "configuration")

	w = doJSON(r, "POST", "/api/posts/like", "ada-token", map[string]string{"postId": "post-1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "configuration")
}

func TestOptimisticClientAgainstLiveServer(t *testing.T) {
	r, _ := newTestRouter(t)
	server := httptest.NewServer(r)
	defer server.Close()

	api := client.New(server.URL, "ada-token")
	button := client.NewLikeButton(false, 0)

	err := button.Toggle(func() (*services.LikeResult, error) {
		return api.ToggleLike("post-1", "")
	})
	require.NoError(t, err)

	liked, count := button.State()
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	status, err := api.LikeStatus("post-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.LikeCount)

	// Second toggle flips back off.
	require.NoError(t, button.Toggle(func() (*services.LikeResult, error) {
		return api.ToggleLike("post-1", "")
	}))
	liked, count = button.State()
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)
}

func TestOptimisticClientRevertsAgainstDeadServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Failed to like post"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	api := client.New(server.URL, "ada-token")
	button := client.NewLikeButton(true, 5)

	err := button.Toggle(func() (*services.LikeResult, error) {
		return api.ToggleLike("post-1", "")
	})
	require.Error(t, err)

	liked, count := button.State()
	assert.True(t, liked)
	assert.Equal(t, int64(5), count)
}
