package services

import (
	"log"
	"regexp"
	"sort"

	"hashbridge/internal/authn"
	"hashbridge/internal/errs"
	"hashbridge/internal/hashnode"
	"hashbridge/internal/models"
	"hashbridge/internal/store"
	"hashbridge/internal/utils"

	"github.com/google/uuid"
)

// Hashnode comment ids are Mongo object ids: 24 hex chars. Anything in that
// shape passed as a parent reference is an upstream comment, which we cannot
// reply to locally.
var hashnodeIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// CommentService owns the write-then-mirror flow for comments and the
// merged read path. The local insert is the durability boundary: the caller
// gets its response as soon as the row is stored, and the Hashnode mirror
// runs afterwards on its own goroutine with its own error channel (the log).
type CommentService struct {
	store    store.Store
	hashnode *hashnode.Client

	// runAsync dispatches the mirror step. Tests swap it for a synchronous
	// runner; production keeps the plain goroutine.
	runAsync func(fn func())
}

func NewCommentService(st store.Store, hn *hashnode.Client) *CommentService {
	return &CommentService{
		store:    st,
		hashnode: hn,
		runAsync: func(fn func()) { go fn() },
	}
}

type CreateCommentInput struct {
	PostID          string  `json:"postId"`
	Content         string  `json:"content"`
	ContentMarkdown string  `json:"contentMarkdown"`
	ParentCommentID *string `json:"parentCommentId"`
}

// Create validates and persists a comment for the verified user, then
// kicks off the best-effort Hashnode mirror for top-level comments. Mirror
// failures never reach the author: by the time the mirror runs, the comment
// has already been returned.
func (s *CommentService) Create(user *authn.AuthUser, in CreateCommentInput) (*models.Comment, error) {
	if in.PostID == "" || in.Content == "" || in.ContentMarkdown == "" {
		return nil, errs.InvalidArgument("Missing required fields")
	}

	parentID := normalizeParentID(in.ParentCommentID)
	if parentID != nil {
		if _, err := uuid.Parse(*parentID); err != nil {
			if hashnodeIDPattern.MatchString(*parentID) {
				return nil, errs.InvalidArgument("parentCommentId refers to a Hashnode comment: replies to Hashnode comments are not supported")
			}
			return nil, errs.InvalidArgument("Malformed parentCommentId")
		}
		if _, err := s.store.GetCommentByID(*parentID); err != nil {
			if err == store.ErrNotFound {
				return nil, errs.NotFound("Parent comment not found")
			}
			return nil, err
		}
	}

	comment := &models.Comment{
		PostID:           in.PostID,
		UserID:           user.ID,
		Content:          utils.SanitizeHTML(in.Content),
		ContentMarkdown:  in.ContentMarkdown,
		ParentCommentID:  parentID,
		SyncedToHashnode: false,
	}
	if err := s.store.InsertComment(comment); err != nil {
		log.Printf("Error saving comment: %v", err)
		return nil, errs.Wrap(errs.KindUnknown, "Failed to save comment", err)
	}

	// Only top-level comments are mirrored; replies stay local.
	if comment.IsTopLevel() && s.mirrorEnabled() {
		commentID := comment.ID
		postID := comment.PostID
		markdown := comment.ContentMarkdown
		s.runAsync(func() {
			s.syncCommentToHashnode(commentID, postID, markdown)
		})
	}

	return comment, nil
}

func (s *CommentService) mirrorEnabled() bool {
	return s.hashnode != nil && s.hashnode.Configured()
}

// syncCommentToHashnode is the single mirror attempt. No retry, no backoff:
// on failure the row simply keeps synced_to_hashnode=false.
func (s *CommentService) syncCommentToHashnode(commentID, postID, contentMarkdown string) {
	hashnodeID, err := s.hashnode.AddComment(postID, contentMarkdown)
	if err != nil {
		log.Printf("Error syncing comment %s to Hashnode: %v", commentID, err)
		return
	}
	if err := s.store.MarkCommentSynced(commentID, hashnodeID); err != nil {
		log.Printf("Error recording Hashnode id for comment %s: %v", commentID, err)
		return
	}
	log.Printf("Comment %s synced to Hashnode as %s", commentID, hashnodeID)
}

func normalizeParentID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

// CommentUser is the author block embedded in comment views.
type CommentUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// CommentView is one comment prepared for display: sanitized HTML rendered
// from the markdown, the author's profile, and one level of replies.
type CommentView struct {
	models.Comment
	ContentHTML string        `json:"content_html"`
	User        CommentUser   `json:"user"`
	Replies     []CommentView `json:"replies"`
	Source      string        `json:"source,omitempty"`
}

// GetComments returns the post's comment tree: top-level comments newest
// first, each with its replies oldest first. Replies are fetched in one
// batched IN query and grouped in memory, so the read is two queries
// regardless of thread count.
func (s *CommentService) GetComments(postID string) ([]CommentView, error) {
	if postID == "" {
		return nil, errs.InvalidArgument("Invalid post ID")
	}

	topLevel, err := s.store.ListTopLevelComments(postID)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "Failed to fetch comments", err)
	}

	parentIDs := make([]string, len(topLevel))
	for i, c := range topLevel {
		parentIDs[i] = c.ID
	}
	replies, err := s.store.ListReplies(parentIDs)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "Failed to fetch comments", err)
	}

	profiles := s.profilesFor(topLevel, replies)

	replyViews := make(map[string][]CommentView, len(parentIDs))
	for _, r := range replies {
		view := s.toView(r, profiles)
		parent := *r.ParentCommentID
		replyViews[parent] = append(replyViews[parent], view)
	}

	views := make([]CommentView, 0, len(topLevel))
	for _, c := range topLevel {
		view := s.toView(c, profiles)
		view.Replies = replyViews[c.ID]
		views = append(views, view)
	}
	return views, nil
}

func (s *CommentService) profilesFor(groups ...[]models.Comment) map[string]models.Profile {
	seen := make(map[string]bool)
	var ids []string
	for _, comments := range groups {
		for _, c := range comments {
			if !seen[c.UserID] {
				seen[c.UserID] = true
				ids = append(ids, c.UserID)
			}
		}
	}
	profiles, err := s.store.GetProfiles(ids)
	if err != nil {
		// Display names degrade to "Anonymous"; the comments themselves
		// still render.
		log.Printf("Error fetching comment author profiles: %v", err)
		return map[string]models.Profile{}
	}
	return profiles
}

func (s *CommentService) toView(c models.Comment, profiles map[string]models.Profile) CommentView {
	user := CommentUser{ID: c.UserID, Name: "Anonymous"}
	if p, ok := profiles[c.UserID]; ok {
		if p.Name != "" {
			user.Name = p.Name
		}
		user.AvatarURL = p.AvatarURL
	}
	return CommentView{
		Comment:     c,
		ContentHTML: utils.RenderMarkdown(c.ContentMarkdown),
		User:        user,
	}
}

// MergeWithUpstream folds already-fetched Hashnode comments into a local
// view. It performs no network calls: the rendering layer fetches the
// upstream thread and hands it over. Upstream copies of comments that were
// mirrored from here are dropped so a synced comment never shows twice.
func MergeWithUpstream(local, upstream []CommentView) []CommentView {
	mirrored := make(map[string]bool)
	for _, c := range local {
		if c.HashnodeCommentID != nil {
			mirrored[*c.HashnodeCommentID] = true
		}
	}

	merged := make([]CommentView, 0, len(local)+len(upstream))
	merged = append(merged, local...)
	for _, c := range upstream {
		if mirrored[c.ID] {
			continue
		}
		if c.Source == "" {
			c.Source = "hashnode"
		}
		merged = append(merged, c)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}
