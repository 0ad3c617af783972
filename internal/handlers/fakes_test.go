package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. One
// struct implements every repository interface so the handler wiring under
// test matches production wiring.
type fakeStore struct {
	mu            sync.Mutex
	users         map[string]*models.User
	posts         map[string]*models.Post
	likes         map[string]map[string]bool // postID -> userID set
	comments      []*models.Comment
	notifications []*models.Notification

	failToggle bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]*models.User),
		posts: make(map[string]*models.Post),
		likes: make(map[string]map[string]bool),
	}
}

func (s *fakeStore) addUser(id, name string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := &models.User{ID: id, Name: name, Email: name + "@example.com", CreatedAt: time.Now()}
	s.users[id] = user
	return user
}

func (s *fakeStore) addPost(id, authorID, content string) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := &models.Post{ID: id, AuthorID: authorID, Content: &content, CreatedAt: time.Now()}
	s.posts[id] = post
	return post
}

// --- UserRepository ---

func (s *fakeStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeStore) GetUserByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- PostRepository ---

func (s *fakeStore) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.CreatedAt = time.Now()
	s.posts[post.ID] = post
	return nil
}

func (s *fakeStore) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *post
	s.fillCountsLocked(&copied)
	if author, ok := s.users[post.AuthorID]; ok {
		copied.Author = author
	}
	return &copied, nil
}

func (s *fakeStore) GetFeed(ctx context.Context) ([]models.FeedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })

	feed := make([]models.FeedItem, 0, len(posts))
	for _, post := range posts {
		copied := *post
		s.fillCountsLocked(&copied)
		itemType := "post"
		if post.RepostOfID != nil {
			itemType = "repost"
		}
		feed = append(feed, models.FeedItem{Type: itemType, CreatedAt: post.CreatedAt, Post: &copied})
	}
	return feed, nil
}

func (s *fakeStore) GetRepostByAuthor(ctx context.Context, authorID, originalPostID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, post := range s.posts {
		if post.AuthorID == authorID && post.RepostOfID != nil && *post.RepostOfID == originalPostID {
			copied := *post
			if author, ok := s.users[post.AuthorID]; ok {
				copied.Author = author
			}
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) CreateRepost(ctx context.Context, authorID, originalPostID string) (*models.Post, error) {
	s.mu.Lock()
	repost := &models.Post{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		RepostOfID: &originalPostID,
		CreatedAt:  time.Now(),
	}
	s.posts[repost.ID] = repost
	s.mu.Unlock()
	return s.GetRepostByAuthor(ctx, authorID, originalPostID)
}

func (s *fakeStore) GetCounts(ctx context.Context, postID string) (int, int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return 0, 0, 0, gorm.ErrRecordNotFound
	}
	copied := *post
	s.fillCountsLocked(&copied)
	return copied.LikeCount, copied.CommentCount, copied.RepostCount, nil
}

func (s *fakeStore) fillCountsLocked(post *models.Post) {
	var commentCount int64
	for _, comment := range s.comments {
		if comment.PostID == post.ID {
			commentCount++
		}
	}
	var repostCount int64
	for _, other := range s.posts {
		if other.RepostOfID != nil && *other.RepostOfID == post.ID {
			repostCount++
		}
	}
	post.CommentCount = commentCount
	post.RepostCount = repostCount
}

// --- LikeRepository ---

func (s *fakeStore) Toggle(userID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failToggle {
		return false, gorm.ErrInvalidTransaction
	}
	post, ok := s.posts[postID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if s.likes[postID] == nil {
		s.likes[postID] = make(map[string]bool)
	}
	if s.likes[postID][userID] {
		delete(s.likes[postID], userID)
		post.LikeCount--
		return false, nil
	}
	s.likes[postID][userID] = true
	post.LikeCount++
	return true, nil
}

func (s *fakeStore) HasUserLikedPost(userID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[postID][userID], nil
}

func (s *fakeStore) GetLikesCountByPostID(postID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.likes[postID])), nil
}

func (s *fakeStore) GetLikedPostIDs(userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for postID, users := range s.likes {
		if users[userID] {
			ids = append(ids, postID)
		}
	}
	return ids, nil
}

// --- CommentRepository ---

func (s *fakeStore) CreateComment(comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = time.Now()
	if author, ok := s.users[comment.AuthorID]; ok {
		comment.Author = author
	}
	s.comments = append(s.comments, comment)
	return nil
}

func (s *fakeStore) GetCommentByID(id string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, comment := range s.comments {
		if comment.ID == id {
			return comment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []models.Comment
	for _, comment := range s.comments {
		if comment.PostID == postID {
			comments = append(comments, *comment)
		}
	}
	return comments, nil
}

// --- NotificationRepository ---

func (s *fakeStore) CreateNotification(notification *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	notification.CreatedAt = time.Now()
	s.notifications = append(s.notifications, notification)
	return nil
}

func (s *fakeStore) GetByRecipientID(recipientID string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.Notification
	for _, notification := range s.notifications {
		if notification.UserID == recipientID {
			result = append(result, *notification)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *fakeStore) GetUnreadCount(recipientID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, notification := range s.notifications {
		if notification.UserID == recipientID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) MarkRead(recipientID string, notificationIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]bool, len(notificationIDs))
	for _, id := range notificationIDs {
		wanted[id] = true
	}
	for _, notification := range s.notifications {
		if wanted[notification.ID] && notification.UserID == recipientID {
			notification.Read = true
		}
	}
	return nil
}

func (s *fakeStore) notificationsFor(recipientID string) []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.Notification
	for _, notification := range s.notifications {
		if notification.UserID == recipientID {
			result = append(result, notification)
		}
	}
	return result
}
