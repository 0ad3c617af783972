package repositories

import (
	"context"

	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations. Reposts are
// post rows with RepostOfID set; at most one exists per (author, original).
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetFeed(ctx context.Context) ([]models.FeedItem, error)
	GetRepostByAuthor(ctx context.Context, authorID, originalPostID string) (*models.Post, error)
	CreateRepost(ctx context.Context, authorID, originalPostID string) (*models.Post, error)
	GetCounts(ctx context.Context, postID string) (likeCount int, commentCount, repostCount int64, err error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post in PostgreSQL
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPostByID retrieves a post with author, ordered comments and derived
// counts. LikeCount comes from the cached column, never from counting likes.
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := r.fillCounts(ctx, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetFeed retrieves all posts newest first, wrapping each as a feed item and
// hydrating the original for repost rows.
func (r *PostgresPostRepository) GetFeed(ctx context.Context) ([]models.FeedItem, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		Preload("RepostOf.Author").
		Preload("RepostOf.Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("RepostOf.Comments.Author").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	feed := make([]models.FeedItem, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		if err := r.fillCounts(ctx, post); err != nil {
			return nil, err
		}
		if post.RepostOf != nil {
			if err := r.fillCounts(ctx, post.RepostOf); err != nil {
				return nil, err
			}
		}
		itemType := "post"
		if post.RepostOfID != nil {
			itemType = "repost"
		}
		feed = append(feed, models.FeedItem{
			Type:      itemType,
			CreatedAt: post.CreatedAt,
			Post:      post,
		})
	}
	return feed, nil
}

// GetRepostByAuthor retrieves the unique repost of a post by an author, or
// gorm.ErrRecordNotFound. This query is the authority for "already
// reposted"; it is never re-derived from feed contents.
func (r *PostgresPostRepository) GetRepostByAuthor(ctx context.Context, authorID, originalPostID string) (*models.Post, error) {
	var repost models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("RepostOf.Author").
		First(&repost, "author_id = ? AND repost_of_id = ?", authorID, originalPostID).Error
	if err != nil {
		return nil, err
	}
	return &repost, nil
}

// CreateRepost creates a repost wrapper row pointing at the original
func (r *PostgresPostRepository) CreateRepost(ctx context.Context, authorID, originalPostID string) (*models.Post, error) {
	repost := &models.Post{
		AuthorID:   authorID,
		RepostOfID: &originalPostID,
	}
	if err := r.db.WithContext(ctx).Create(repost).Error; err != nil {
		return nil, err
	}
	return r.GetRepostByAuthor(ctx, authorID, originalPostID)
}

// GetCounts returns the cached like counter plus comment and repost counts
// for a post
func (r *PostgresPostRepository) GetCounts(ctx context.Context, postID string) (int, int64, int64, error) {
	var likeCount int
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("like_count").Where("id = ?", postID).Scan(&likeCount).Error
	if err != nil {
		return 0, 0, 0, err
	}

	var commentCount, repostCount int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).Count(&commentCount).Error; err != nil {
		return 0, 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("repost_of_id = ?", postID).Count(&repostCount).Error; err != nil {
		return 0, 0, 0, err
	}
	return likeCount, commentCount, repostCount, nil
}

func (r *PostgresPostRepository) fillCounts(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", post.ID).Count(&post.CommentCount).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("repost_of_id = ?", post.ID).Count(&post.RepostCount).Error
}
