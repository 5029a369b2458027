package ports

import (
	"context"

	"RecipePress/internal/domain"
)

// PostInput carries everything the content store needs to create a record.
type PostInput struct {
	Type    string
	Status  domain.PostStatus
	Title   string
	Content string
	Author  string
}

// Post identifies a created content record.
type Post struct {
	ID      int64
	URL     string
	EditURL string
}

// ContentStore is the narrow contract to the external content-management
// system's record storage. Single-record operations are assumed atomic.
type ContentStore interface {
	CreatePost(ctx context.Context, in PostInput) (Post, error)
	UpdatePostContent(ctx context.Context, id int64, content string) (Post, error)
	DeletePost(ctx context.Context, id int64) error
	PostContent(ctx context.Context, id int64) (string, error)
	PostRating(ctx context.Context, id int64) (domain.Rating, error)
}

// TaxonomyStore is the contract to the host's taxonomy subsystem: look up,
// create, and assign terms by taxonomy.
type TaxonomyStore interface {
	TermExists(ctx context.Context, taxonomy string, termID int64) (bool, error)
	FindTerm(ctx context.Context, taxonomy, name string) (int64, bool, error)
	CreateTerm(ctx context.Context, taxonomy, name string) (int64, error)
	AssignTerms(ctx context.Context, postID int64, taxonomy string, termIDs []int64) error
}
