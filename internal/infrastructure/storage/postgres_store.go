// Package storage implements the content and taxonomy store ports directly
// against Postgres, for self-hosted pipelines that bypass the REST layer.
//
// Schema: posts(id, guid, post_type, status, title, content, author,
// created_at, updated_at), post_ratings(post_id, rating_value, review_count),
// terms(id, taxonomy, name), post_terms(post_id, term_id).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"RecipePress/internal/domain"
	"RecipePress/internal/ports"
)

// PostgresStore persists content records and taxonomy terms in Postgres.
type PostgresStore struct {
	db      *sql.DB
	siteURL string
	sb      sq.StatementBuilderType
}

var _ ports.ContentStore = (*PostgresStore)(nil)
var _ ports.TaxonomyStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB; siteURL is used to derive public and edit
// URLs for stored records.
func NewPostgresStore(db *sql.DB, siteURL string) *PostgresStore {
	return &PostgresStore{
		db:      db,
		siteURL: strings.TrimSuffix(siteURL, "/"),
		sb:      sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreatePost inserts the record and assigns it a fresh GUID.
func (s *PostgresStore) CreatePost(ctx context.Context, in ports.PostInput) (ports.Post, error) {
	query, args, err := s.sb.
		Insert("posts").
		Columns("guid", "post_type", "status", "title", "content", "author").
		Values(uuid.NewString(), in.Type, string(in.Status), in.Title, in.Content, in.Author).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return ports.Post{}, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return ports.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return s.toPost(id), nil
}

// UpdatePostContent replaces the record body.
func (s *PostgresStore) UpdatePostContent(ctx context.Context, id int64, content string) (ports.Post, error) {
	query, args, err := s.sb.
		Update("posts").
		Set("content", content).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return ports.Post{}, fmt.Errorf("build update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ports.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ports.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	if affected == 0 {
		return ports.Post{}, fmt.Errorf("post %d does not exist", id)
	}
	return s.toPost(id), nil
}

// DeletePost removes the record and its taxonomy links.
func (s *PostgresStore) DeletePost(ctx context.Context, id int64) error {
	for _, del := range []sq.DeleteBuilder{
		s.sb.Delete("post_terms").Where(sq.Eq{"post_id": id}),
		s.sb.Delete("post_ratings").Where(sq.Eq{"post_id": id}),
		s.sb.Delete("posts").Where(sq.Eq{"id": id}),
	} {
		query, args, err := del.ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete post %d: %w", id, err)
		}
	}
	return nil
}

// PostContent reads the current record body.
func (s *PostgresStore) PostContent(ctx context.Context, id int64) (string, error) {
	query, args, err := s.sb.
		Select("content").
		From("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build select: %w", err)
	}

	var content string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&content)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("post %d does not exist", id)
	}
	if err != nil {
		return "", fmt.Errorf("query content for post %d: %w", id, err)
	}
	return content, nil
}

// PostRating reads the stored rating pair; absent rows yield a zero rating.
func (s *PostgresStore) PostRating(ctx context.Context, id int64) (domain.Rating, error) {
	query, args, err := s.sb.
		Select("rating_value", "review_count").
		From("post_ratings").
		Where(sq.Eq{"post_id": id}).
		ToSql()
	if err != nil {
		return domain.Rating{}, fmt.Errorf("build select: %w", err)
	}

	var rating domain.Rating
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rating.Value, &rating.ReviewCount)
	if err == sql.ErrNoRows {
		return domain.Rating{}, nil
	}
	if err != nil {
		return domain.Rating{}, fmt.Errorf("query rating for post %d: %w", id, err)
	}
	return rating, nil
}

// TermExists checks a term id within a taxonomy.
func (s *PostgresStore) TermExists(ctx context.Context, taxonomy string, termID int64) (bool, error) {
	query, args, err := s.sb.
		Select("1").
		From("terms").
		Where(sq.Eq{"id": termID, "taxonomy": taxonomy}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check term %d: %w", termID, err)
	}
	return true, nil
}

// FindTerm looks up a term by exact name within a taxonomy.
func (s *PostgresStore) FindTerm(ctx context.Context, taxonomy, name string) (int64, bool, error) {
	query, args, err := s.sb.
		Select("id").
		From("terms").
		Where(sq.Eq{"taxonomy": taxonomy, "name": name}).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build select: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find term %q: %w", name, err)
	}
	return id, true, nil
}

// CreateTerm inserts a term and returns its id.
func (s *PostgresStore) CreateTerm(ctx context.Context, taxonomy, name string) (int64, error) {
	query, args, err := s.sb.
		Insert("terms").
		Columns("taxonomy", "name").
		Values(taxonomy, name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("create term %q: %w", name, err)
	}
	return id, nil
}

// AssignTerms links the given terms to the record. Unknown term ids are
// rejected before anything is written.
func (s *PostgresStore) AssignTerms(ctx context.Context, postID int64, taxonomy string, termIDs []int64) error {
	if len(termIDs) == 0 {
		return nil
	}

	known, err := s.knownTerms(ctx, taxonomy, termIDs)
	if err != nil {
		return err
	}
	for _, id := range termIDs {
		if !known[id] {
			return fmt.Errorf("term %d does not exist in taxonomy %s", id, taxonomy)
		}
	}

	insert := s.sb.
		Insert("post_terms").
		Columns("post_id", "term_id").
		Suffix("ON CONFLICT (post_id, term_id) DO NOTHING")
	for _, id := range termIDs {
		insert = insert.Values(postID, id)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("assign terms to post %d: %w", postID, err)
	}
	return nil
}

func (s *PostgresStore) knownTerms(ctx context.Context, taxonomy string, termIDs []int64) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM terms WHERE taxonomy = $1 AND id = ANY($2)`,
		taxonomy, pq.Array(termIDs))
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}
	defer rows.Close()

	known := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan term id: %w", err)
		}
		known[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return known, nil
}

func (s *PostgresStore) toPost(id int64) ports.Post {
	return ports.Post{
		ID:      id,
		URL:     fmt.Sprintf("%s/?p=%d", s.siteURL, id),
		EditURL: fmt.Sprintf("%s/edit/%d", s.siteURL, id),
	}
}
