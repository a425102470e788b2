package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

const commentColumns = `id, content_type, content_id, parent_id, author_name, content, created_at, updated_at`

func scanComment(scanner interface{ Scan(dest ...any) error }) (*domain.Comment, error) {
	var (
		c                    domain.Comment
		contentType          string
		parentID             sql.NullInt64
		createdAt, updatedAt string
	)
	err := scanner.Scan(&c.ID, &contentType, &c.Item.ID, &parentID, &c.AuthorName, &c.Content, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Item.Type = domain.ContentType(contentType)
	c.ParentID = idPtr(parentID)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a comment and sets its ID. A reply must name a
// visible top-level comment on the same item.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	if !c.Item.Type.Commentable() {
		return store.ErrInvalidInput.WithCause(fmt.Errorf("%s items do not take comments", c.Item.Type))
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureContent(ctx, tx, c.Item); err != nil {
			return err
		}
		if c.ParentID != nil {
			if err := checkCommentParent(ctx, tx, c.Item, *c.ParentID); err != nil {
				return err
			}
		}

		now := s.now()
		c.CreatedAt, c.UpdatedAt = now, now
		res, err := tx.ExecContext(ctx, `
			INSERT INTO comments (content_type, `+contentKeyColumn(c.Item.Type)+`, parent_id, author_name, content, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(c.Item.Type), c.Item.ID, nullID(c.ParentID), c.AuthorName, c.Content,
			formatTime(now), formatTime(now),
		)
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		c.ID, err = res.LastInsertId()
		return err
	})
}

func checkCommentParent(ctx context.Context, q queryer, item domain.ContentRef, parentID int64) error {
	var (
		contentType string
		contentID   int64
		grandparent sql.NullInt64
	)
	err := q.QueryRowContext(ctx, `
		SELECT content_type, content_id, parent_id FROM comments
		WHERE id = ? AND deleted_at IS NULL`, parentID,
	).Scan(&contentType, &contentID, &grandparent)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrInvalidInput.WithCause(errors.New("parent comment does not exist"))
	}
	if err != nil {
		return fmt.Errorf("load parent comment: %w", err)
	}

	switch {
	case domain.ContentType(contentType) != item.Type || contentID != item.ID:
		return store.ErrInvalidInput.WithCause(errors.New("parent comment belongs to another item"))
	case grandparent.Valid:
		return store.ErrInvalidInput.WithCause(errors.New("replies cannot be nested"))
	}
	return nil
}

// GetComment returns a visible comment without its replies.
func (s *Store) GetComment(ctx context.Context, id int64) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ? AND deleted_at IS NULL`, id)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// DeleteComment hides a comment together with its replies.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := formatTime(s.now())
		res, err := tx.ExecContext(ctx,
			`UPDATE comments SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, now, id)
		if err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE comments SET deleted_at = ? WHERE parent_id = ? AND deleted_at IS NULL`, now, id)
		if err != nil {
			return fmt.Errorf("delete replies: %w", err)
		}
		return nil
	})
}

// ListComments returns the item's top-level comments, newest first, each with
// its replies, also newest first.
func (s *Store) ListComments(ctx context.Context, item domain.ContentRef) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE content_type = ? AND content_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC`,
		string(item.Type), item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var all []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		all = append(all, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	top := []*domain.Comment{}
	byID := make(map[int64]*domain.Comment)
	for _, c := range all {
		if c.ParentID == nil {
			top = append(top, c)
			byID[c.ID] = c
		}
	}
	for _, c := range all {
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return top, nil
}

// CountComments returns the number of visible comments on the item, replies included.
func (s *Store) CountComments(ctx context.Context, item domain.ContentRef) (int, error) {
	return count(ctx, s.db, psql.Select("COUNT(*)").From("comments").Where(
		"content_type = ? AND content_id = ? AND deleted_at IS NULL", string(item.Type), item.ID,
	))
}
