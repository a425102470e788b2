package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GetContentCheckpoint returns the most recent updated_at across blogs,
// products, vacancies, categories and tags. An empty database yields the zero
// time.
func (s *Store) GetContentCheckpoint(ctx context.Context) (time.Time, error) {
	var maxUpdated sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(updated_at) FROM (
			SELECT updated_at FROM blogs
			UNION ALL
			SELECT updated_at FROM products
			UNION ALL
			SELECT updated_at FROM vacancies
			UNION ALL
			SELECT updated_at FROM categories
			UNION ALL
			SELECT updated_at FROM tags
		)`).Scan(&maxUpdated)
	if err != nil {
		return time.Time{}, fmt.Errorf("query content checkpoint: %w", err)
	}

	if !maxUpdated.Valid || maxUpdated.String == "" {
		return time.Time{}, nil
	}

	t, err := parseTime(maxUpdated.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse checkpoint time: %w", err)
	}

	return t, nil
}
