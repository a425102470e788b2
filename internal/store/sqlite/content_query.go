package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

// listQuery describes one filtered content listing. The per-type list
// methods fill it from their filter struct and hand it to listContent.
type listQuery struct {
	ct       domain.ContentType
	columns  string
	search   string
	searchIn []string
	category store.CategoryRef
	tagID    int64
	featured *bool
	sort     store.Sort
	where    sq.And

	// dateColumn drives latest/oldest ordering; popularity drives popular
	// and trending.
	dateColumn string
	popularity []string
}

// filters renders the WHERE clause shared by the count and page queries.
func (q listQuery) filters(now time.Time) sq.And {
	table := contentTable(q.ct)
	where := append(sq.And{}, q.where...)

	if q.search != "" {
		where = append(where, likeAny(q.search, q.searchIn...))
	}

	// Category matches the primary category or any entry of the category set.
	switch {
	case q.category.ID != 0:
		where = append(where, sq.Or{
			sq.Eq{table + ".primary_category_id": q.category.ID},
			sq.Expr(`EXISTS (SELECT 1 FROM categorizables cz
				WHERE cz.content_type = ? AND cz.content_id = `+table+`.id AND cz.category_id = ?)`,
				string(q.ct), q.category.ID),
		})
	case q.category.Slug != "":
		where = append(where, sq.Expr(`EXISTS (SELECT 1 FROM categories c
			WHERE c.slug = ? AND (c.id = `+table+`.primary_category_id OR EXISTS (
				SELECT 1 FROM categorizables cz
				WHERE cz.content_type = ? AND cz.content_id = `+table+`.id AND cz.category_id = c.id)))`,
			q.category.Slug, string(q.ct)))
	}

	if q.tagID != 0 {
		where = append(where, sq.Expr(`EXISTS (SELECT 1 FROM taggables tg
			WHERE tg.content_type = ? AND tg.content_id = `+table+`.id AND tg.tag_id = ?)`,
			string(q.ct), q.tagID))
	}

	if q.featured != nil {
		where = append(where, sq.Eq{table + ".is_featured": *q.featured})
	}

	if q.sort == store.SortTrending {
		where = append(where, sq.GtOrEq{table + ".created_at": formatTime(now.Add(-store.TrendingWindow))})
	}
	return where
}

// orderBy returns the ORDER BY terms for the query's sort. id breaks ties so
// page boundaries are stable.
func (q listQuery) orderBy() []string {
	table := contentTable(q.ct)
	switch q.sort {
	case store.SortOldest:
		return []string{q.dateColumn + " ASC", table + ".id ASC"}
	case store.SortPopular, store.SortTrending:
		return append(append([]string{}, q.popularity...), q.dateColumn+" DESC", table+".id DESC")
	default:
		return []string{q.dateColumn + " DESC", table + ".id DESC"}
	}
}

// listContent runs q as a count plus one page, scanning rows with scan.
func listContent[T any](ctx context.Context, s *Store, q listQuery, page store.PageRequest, scan func(*sql.Rows) (T, error)) (*store.PageResult[T], error) {
	page.Normalize()
	table := contentTable(q.ct)
	where := q.filters(s.now())

	total, err := count(ctx, s.db, psql.Select("COUNT(*)").From(table).Where(where))
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(q.columns).From(table).Where(where).
		OrderBy(q.orderBy()...).
		Limit(uint64(page.PageSize)).Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", table, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.ct, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return store.NewPageResult(items, total, page), nil
}

// publishedAt matches posts whose publish time is set and not in the future.
func publishedAt(now time.Time) sq.Sqlizer {
	return sq.And{
		sq.NotEq{"blogs.published_at": nil},
		sq.LtOrEq{"blogs.published_at": formatTime(now)},
	}
}

// openAt matches vacancies without an expiry or expiring after now.
func openAt(now time.Time) sq.Sqlizer {
	return sq.Or{
		sq.Eq{"vacancies.expires_at": nil},
		sq.Gt{"vacancies.expires_at": formatTime(now)},
	}
}
