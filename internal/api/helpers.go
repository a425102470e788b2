package api

import (
	"context"
	"net/url"

	"github.com/allan-kirui57/pynade-hub/internal/api/dto"
)

// ContentQuery holds the query parameters shared by the content listings.
type ContentQuery struct {
	Search   string `query:"search" maxLength:"200" doc:"Case-insensitive text match"`
	Category string `query:"category" doc:"Category id or slug"`
	Tag      string `query:"tag" doc:"Tag id or slug"`
	Featured string `query:"featured" doc:"Only featured (1) or only not featured (0) items"`
	Sort     string `query:"sort" doc:"latest, oldest, popular or trending; unknown values use latest"`
	dto.PageParam
}

func (q *ContentQuery) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("search", q.Search)
	set("category", q.Category)
	set("featured", q.Featured)
	set("sort", q.Sort)
	return v
}

// resolveTag turns the tag query parameter into an id. ok is false when a
// slug names no tag, in which case the listing is empty.
func (s *Server) resolveTag(ctx context.Context, raw string) (id int64, ok bool, err error) {
	return s.services.Content.TagIDForFilter(ctx, raw)
}
