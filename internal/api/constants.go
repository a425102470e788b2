package api

// Cache-Control header values.
const (
	// CachePublicList lets browsers and CDNs reuse storefront reads briefly.
	CachePublicList = "public, max-age=60"
	CacheNoStore    = "no-store"
)
