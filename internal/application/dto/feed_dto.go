package dto

import "time"

// FeedChannel cabecera del canal RSS.
type FeedChannel struct {
	Title       string
	Link        string
	Description string
	Language    string
	SelfURL     string
}

// FeedItem entrada del RSS.
type FeedItem struct {
	Title       string
	Link        string
	GUID        string
	Description string
	Author      string
	Categories  []string
	PubDate     time.Time
}

// SitemapURL entrada del sitemap. Priority vacío se omite.
type SitemapURL struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   string
}
