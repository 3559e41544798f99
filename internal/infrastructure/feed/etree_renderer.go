// Package feed serializa el RSS del blog y el sitemap de la tienda con etree.
package feed

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
)

var _ usecase.FeedRenderer = (*EtreeRenderer)(nil)

// Namespaces de los documentos generados.
const (
	nsAtom    = "http://www.w3.org/2005/Atom"
	nsSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// EtreeRenderer implementa usecase.FeedRenderer.
type EtreeRenderer struct{}

// NewEtreeRenderer construye el renderer.
func NewEtreeRenderer() *EtreeRenderer { return &EtreeRenderer{} }

// RSS genera un documento RSS 2.0 con atom:link al propio feed.
func (r *EtreeRenderer) RSS(channel dto.FeedChannel, items []dto.FeedItem) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	rss.CreateAttr("xmlns:atom", nsAtom)

	ch := rss.CreateElement("channel")
	ch.CreateElement("title").SetText(channel.Title)
	ch.CreateElement("link").SetText(channel.Link)
	ch.CreateElement("description").SetText(channel.Description)
	if channel.Language != "" {
		ch.CreateElement("language").SetText(channel.Language)
	}
	if channel.SelfURL != "" {
		self := ch.CreateElement("atom:link")
		self.CreateAttr("href", channel.SelfURL)
		self.CreateAttr("rel", "self")
		self.CreateAttr("type", "application/rss+xml")
	}
	if len(items) > 0 {
		ch.CreateElement("lastBuildDate").SetText(items[0].PubDate.UTC().Format(time.RFC1123Z))
	}

	for _, it := range items {
		item := ch.CreateElement("item")
		item.CreateElement("title").SetText(it.Title)
		item.CreateElement("link").SetText(it.Link)
		guid := item.CreateElement("guid")
		guid.CreateAttr("isPermaLink", fmt.Sprintf("%t", it.GUID == it.Link))
		guid.SetText(it.GUID)
		item.CreateElement("description").SetText(it.Description)
		if it.Author != "" {
			item.CreateElement("author").SetText(it.Author)
		}
		for _, c := range it.Categories {
			item.CreateElement("category").SetText(c)
		}
		if !it.PubDate.IsZero() {
			item.CreateElement("pubDate").SetText(it.PubDate.UTC().Format(time.RFC1123Z))
		}
	}
	return write(doc)
}

// Sitemap genera un urlset del protocolo sitemaps.org 0.9.
func (r *EtreeRenderer) Sitemap(urls []dto.SitemapURL) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	set := doc.CreateElement("urlset")
	set.CreateAttr("xmlns", nsSitemap)
	for _, u := range urls {
		el := set.CreateElement("url")
		el.CreateElement("loc").SetText(u.Loc)
		if !u.LastMod.IsZero() {
			el.CreateElement("lastmod").SetText(u.LastMod.UTC().Format("2006-01-02"))
		}
		if u.ChangeFreq != "" {
			el.CreateElement("changefreq").SetText(u.ChangeFreq)
		}
		if u.Priority != "" {
			el.CreateElement("priority").SetText(u.Priority)
		}
	}
	return write(doc)
}

func write(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("feed: serializar XML: %w", err)
	}
	return out, nil
}
