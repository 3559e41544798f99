package feed

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
)

func TestRSS_EstructuraYEscape(t *testing.T) {
	pub := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	out, err := NewEtreeRenderer().RSS(
		dto.FeedChannel{Title: "Blog", Link: "https://tienda.cl/blog", Description: "Ideas", Language: "es-CL", SelfURL: "https://api.tienda.cl/api/blog/feed.xml"},
		[]dto.FeedItem{{
			Title: "Regalos & souvenirs", Link: "https://tienda.cl/blog/regalos", GUID: "https://tienda.cl/blog/regalos",
			Description: "<b>tips</b>", Categories: []string{"empresas", "navidad"}, PubDate: pub,
		}},
	)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "2.0", doc.Root().SelectAttrValue("version", ""))

	item := doc.FindElement("//channel/item")
	require.NotNil(t, item)
	assert.Equal(t, "Regalos & souvenirs", item.SelectElement("title").Text())
	assert.Equal(t, "<b>tips</b>", item.SelectElement("description").Text())
	assert.Len(t, item.SelectElements("category"), 2)
	assert.Equal(t, "true", item.SelectElement("guid").SelectAttrValue("isPermaLink", ""))
	assert.Equal(t, "Mon, 10 Mar 2025 12:00:00 +0000", item.SelectElement("pubDate").Text())
	assert.NotNil(t, doc.FindElement("//channel/atom:link"))
}

func TestSitemap_OmiteCamposVacios(t *testing.T) {
	out, err := NewEtreeRenderer().Sitemap([]dto.SitemapURL{
		{Loc: "https://tienda.cl/", ChangeFreq: "daily", Priority: "1.0"},
		{Loc: "https://tienda.cl/productos/taza", LastMod: time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	urls := doc.Root().SelectElements("url")
	require.Len(t, urls, 2)
	assert.Nil(t, urls[0].SelectElement("lastmod"))
	assert.Equal(t, "1.0", urls[0].SelectElement("priority").Text())
	assert.Equal(t, "2025-01-02", urls[1].SelectElement("lastmod").Text())
	assert.Nil(t, urls[1].SelectElement("priority"))
}
