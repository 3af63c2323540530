package build

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jacksosa/sitegen/internal/content"
	"github.com/jacksosa/sitegen/internal/errors"
)

// urlSet is the sitemap.org schema for sitemap.xml.
type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap emits sitemap.xml covering every rendered page. URLs are
// sorted so unchanged input yields byte-identical output.
func writeSitemap(bs *State) error {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, page := range bs.Site.Pages {
		u := sitemapURL{Loc: bs.Config.BaseURL + page.URL}
		if d := page.Date(); !d.IsZero() {
			u.LastMod = d.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	sort.Slice(set.URLs, func(i, j int) bool { return set.URLs[i].Loc < set.URLs[j].Loc })

	return marshalToFile(filepath.Join(bs.Output, "sitemap.xml"), set)
}

// rss is a minimal RSS 2.0 document for the posts collection.
type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate,omitempty"`
	Description string `xml:"description,omitempty"`
}

// writeRSS emits feed.xml for the posts collection. Sites without posts get
// no feed. The feed carries no build timestamp so rebuilding unchanged input
// reproduces it byte for byte.
func writeRSS(bs *State) error {
	posts, ok := bs.Site.Collections["posts"]
	if !ok || len(posts) == 0 {
		return nil
	}

	doc := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       bs.Config.Title,
			Link:        bs.Config.BaseURL,
			Description: bs.Config.Description,
		},
	}
	for _, post := range posts {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       post.Title(),
			Link:        bs.Config.BaseURL + post.URL,
			GUID:        bs.Config.BaseURL + post.URL,
			PubDate:     pubDate(post),
			Description: post.Fields.Description,
		})
	}

	return marshalToFile(filepath.Join(bs.Output, "feed.xml"), doc)
}

func pubDate(post *content.Page) string {
	d := post.Date()
	if d.IsZero() {
		return ""
	}
	return d.Format(time.RFC1123Z)
}

func marshalToFile(path string, v any) error {
	data, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.InternalError("failed to marshal feed", err)
	}
	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.OutputError("write feed", err)
	}
	return nil
}
