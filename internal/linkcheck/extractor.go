// Package linkcheck verifies that internal links in the rendered site
// resolve to files in the output directory.
package linkcheck

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	sgerrors "github.com/jacksosa/sitegen/internal/errors"
)

// Link is a reference extracted from a rendered HTML page.
type Link struct {
	URL        string // raw href/src value
	Tag        string // html tag (a, img, script, link, ...)
	Attribute  string // attribute holding the link
	IsInternal bool   // true when the link targets this site
}

// ExtractLinks parses an HTML file and returns every link-bearing attribute.
func ExtractLinks(htmlPath, baseURL string) ([]Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, sgerrors.OutputError("open html file", err)
	}
	defer func() { _ = file.Close() }()

	return ExtractLinksFromReader(file, baseURL)
}

// ExtractLinksFromReader extracts links from HTML content.
func ExtractLinksFromReader(r io.Reader, baseURL string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, sgerrors.ContentParseError("", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, sgerrors.ConfigInvalid("base_url", "must be a valid URL")
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			collectElementLinks(n, base, &links)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func collectElementLinks(n *html.Node, base *url.URL, links *[]Link) {
	add := func(attr string) {
		// fragment-only references stay within the page
		if val := getAttr(n, attr); val != "" && !strings.HasPrefix(val, "#") {
			*links = append(*links, Link{
				URL:        val,
				Tag:        n.Data,
				Attribute:  attr,
				IsInternal: isInternalLink(val, base),
			})
		}
	}
	switch n.Data {
	case "a", "link":
		add("href")
	case "img", "script", "video", "audio", "source", "iframe":
		add("src")
	}
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// isInternalLink reports whether the link targets this site. Root-relative
// paths and links sharing the configured base host are internal; mailto,
// tel, fragments and foreign hosts are not.
func isInternalLink(link string, base *url.URL) bool {
	if link == "" || strings.HasPrefix(link, "#") {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "":
		return true
	case "http", "https":
		return base.Host != "" && u.Host == base.Host
	default:
		return false
	}
}
