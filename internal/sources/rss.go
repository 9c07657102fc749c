package sources

import (
	"encoding/xml"
	"strings"
)

type RSSItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Source      string `xml:"source"`
	GUID        string `xml:"guid"`
}

type rssDoc struct {
	Channel struct {
		Items []RSSItem `xml:"item"`
	} `xml:"channel"`
}

// LooksLikeRSS is a cheap check that body is a feed and not an HTML wall.
func LooksLikeRSS(body string) bool {
	return strings.Contains(body, "<rss") || strings.Contains(body, "<channel") || strings.Contains(body, "<item")
}

// ParseRSS decodes an RSS 2.0 feed. CDATA sections come back as plain text.
func ParseRSS(body []byte) ([]RSSItem, error) {
	var doc rssDoc
	dec := xml.NewDecoder(strings.NewReader(string(body)))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	for i := range doc.Channel.Items {
		it := &doc.Channel.Items[i]
		it.Title = strings.TrimSpace(it.Title)
		it.Link = strings.TrimSpace(it.Link)
		it.PubDate = strings.TrimSpace(it.PubDate)
		it.Source = strings.TrimSpace(it.Source)
	}
	return doc.Channel.Items, nil
}
