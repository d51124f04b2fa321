// Package news implements the briefing pipeline: pull headlines from RSS
// feeds, assemble an anchor script, synthesize audio.
package news

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

type Category string

const (
	CategoryNational      Category = "national"
	CategoryInternational Category = "international"
	CategoryBusiness      Category = "business"
	CategorySports        Category = "sports"
	CategoryScience       Category = "science"
)

// Categories in on-air order.
var Categories = []Category{
	CategoryNational,
	CategoryInternational,
	CategoryBusiness,
	CategorySports,
	CategoryScience,
}

var categoryLabels = map[Category]string{
	CategoryNational:      "National News",
	CategoryInternational: "International News",
	CategoryBusiness:      "Business and Finance",
	CategorySports:        "Sports",
	CategoryScience:       "Science and Technology",
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type Feed struct {
	Name    string
	URL     string
	Enabled bool
}

// DefaultFeeds lists the sources polled per category.
var DefaultFeeds = map[Category][]Feed{
	CategoryNational: {
		{Name: "NPR News", URL: "https://feeds.npr.org/1001/rss.xml", Enabled: true},
		{Name: "CBS News", URL: "https://www.cbsnews.com/latest/rss/main", Enabled: true},
	},
	CategoryInternational: {
		{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Enabled: true},
		{Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml", Enabled: false},
	},
	CategoryBusiness: {
		{Name: "CNBC", URL: "https://www.cnbc.com/id/100003114/device/rss/rss.html", Enabled: true},
		{Name: "MarketWatch", URL: "https://feeds.marketwatch.com/marketwatch/topstories/", Enabled: true},
	},
	CategorySports: {
		{Name: "ESPN", URL: "https://www.espn.com/espn/rss/news", Enabled: true},
		{Name: "CBS Sports", URL: "https://www.cbssports.com/rss/headlines/", Enabled: true},
	},
	CategoryScience: {
		{Name: "Science Daily", URL: "https://www.sciencedaily.com/rss/all.xml", Enabled: true},
		{Name: "NASA", URL: "https://www.nasa.gov/rss/dyn/breaking_news.rss", Enabled: true},
		{Name: "NPR Science", URL: "https://feeds.npr.org/1007/rss.xml", Enabled: true},
	},
}

type Headline struct {
	Title     string
	Summary   string
	Source    string
	Link      string
	Published time.Time
	Category  Category
}

type Fetcher struct {
	parser *gofeed.Parser
	feeds  map[Category][]Feed
}

func NewFetcher() *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = "DriveTimeTales/1.0 News Aggregator"
	return &Fetcher{
		parser: parser,
		feeds:  DefaultFeeds,
	}
}

// FetchTop collects up to perCategory headlines for every category. Feeds
// that fail are skipped; an error is returned only when a whole category
// comes back empty, since the script can't be read without it.
func (f *Fetcher) FetchTop(ctx context.Context, perCategory int) (map[Category][]Headline, error) {
	result := make(map[Category][]Headline, len(Categories))

	for _, cat := range Categories {
		var headlines []Headline
		for _, feed := range f.feeds[cat] {
			if !feed.Enabled || len(headlines) >= perCategory {
				continue
			}
			parsed, err := f.parser.ParseURLWithContext(feed.URL, ctx)
			if err != nil {
				continue
			}
			for _, item := range parsed.Items {
				if len(headlines) >= perCategory {
					break
				}
				h := Headline{
					Title:    item.Title,
					Summary:  item.Description,
					Source:   feed.Name,
					Link:     item.Link,
					Category: cat,
				}
				if item.PublishedParsed != nil {
					h.Published = *item.PublishedParsed
				}
				headlines = append(headlines, h)
			}
		}
		if len(headlines) == 0 {
			return nil, fmt.Errorf("no headlines fetched for category %s", cat)
		}
		result[cat] = headlines
	}

	return result, nil
}
