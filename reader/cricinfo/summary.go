package cricinfo

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"cricketflow/logger"
)

// MatchListing is one candidate match from the live-scores summary feed,
// as presented to a chooser UI.
type MatchListing struct {
	ID    string
	Title string
}

type rssFeed struct {
	XMLName xml.Name  `xml:"rss"`
	Items   []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

// The feed links end in "<matchID><suffix>.html"; the suffix is a fixed-width
// tracking tail, so the match id is everything but the last 18 characters of
// the final path element.
const listingLinkSuffixLen = 18

// FetchSummary retrieves the RSS summary feed and extracts match ids and
// display titles.
func (c *Client) FetchSummary(ctx context.Context) ([]MatchListing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.summaryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summary feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summary feed: unexpected status code %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode summary feed: %w", err)
	}

	listings := make([]MatchListing, 0, len(feed.Items))
	for _, item := range feed.Items {
		id := listingID(item.Link)
		if id == "" {
			c.log.WithComponent("cricinfo_client").WithFields(logger.Fields{
				"link": item.Link,
			}).Debug("skipping summary item with unparseable link")
			continue
		}
		listings = append(listings, MatchListing{
			ID:    id,
			Title: strings.ReplaceAll(strings.TrimSpace(item.Title), "  ", " "),
		})
	}

	return listings, nil
}

func listingID(link string) string {
	parts := strings.Split(strings.TrimSpace(link), "/")
	last := parts[len(parts)-1]
	if len(last) <= listingLinkSuffixLen {
		return ""
	}
	return last[:len(last)-listingLinkSuffixLen]
}
