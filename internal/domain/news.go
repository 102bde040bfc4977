package domain

// NewsArticle is a single normalized feed entry.
type NewsArticle struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Description string `json:"description"`
}

// NewsFeed is the normalized result of a topic query.
type NewsFeed struct {
	Topic    string        `json:"topic"`
	Articles []NewsArticle `json:"articles"`
}
