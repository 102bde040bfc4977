package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/devkit/toolbox-service/internal/config"
	"github.com/devkit/toolbox-service/internal/domain"
	"github.com/devkit/toolbox-service/internal/persistence"
	apperrors "github.com/devkit/toolbox-service/pkg/util"
)

const defaultNewsTopic = "technology"

// FeedCache stores serialized feeds keyed by topic. A miss is reported
// as an empty value with a nil error.
type FeedCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisFeedCache struct {
	client *redis.Client
}

// NewRedisFeedCache adapts the Redis wrapper to the FeedCache interface.
func NewRedisFeedCache(r *persistence.Redis) FeedCache {
	if r == nil || r.Client == nil {
		return nil
	}
	return &redisFeedCache{client: r.Client}
}

func (c *redisFeedCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *redisFeedCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// NewsService proxies the public RSS-to-JSON feed the web client used to
// call directly, caching normalized results per topic.
type NewsService struct {
	cfg    config.NewsConfig
	cache  FeedCache
	client *http.Client
	logger *zap.Logger
}

// NewNewsService builds the service.
func NewNewsService(cfg config.NewsConfig, cache FeedCache, logger *zap.Logger) *NewsService {
	return &NewsService{
		cfg:    cfg,
		cache:  cache,
		client: &http.Client{Timeout: cfg.FetchTimeout()},
		logger: logger,
	}
}

// Feed returns the normalized feed for a topic, serving from cache when
// fresh and falling back to the upstream proxy otherwise.
func (s *NewsService) Feed(ctx context.Context, topic string) (*domain.NewsFeed, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = defaultNewsTopic
	}
	key := "news:" + topic

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("news cache read failed", zap.Error(err))
		} else if raw != "" {
			var feed domain.NewsFeed
			if err := json.Unmarshal([]byte(raw), &feed); err == nil {
				return &feed, nil
			}
		}
	}

	feed, err := s.fetch(ctx, topic)
	if err != nil {
		return nil, apperrors.NewDomainError("UPSTREAM_UNAVAILABLE", "news feed unavailable", http.StatusBadGateway, nil)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(feed); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.cfg.CacheTTL()); err != nil {
				s.logger.Warn("news cache write failed", zap.Error(err))
			}
		}
	}
	return feed, nil
}

type rssItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Author      string `json:"author"`
	PubDate     string `json:"pubDate"`
	Description string `json:"description"`
}

type rssResponse struct {
	Status string    `json:"status"`
	Items  []rssItem `json:"items"`
}

func (s *NewsService) fetch(ctx context.Context, topic string) (*domain.NewsFeed, error) {
	u, err := url.Parse(s.cfg.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	rssURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=en-IN&gl=IN&ceid=IN:en", url.QueryEscape(topic))
	query := u.Query()
	query.Set("rss_url", rssURL)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed upstream returned %d", resp.StatusCode)
	}

	var parsed rssResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("feed upstream status %q", parsed.Status)
	}

	feed := &domain.NewsFeed{Topic: topic, Articles: make([]domain.NewsArticle, 0, len(parsed.Items))}
	for _, item := range parsed.Items {
		feed.Articles = append(feed.Articles, domain.NewsArticle{
			Title:       item.Title,
			Link:        item.Link,
			Source:      item.Author,
			PublishedAt: item.PubDate,
			Description: item.Description,
		})
	}
	return feed, nil
}
