// Package catalog は外部レシピカタログ（TheMealDB）へのパススルーアクセスを提供する。
// レスポンスは検証・正規化せずにそのまま呼び出し元へ返す。キャッシュとリトライは行わない。
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL はTheMealDB公開APIのベースURL。
	DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"
	// DefaultMaxBodySize はレスポンスボディの読み取り上限（5MiB）。
	DefaultMaxBodySize int64 = 5 * 1024 * 1024

	userAgent = "Recipebox/1.0"
)

// エンドポイント名。ログとメトリクスのラベルに使う。
const (
	EndpointSearch     = "search"
	EndpointLookup     = "lookup"
	EndpointFilter     = "filter"
	EndpointCategories = "categories"
)

// Recorder はカタログ呼び出しの結果を記録する。
type Recorder interface {
	RecordCatalogRequest(endpoint, outcome string, duration time.Duration)
}

// Response はカタログが返したJSONオブジェクトをそのまま保持する。
type Response map[string]any

// Meals はトップレベルの "meals" 配列を返す。
// null・欠落・配列以外の場合は空スライスを返す。
func (r Response) Meals() []map[string]any {
	return r.collection("meals")
}

// Categories はトップレベルの "categories" 配列を返す。
// null・欠落・配列以外の場合は空スライスを返す。
func (r Response) Categories() []map[string]any {
	return r.collection("categories")
}

func (r Response) collection(key string) []map[string]any {
	raw, ok := r[key].([]any)
	if !ok {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Client はレシピカタログのHTTPクライアント。
// 4つの読み取り専用エンドポイントを1リクエストずつ呼び出す。
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxBodySize int64
	logger      *slog.Logger
	recorder    Recorder
}

// NewClient はClientを生成する。
// baseURLが空の場合はDefaultBaseURL、maxBodySizeが0以下の場合はDefaultMaxBodySizeを使う。
// recorderはnilでもよい。
func NewClient(httpClient *http.Client, baseURL string, maxBodySize int64, logger *slog.Logger, recorder Recorder) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxBodySize: maxBodySize,
		logger:      logger,
		recorder:    recorder,
	}
}

// SearchRecipes は名前でレシピを検索する。queryは空文字列でもよい。
func (c *Client) SearchRecipes(ctx context.Context, query string) (Response, error) {
	return c.get(ctx, EndpointSearch, "search.php", url.Values{"s": {query}})
}

// GetRecipeDetails はカタログIDでレシピ詳細を取得する。
func (c *Client) GetRecipeDetails(ctx context.Context, id string) (Response, error) {
	return c.get(ctx, EndpointLookup, "lookup.php", url.Values{"i": {id}})
}

// GetRecipesByCategory はカテゴリ名でレシピを絞り込む。
func (c *Client) GetRecipesByCategory(ctx context.Context, category string) (Response, error) {
	return c.get(ctx, EndpointFilter, "filter.php", url.Values{"c": {category}})
}

// GetCategories はカテゴリ一覧を取得する。
func (c *Client) GetCategories(ctx context.Context) (Response, error) {
	return c.get(ctx, EndpointCategories, "categories.php", nil)
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) (Response, error) {
	start := time.Now()

	reqURL := c.baseURL + "/" + path
	if params != nil {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("レシピカタログの呼び出しに失敗しました",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		c.record(endpoint, "unavailable", start)
		return nil, &UpstreamUnavailableError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 接続を再利用するためにボディを読み捨てる
		io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodySize))
		c.logger.Error("レシピカタログがエラーステータスを返しました",
			slog.String("endpoint", endpoint),
			slog.Int("http_status", resp.StatusCode),
		)
		c.record(endpoint, "upstream_error", start)
		return nil, &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	var body Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBodySize)).Decode(&body); err != nil {
		c.logger.Error("レシピカタログのレスポンスのパースに失敗しました",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		c.record(endpoint, "unavailable", start)
		return nil, &UpstreamUnavailableError{Endpoint: endpoint, Err: err}
	}
	if body == nil {
		body = Response{}
	}

	c.record(endpoint, "success", start)
	return body, nil
}

func (c *Client) record(endpoint, outcome string, start time.Time) {
	if c.recorder != nil {
		c.recorder.RecordCatalogRequest(endpoint, outcome, time.Since(start))
	}
}
