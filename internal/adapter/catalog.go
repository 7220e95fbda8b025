package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/models"
)

// CatalogClient 游戏目录接口（API_RAWG_GET_URL）
type CatalogClient struct {
	*Client
	key string
}

// NewCatalogClient 创建游戏目录客户端
func NewCatalogClient(catalogURL, key string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		Client: NewClient("catalog", catalogURL, timeout),
		key:    key,
	}
}

// GamesQuery 游戏列表查询参数
type GamesQuery struct {
	Search string
	Page   int
}

func (c *CatalogClient) query() url.Values {
	q := url.Values{}
	q.Set("key", c.key)
	return q
}

// Games 查询游戏列表
func (c *CatalogClient) Games(ctx context.Context, query GamesQuery) (*models.CatalogPage[models.Game], error) {
	q := c.query()
	if query.Search != "" {
		q.Set("search", query.Search)
	}
	if query.Page > 0 {
		q.Set("page", strconv.Itoa(query.Page))
	}

	resp, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: "/games", Query: q})
	if err != nil {
		return nil, err
	}
	return decodePage[models.Game](resp)
}

// Game 获取游戏详情
func (c *CatalogClient) Game(ctx context.Context, gameID int) (*models.GameDetail, error) {
	resp, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: fmt.Sprintf("/games/%d", gameID), Query: c.query()})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.GameDetail](resp)
}

// Genres 获取游戏类型
func (c *CatalogClient) Genres(ctx context.Context) (*models.CatalogPage[models.Genre], error) {
	resp, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: "/genres", Query: c.query()})
	if err != nil {
		return nil, err
	}
	return decodePage[models.Genre](resp)
}

// decodePage 解析分页响应，缺少results时返回格式错误
func decodePage[T any](resp *Response) (*models.CatalogPage[T], error) {
	page, err := decodeOne[models.CatalogPage[T]](resp)
	if err != nil {
		return nil, err
	}
	if page.Results == nil {
		return nil, errors.New(errors.ErrUnexpectedFormat, "缺少results")
	}
	return page, nil
}
