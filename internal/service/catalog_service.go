package service

import (
	"context"

	"github.com/wfunc/game-community/internal/adapter"
	"github.com/wfunc/game-community/internal/store"
	"go.uber.org/zap"
)

type catalogService struct {
	*base
}

// SearchGames 搜索游戏
func (s *catalogService) SearchGames(ctx context.Context, query string) {
	page, err := s.catalog.Games(ctx, adapter.GamesQuery{Search: query})
	if err != nil {
		s.fail("searchGames", err, zap.String("query", query))
		return
	}
	s.store.Set(store.SearchResultsLoaded(page.Results))
	s.done("searchGames", zap.String("query", query), zap.Int("count", len(page.Results)))
}

// GetGames 第一页游戏
func (s *catalogService) GetGames(ctx context.Context) {
	page, err := s.catalog.Games(ctx, adapter.GamesQuery{})
	if err != nil {
		s.fail("getGames", err)
		return
	}
	s.store.Set(store.GamesLoaded(page.Results))
	s.done("getGames", zap.Int("count", len(page.Results)))
}

// LoadMoreGames 加载下一页并追加
func (s *catalogService) LoadMoreGames(ctx context.Context) {
	next := store.NextGamesPage(s.store.Get())

	page, err := s.catalog.Games(ctx, adapter.GamesQuery{Page: next})
	if err != nil {
		s.fail("loadMoreGames", err, zap.Int("page", next))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.MoreGamesLoaded(current, page.Results)
	})
	s.done("loadMoreGames", zap.Int("page", next), zap.Int("count", len(page.Results)))
}

// GetGenres 游戏类型
func (s *catalogService) GetGenres(ctx context.Context) {
	page, err := s.catalog.Genres(ctx)
	if err != nil {
		s.fail("getGenres", err)
		return
	}
	s.store.Set(store.GenresLoaded(page.Results))
	s.done("getGenres", zap.Int("count", len(page.Results)))
}

// GetGameByID 游戏详情
func (s *catalogService) GetGameByID(ctx context.Context, gameID int) {
	detail, err := s.catalog.Game(ctx, gameID)
	if err != nil {
		s.fail("getGameById", err, zap.Int("game_id", gameID))
		return
	}
	s.store.Set(store.GameDetailsLoaded(detail))
	s.done("getGameById", zap.Int("game_id", gameID))
}
