package service

import (
	"context"

	"github.com/wfunc/game-community/internal/models"
	"github.com/wfunc/game-community/internal/store"
	"go.uber.org/zap"
)

type reviewService struct {
	*base
}

// FetchReviews 全部评测
func (s *reviewService) FetchReviews(ctx context.Context) {
	token, ok := s.requireToken(ctx, "fetchReviews")
	if !ok {
		return
	}

	reviews, err := s.backend.Reviews(ctx, token)
	if err != nil {
		s.fail("fetchReviews", err)
		return
	}
	s.store.Set(store.ReviewsFetched(reviews))
	s.done("fetchReviews", zap.Int("count", len(reviews)))
}

// ChangePage 后端不再分页，页码只用于记录
func (s *reviewService) ChangePage(ctx context.Context, page int) {
	s.log.Debug("切换评测页", zap.Int("page", page))
	s.actions.Reviews.FetchReviews(ctx)
}

// GetReviewsForGame 某个游戏的评测
func (s *reviewService) GetReviewsForGame(ctx context.Context, gameID int) {
	reviews, err := s.backend.ReviewsForGame(ctx, gameID)
	if err != nil {
		s.fail("getReviewsForGame", err, zap.Int("game_id", gameID))
		return
	}
	s.store.Set(store.ReviewsLoaded(reviews))
	s.done("getReviewsForGame", zap.Int("game_id", gameID), zap.Int("count", len(reviews)))
}

// AddReview 新建评测，成功后重新加载该游戏的评测
func (s *reviewService) AddReview(ctx context.Context, review *models.ReviewInput) {
	token, ok := s.requireToken(ctx, "addReview")
	if !ok {
		return
	}

	created, err := s.backend.AddReview(ctx, token, review)
	if err != nil {
		s.fail("addReview", err, zap.Int("game_id", review.GameID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.ReviewAdded(current, review.GameID, *created)
	})
	s.done("addReview", zap.Int("review_id", created.ID))

	s.actions.Reviews.GetReviewsForGame(ctx, review.GameID)
}

// UpdateReview 更新评测，失败时状态不变
func (s *reviewService) UpdateReview(ctx context.Context, reviewID int, comment string) {
	updated, err := s.backend.UpdateReview(ctx, s.optionalToken(ctx), reviewID, comment)
	if err != nil {
		s.fail("updateReview", err, zap.Int("review_id", reviewID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.ReviewUpdated(current, *updated)
	})
	s.done("updateReview", zap.Int("review_id", reviewID))
}

// DeleteReview 删除评测，失败时状态不变
func (s *reviewService) DeleteReview(ctx context.Context, reviewID int) {
	if err := s.backend.DeleteReview(ctx, s.optionalToken(ctx), reviewID); err != nil {
		s.fail("deleteReview", err, zap.Int("review_id", reviewID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.ReviewDeleted(current, reviewID)
	})
	s.done("deleteReview", zap.Int("review_id", reviewID))
}
