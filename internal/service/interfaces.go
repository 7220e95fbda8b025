package service

import (
	"context"

	"github.com/wfunc/game-community/internal/models"
)

// 所有动作都是各自的失败边界：出错只记录日志，不向调用方返回错误

// SessionService 会话动作
type SessionService interface {
	Login(ctx context.Context, email, password string) bool
	Logout(ctx context.Context)
	CreateUser(ctx context.Context, username, email, password string) bool
	GetCurrentUser(ctx context.Context)
	UpdateProfileImage(ctx context.Context, imageURL string)
	GetUsers(ctx context.Context)
}

// CatalogService 游戏目录动作
type CatalogService interface {
	SearchGames(ctx context.Context, query string)
	GetGames(ctx context.Context)
	LoadMoreGames(ctx context.Context)
	GetGenres(ctx context.Context)
	GetGameByID(ctx context.Context, gameID int)
}

// ReviewService 评测动作
type ReviewService interface {
	FetchReviews(ctx context.Context)
	ChangePage(ctx context.Context, page int)
	GetReviewsForGame(ctx context.Context, gameID int)
	AddReview(ctx context.Context, review *models.ReviewInput)
	UpdateReview(ctx context.Context, reviewID int, comment string)
	DeleteReview(ctx context.Context, reviewID int)
}

// EventService 活动动作
type EventService interface {
	GetEvents(ctx context.Context)
	CreateEvent(ctx context.Context, event *models.EventInput)
	UpdateEvent(ctx context.Context, eventID int, event *models.EventInput)
	DeleteEvent(ctx context.Context, eventID int)
	AttendEvent(ctx context.Context, eventID int)
}

// ForumService 帖子与评论动作
type ForumService interface {
	CreatePost(ctx context.Context, title, content, imageURL string)
	UpdatePost(ctx context.Context, postID int, title, content, imageURL string)
	DeletePost(ctx context.Context, postID int)
	GetPostByID(ctx context.Context, postID int)
	GetAllPosts(ctx context.Context)

	CreateComment(ctx context.Context, postID int, content string)
	UpdateComment(ctx context.Context, commentID int, content string)
	DeleteComment(ctx context.Context, commentID int)
	GetCommentByID(ctx context.Context, commentID int)
	GetAllComments(ctx context.Context)
	GetCommentsForPost(ctx context.Context, postID int)
}

// MiscService 其他动作
type MiscService interface {
	GetMessage(ctx context.Context) (string, bool)
}

// Navigator 通知界面跳转
type Navigator interface {
	Redirect(ctx context.Context, path string)
}
