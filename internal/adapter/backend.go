package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/models"
)

// BackendClient 社区后端接口（BACKEND_URL + /api）
type BackendClient struct {
	*Client
}

// NewBackendClient 创建后端客户端
func NewBackendClient(backendURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{Client: NewClient("backend", backendURL+"/api", timeout)}
}

// Login 登录，返回后端签发的访问令牌（可能为空）
func (b *BackendClient) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := b.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/login",
		Body:   &models.LoginRequest{Email: email, Password: password},
	})
	if err != nil {
		return "", err
	}
	out, err := decodeOne[models.LoginResponse](resp)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Logout 通知后端注销
func (b *BackendClient) Logout(ctx context.Context, token string) error {
	_, err := b.Do(ctx, &Request{Method: http.MethodPost, Path: "/logout", Token: token})
	return err
}

// Signup 注册用户，返回后端原始响应
func (b *BackendClient) Signup(ctx context.Context, req *models.SignupRequest) (json.RawMessage, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodPost, Path: "/signup", Body: req})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}

// CurrentUser 获取当前登录用户
func (b *BackendClient) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: "/current-user", Token: token})
	if err != nil {
		return nil, err
	}
	out, err := decodeOne[models.CurrentUserResponse](resp)
	if err != nil {
		return nil, err
	}
	if out.CurrentUser == nil {
		return nil, errors.New(errors.ErrUnexpectedFormat, "缺少current_user字段")
	}
	return out.CurrentUser, nil
}

// UpdateAvatar 更新头像，返回更新后的用户
func (b *BackendClient) UpdateAvatar(ctx context.Context, token, avatar string) (*models.User, error) {
	resp, err := b.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   "/update-avatar",
		Body:   map[string]string{"avatar": avatar},
		Token:  token,
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.User](resp)
}

// Users 获取所有用户
func (b *BackendClient) Users(ctx context.Context) ([]models.User, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: "/users"})
	if err != nil {
		return nil, err
	}
	return decodeList[models.User](resp)
}

// Reviews 获取当前用户可见的全部评测
func (b *BackendClient) Reviews(ctx context.Context, token string) ([]models.Review, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: "/reviews", Token: token})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Review](resp)
}

// ReviewsForGame 获取某个游戏的评测
func (b *BackendClient) ReviewsForGame(ctx context.Context, gameID int) ([]models.Review, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: fmt.Sprintf("/reviews/%d", gameID)})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Review](resp)
}

// AddReview 新建评测，后端返回201才算成功
func (b *BackendClient) AddReview(ctx context.Context, token string, review *models.ReviewInput) (*models.Review, error) {
	resp, err := b.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/reviews/%d", review.GameID),
		Body: map[string]string{
			"title":   review.Title,
			"comment": review.Comment,
		},
		Token:  token,
		Expect: []int{http.StatusCreated},
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Review](resp)
}

// UpdateReview 更新评测内容
func (b *BackendClient) UpdateReview(ctx context.Context, token string, reviewID int, comment string) (*models.Review, error) {
	resp, err := b.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/reviews/%d", reviewID),
		Body:   map[string]string{"comment": comment},
		Token:  token,
		Expect: []int{http.StatusOK},
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Review](resp)
}

// DeleteReview 删除评测
func (b *BackendClient) DeleteReview(ctx context.Context, token string, reviewID int) error {
	_, err := b.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/reviews/%d", reviewID),
		Token:  token,
		Expect: []int{http.StatusOK},
	})
	return err
}

// Events 获取活动列表
func (b *BackendClient) Events(ctx context.Context) ([]models.Event, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: "/events"})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Event](resp)
}

// CreateEvent 创建活动
func (b *BackendClient) CreateEvent(ctx context.Context, token string, event *models.EventInput) (*models.Event, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodPost, Path: "/events", Body: event, Token: token})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Event](resp)
}

// UpdateEvent 更新活动
func (b *BackendClient) UpdateEvent(ctx context.Context, token string, eventID int, event *models.EventInput) (*models.Event, error) {
	resp, err := b.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/events/%d", eventID),
		Body:   event,
		Token:  token,
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Event](resp)
}

// DeleteEvent 删除活动
func (b *BackendClient) DeleteEvent(ctx context.Context, token string, eventID int) error {
	_, err := b.Do(ctx, &Request{Method: http.MethodDelete, Path: fmt.Sprintf("/events/%d", eventID), Token: token})
	return err
}

// AttendEvent 报名参加活动，请求体为空
func (b *BackendClient) AttendEvent(ctx context.Context, token string, eventID int) error {
	_, err := b.Do(ctx, &Request{Method: http.MethodPost, Path: fmt.Sprintf("/events/%d/attend", eventID), Token: token})
	return err
}

// Posts 获取全部帖子
func (b *BackendClient) Posts(ctx context.Context) ([]models.Post, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: "/posts"})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Post](resp)
}

// Post 获取单个帖子
func (b *BackendClient) Post(ctx context.Context, postID int) (*models.Post, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: fmt.Sprintf("/posts/%d", postID)})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Post](resp)
}

// CreatePost 发帖
func (b *BackendClient) CreatePost(ctx context.Context, token string, post *models.PostInput) (*models.Post, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodPost, Path: "/posts", Body: post, Token: token})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Post](resp)
}

// UpdatePost 更新帖子
func (b *BackendClient) UpdatePost(ctx context.Context, token string, postID int, post *models.PostInput) (*models.Post, error) {
	resp, err := b.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/posts/%d", postID),
		Body:   post,
		Token:  token,
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Post](resp)
}

// DeletePost 删除帖子
func (b *BackendClient) DeletePost(ctx context.Context, token string, postID int) error {
	_, err := b.Do(ctx, &Request{Method: http.MethodDelete, Path: fmt.Sprintf("/posts/%d", postID), Token: token})
	return err
}

// Comments 获取全部评论
func (b *BackendClient) Comments(ctx context.Context) ([]models.Comment, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: "/comments"})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Comment](resp)
}

// CommentsForPost 获取帖子下的评论
func (b *BackendClient) CommentsForPost(ctx context.Context, postID int) ([]models.Comment, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: fmt.Sprintf("/posts/%d/comments", postID)})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Comment](resp)
}

// Comment 获取单条评论
func (b *BackendClient) Comment(ctx context.Context, commentID int) (*models.Comment, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: fmt.Sprintf("/comments/%d", commentID)})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Comment](resp)
}

// CreateComment 发表评论
func (b *BackendClient) CreateComment(ctx context.Context, token string, postID int, comment *models.CommentInput) (*models.Comment, error) {
	resp, err := b.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/posts/%d/comments", postID),
		Body:   comment,
		Token:  token,
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Comment](resp)
}

// UpdateComment 更新评论
func (b *BackendClient) UpdateComment(ctx context.Context, token string, commentID int, comment *models.CommentInput) (*models.Comment, error) {
	resp, err := b.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/comments/%d", commentID),
		Body:   comment,
		Token:  token,
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Comment](resp)
}

// DeleteComment 删除评论
func (b *BackendClient) DeleteComment(ctx context.Context, token string, commentID int) error {
	_, err := b.Do(ctx, &Request{Method: http.MethodDelete, Path: fmt.Sprintf("/comments/%d", commentID), Token: token})
	return err
}

// Hello 获取后端问候消息
func (b *BackendClient) Hello(ctx context.Context) (string, error) {
	resp, err := b.Do(ctx, &Request{Method: http.MethodGet, Path: "/hello"})
	if err != nil {
		return "", err
	}
	out, err := decodeOne[models.MessageResponse](resp)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}
