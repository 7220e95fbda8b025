package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/game-community/internal/adapter"
	"github.com/wfunc/game-community/internal/models"
	"github.com/wfunc/game-community/internal/session"
	"github.com/wfunc/game-community/internal/store"
)

// MockNavigator 界面跳转mock
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) Redirect(ctx context.Context, path string) {
	m.Called(path)
}

// ServicesTestSuite 动作测试套件
type ServicesTestSuite struct {
	suite.Suite
	upstream  *fakeUpstream
	tokens    *session.MemoryStore
	navigator *MockNavigator
	services  *Services
	ctx       context.Context
}

func (suite *ServicesTestSuite) SetupTest() {
	suite.upstream = newFakeUpstream(suite.T())
	suite.tokens = session.NewMemoryStore(session.DefaultExpiry)
	suite.navigator = new(MockNavigator)
	suite.services = suite.newServices(suite.upstream.backendURL(), suite.upstream.catalogURL())
	suite.ctx = context.Background()
}

func (suite *ServicesTestSuite) newServices(backendURL, catalogURL string) *Services {
	return NewServices(&Dependencies{
		Store:     store.New(),
		Backend:   adapter.NewBackendClient(backendURL, time.Second),
		Catalog:   adapter.NewCatalogClient(catalogURL, "rawg-key", time.Second),
		Tokens:    suite.tokens,
		Navigator: suite.navigator,
	})
}

func (suite *ServicesTestSuite) state() store.State {
	return suite.services.Store.Get()
}

func (suite *ServicesTestSuite) login() {
	suite.Require().True(suite.services.Session.Login(suite.ctx, "neo@matrix.io", "secret"))
}

// TestLoginSuccess 登录成功保存令牌并加载当前用户
func (suite *ServicesTestSuite) TestLoginSuccess() {
	ok := suite.services.Session.Login(suite.ctx, "neo@matrix.io", "secret")
	suite.True(ok)

	token, err := suite.tokens.Get(suite.ctx)
	suite.NoError(err)
	suite.Equal(validToken, token)

	s := suite.state()
	suite.NotNil(s.CurrentUser)
	suite.Equal("neo", s.CurrentUser.Username)
	suite.True(s.IsLoggedIn)
	suite.False(s.IsLoadingUser)
}

// TestLoginInvalidCredentials 登录失败保持未登录
func (suite *ServicesTestSuite) TestLoginInvalidCredentials() {
	ok := suite.services.Session.Login(suite.ctx, "neo@matrix.io", "wrong")
	suite.False(ok)

	_, err := suite.tokens.Get(suite.ctx)
	suite.Error(err)

	s := suite.state()
	suite.Nil(s.CurrentUser)
	suite.False(s.IsLoggedIn)
	suite.Equal(0, suite.upstream.count("GET /api/current-user"))
}

// TestLoginWithoutToken 响应中没有令牌视为失败
func (suite *ServicesTestSuite) TestLoginWithoutToken() {
	suite.False(suite.services.Session.Login(suite.ctx, "neo@matrix.io", "no-token"))
	suite.False(suite.state().IsLoggedIn)
}

// TestLogout 注销总是清除用户状态
func (suite *ServicesTestSuite) TestLogout() {
	// 未登录时注销
	suite.services.Session.Logout(suite.ctx)
	suite.Nil(suite.state().CurrentUser)
	suite.False(suite.state().IsLoggedIn)

	suite.login()
	suite.services.Session.Logout(suite.ctx)

	s := suite.state()
	suite.Nil(s.CurrentUser)
	suite.False(s.IsLoggedIn)
	_, err := suite.tokens.Get(suite.ctx)
	suite.Error(err)
	suite.Equal(2, suite.upstream.count("POST /api/logout"))
}

// TestGetCurrentUserWithoutToken 没有令牌时不发送请求
func (suite *ServicesTestSuite) TestGetCurrentUserWithoutToken() {
	suite.services.Session.GetCurrentUser(suite.ctx)

	s := suite.state()
	suite.False(s.IsLoadingUser)
	suite.False(s.IsLoggedIn)
	suite.Nil(s.CurrentUser)
	suite.Equal(0, suite.upstream.count("GET /api/current-user"))
}

// TestGetCurrentUserRejected 请求失败时清除令牌
func (suite *ServicesTestSuite) TestGetCurrentUserRejected() {
	suite.NoError(suite.tokens.Set(suite.ctx, "stale-token"))

	suite.services.Session.GetCurrentUser(suite.ctx)

	_, err := suite.tokens.Get(suite.ctx)
	suite.Error(err)
	s := suite.state()
	suite.False(s.IsLoggedIn)
	suite.False(s.IsLoadingUser)
}

// TestCreateUser 注册
func (suite *ServicesTestSuite) TestCreateUser() {
	suite.True(suite.services.Session.CreateUser(suite.ctx, "new", "new@x.io", "pw"))
}

// TestUpdateProfileImage 更新头像替换当前用户
func (suite *ServicesTestSuite) TestUpdateProfileImage() {
	suite.services.Session.UpdateProfileImage(suite.ctx, "http://img/a.png")
	suite.Equal(0, suite.upstream.count("PUT /api/update-avatar"))

	suite.login()
	suite.services.Session.UpdateProfileImage(suite.ctx, "http://img/a.png")
	suite.Equal("http://img/a.png", suite.state().CurrentUser.ProfileImage)
}

// TestGetUsers 用户列表
func (suite *ServicesTestSuite) TestGetUsers() {
	suite.services.Session.GetUsers(suite.ctx)
	suite.Len(suite.state().Users, 2)
}

// TestCatalog 游戏目录
func (suite *ServicesTestSuite) TestCatalog() {
	suite.services.Catalog.SearchGames(suite.ctx, "game")
	suite.Equal([]models.SearchResult{{ID: 1, Name: "Game 1"}, {ID: 2, Name: "Game 2"}}, suite.state().SearchResults)

	suite.services.Catalog.GetGenres(suite.ctx)
	suite.Equal("Action", suite.state().Genres[0].Name)

	suite.services.Catalog.GetGameByID(suite.ctx, 42)
	suite.Equal(42, suite.state().GameDetails.ID)
}

// TestSearchGamesMissingResults 响应缺少results时保留上次的搜索结果
func (suite *ServicesTestSuite) TestSearchGamesMissingResults() {
	suite.services.Catalog.SearchGames(suite.ctx, "game")
	before := suite.state().SearchResults
	suite.Require().Len(before, 2)

	suite.services.Catalog.SearchGames(suite.ctx, "quota")
	suite.Equal(before, suite.state().SearchResults)
}

// TestLoadMoreGames 已有20个游戏时请求第2页并追加
func (suite *ServicesTestSuite) TestLoadMoreGames() {
	suite.services.Catalog.GetGames(suite.ctx)
	suite.Len(suite.state().Games, 20)

	suite.services.Catalog.LoadMoreGames(suite.ctx)

	games := suite.state().Games
	suite.Len(games, 40)
	suite.Equal(1, games[0].ID)
	suite.Equal(20, games[19].ID)
	suite.Equal(21, games[20].ID)
	suite.Equal([]string{"", "2"}, suite.upstream.requestedPages())
}

// TestFetchReviews 全部评测
func (suite *ServicesTestSuite) TestFetchReviews() {
	suite.services.Reviews.FetchReviews(suite.ctx)
	suite.Equal(0, suite.upstream.count("GET /api/reviews"))

	suite.login()
	suite.services.Reviews.ChangePage(suite.ctx, 3)

	s := suite.state()
	suite.Len(s.Reviews, 1)
	suite.Equal(1, s.CurrentPage)
	suite.Equal(1, s.TotalPages)
}

// TestAddReview 新建评测后重新加载该游戏的评测
func (suite *ServicesTestSuite) TestAddReview() {
	suite.login()
	suite.services.Reviews.AddReview(suite.ctx, &models.ReviewInput{GameID: 3, Title: "new", Comment: "fresh"})

	suite.Equal(1, suite.upstream.count("GET /api/reviews/:id"))
	reviews := suite.state().Reviews
	suite.Len(reviews, 2)
	suite.Equal(5, reviews[1].ID)
}

// TestAddReviewKeepsOtherGameReviews 已加载其它游戏的评测时不混入新评测
func (suite *ServicesTestSuite) TestAddReviewKeepsOtherGameReviews() {
	suite.login()
	suite.services.Store.Set(store.ReviewsLoaded([]models.Review{{ID: 7, GameID: 4}}))

	// 重新加载失败，列表保持原样
	suite.services.Reviews.AddReview(suite.ctx, &models.ReviewInput{GameID: 500, Title: "new", Comment: "fresh"})
	reviews := suite.state().Reviews
	suite.Require().Len(reviews, 1)
	suite.Equal(7, reviews[0].ID)

	// 同一游戏的列表合并新评测
	suite.services.Store.Set(store.ReviewsLoaded([]models.Review{{ID: 8, GameID: 500}}))
	suite.services.Reviews.AddReview(suite.ctx, &models.ReviewInput{GameID: 500, Title: "new", Comment: "fresh"})
	reviews = suite.state().Reviews
	suite.Require().Len(reviews, 2)
	suite.Equal(8, reviews[0].ID)
	suite.Equal(5, reviews[1].ID)
}

// TestUpdateReview 只替换同ID的评测，失败时不变
func (suite *ServicesTestSuite) TestUpdateReview() {
	suite.services.Reviews.GetReviewsForGame(suite.ctx, 3)
	before := suite.state().Reviews

	suite.services.Reviews.UpdateReview(suite.ctx, 5, "edited")
	after := suite.state().Reviews
	suite.Equal(before[0], after[0])
	suite.Equal("edited", after[1].Comment)

	suite.services.Reviews.UpdateReview(suite.ctx, 404, "missing")
	suite.Equal(after, suite.state().Reviews)
}

// TestDeleteReview 删除评测，失败时不变
func (suite *ServicesTestSuite) TestDeleteReview() {
	suite.services.Reviews.GetReviewsForGame(suite.ctx, 3)

	suite.services.Reviews.DeleteReview(suite.ctx, 404)
	suite.Len(suite.state().Reviews, 2)

	suite.services.Reviews.DeleteReview(suite.ctx, 1)
	reviews := suite.state().Reviews
	suite.Len(reviews, 1)
	suite.Equal(5, reviews[0].ID)
}

// TestEvents 活动增删改
func (suite *ServicesTestSuite) TestEvents() {
	suite.services.Events.GetEvents(suite.ctx)
	suite.services.Events.CreateEvent(suite.ctx, &models.EventInput{Name: "Meetup", Date: "2024-06-01"})
	suite.services.Events.CreateEvent(suite.ctx, &models.EventInput{Name: "Meetup"})
	suite.Len(suite.state().Events, 2)

	suite.services.Events.UpdateEvent(suite.ctx, 1, &models.EventInput{Name: "LAN party"})
	events := suite.state().Events
	suite.Equal("LAN party", events[0].Name)
	suite.Equal("Meetup", events[1].Name)
}

// TestDeleteEventPreservesOrder 删除活动保持其余顺序
func (suite *ServicesTestSuite) TestDeleteEventPreservesOrder() {
	suite.services.Store.Set(store.EventsLoaded([]models.Event{{ID: 3}, {ID: 1}, {ID: 2}, {ID: 4}}))

	suite.services.Events.DeleteEvent(suite.ctx, 2)
	suite.services.Events.DeleteEvent(suite.ctx, 404)

	ids := []int{}
	for _, e := range suite.state().Events {
		ids = append(ids, e.ID)
	}
	suite.Equal([]int{3, 1, 4}, ids)
}

// TestAttendEventWithoutToken 未登录跳转登录页且不发请求
func (suite *ServicesTestSuite) TestAttendEventWithoutToken() {
	suite.navigator.On("Redirect", "/login").Return().Once()

	suite.services.Events.AttendEvent(suite.ctx, 1)

	suite.navigator.AssertExpectations(suite.T())
	suite.Equal(0, suite.upstream.count("POST /api/events/:id/attend"))
}

// TestAttendEvent 已登录时发送请求，状态不变
func (suite *ServicesTestSuite) TestAttendEvent() {
	suite.login()
	before := suite.state()

	suite.services.Events.AttendEvent(suite.ctx, 1)

	suite.Equal(1, suite.upstream.count("POST /api/events/:id/attend"))
	suite.Equal(before, suite.state())
	suite.navigator.AssertNotCalled(suite.T(), "Redirect", mock.Anything)
}

// TestPosts 帖子动作合并服务端记录
func (suite *ServicesTestSuite) TestPosts() {
	suite.services.Forum.GetAllPosts(suite.ctx)
	suite.Len(suite.state().Posts, 1)

	// 未登录不发送请求
	suite.services.Forum.CreatePost(suite.ctx, "t", "c", "")
	suite.Equal(0, suite.upstream.count("POST /api/posts"))

	suite.login()
	suite.services.Forum.CreatePost(suite.ctx, "second", "body", "http://img/p.png")
	posts := suite.state().Posts
	suite.Len(posts, 2)
	suite.Equal("http://img/p.png", posts[1].ImageURL)

	suite.services.Forum.GetPostByID(suite.ctx, 2)
	suite.Equal(2, suite.state().CurrentPost.ID)

	suite.services.Forum.UpdatePost(suite.ctx, 2, "edited", "body", "")
	suite.Equal("edited", suite.state().Posts[1].Title)
	suite.Equal("edited", suite.state().CurrentPost.Title)

	suite.services.Forum.DeletePost(suite.ctx, 2)
	suite.Len(suite.state().Posts, 1)
	suite.Nil(suite.state().CurrentPost)
}

// TestComments 评论动作
func (suite *ServicesTestSuite) TestComments() {
	suite.services.Forum.GetAllComments(suite.ctx)
	suite.Len(suite.state().Comments, 1)

	suite.login()
	suite.services.Forum.CreateComment(suite.ctx, 1, "great")
	suite.Len(suite.state().Comments, 2)

	suite.services.Forum.UpdateComment(suite.ctx, 8, "greater")
	suite.Equal("greater", suite.state().Comments[1].Content)

	suite.services.Forum.GetCommentByID(suite.ctx, 7)
	suite.Equal(7, suite.state().CurrentComment.ID)

	suite.services.Forum.DeleteComment(suite.ctx, 7)
	suite.Len(suite.state().Comments, 1)
	suite.Nil(suite.state().CurrentComment)

	suite.services.Forum.GetCommentsForPost(suite.ctx, 1)
	suite.Equal(1, suite.state().Comments[0].PostID)
}

// TestGetMessage 问候消息
func (suite *ServicesTestSuite) TestGetMessage() {
	message, ok := suite.services.Misc.GetMessage(suite.ctx)
	suite.True(ok)
	suite.Equal(message, suite.state().Message)
}

// TestNetworkFailure 网络失败不向外抛出，其它字段不变
func (suite *ServicesTestSuite) TestNetworkFailure() {
	suite.login()
	suite.services.Events.GetEvents(suite.ctx)
	suite.services.Forum.GetAllPosts(suite.ctx)
	before := suite.state()

	dead := httptest.NewServer(nil)
	dead.Close()
	services := suite.newServices(dead.URL, dead.URL)
	services.Store.Set(store.Patch{
		CurrentUser: store.Some(before.CurrentUser),
		IsLoggedIn:  store.Some(true),
		Events:      store.Some(before.Events),
		Posts:       store.Some(before.Posts),
	})
	snapshot := services.Store.Get()

	suite.NotPanics(func() {
		suite.False(services.Session.Login(suite.ctx, "neo@matrix.io", "secret"))
		suite.False(services.Session.CreateUser(suite.ctx, "a", "b", "c"))
		services.Session.UpdateProfileImage(suite.ctx, "x")
		services.Session.GetUsers(suite.ctx)
		services.Catalog.SearchGames(suite.ctx, "q")
		services.Catalog.GetGames(suite.ctx)
		services.Catalog.LoadMoreGames(suite.ctx)
		services.Catalog.GetGenres(suite.ctx)
		services.Catalog.GetGameByID(suite.ctx, 1)
		services.Reviews.FetchReviews(suite.ctx)
		services.Reviews.GetReviewsForGame(suite.ctx, 1)
		services.Reviews.AddReview(suite.ctx, &models.ReviewInput{GameID: 1})
		services.Reviews.UpdateReview(suite.ctx, 1, "x")
		services.Reviews.DeleteReview(suite.ctx, 1)
		services.Events.GetEvents(suite.ctx)
		services.Events.CreateEvent(suite.ctx, &models.EventInput{Name: "x"})
		services.Events.UpdateEvent(suite.ctx, 1, &models.EventInput{Name: "x"})
		services.Events.DeleteEvent(suite.ctx, 1)
		services.Events.AttendEvent(suite.ctx, 1)
		services.Forum.CreatePost(suite.ctx, "t", "c", "")
		services.Forum.UpdatePost(suite.ctx, 1, "t", "c", "")
		services.Forum.DeletePost(suite.ctx, 1)
		services.Forum.GetPostByID(suite.ctx, 1)
		services.Forum.GetAllPosts(suite.ctx)
		services.Forum.CreateComment(suite.ctx, 1, "c")
		services.Forum.UpdateComment(suite.ctx, 1, "c")
		services.Forum.DeleteComment(suite.ctx, 1)
		services.Forum.GetCommentByID(suite.ctx, 1)
		services.Forum.GetAllComments(suite.ctx)
		services.Forum.GetCommentsForPost(suite.ctx, 1)
		_, ok := services.Misc.GetMessage(suite.ctx)
		suite.False(ok)
	})

	suite.Equal(snapshot, services.Store.Get())
	// 令牌仍然有效
	_, err := suite.tokens.Get(suite.ctx)
	suite.NoError(err)
}

func TestServicesSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}
