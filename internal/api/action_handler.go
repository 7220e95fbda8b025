package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/models"
	"github.com/wfunc/game-community/internal/service"
	"github.com/wfunc/game-community/internal/store"
	"go.uber.org/zap"
)

// actionFunc 执行一个动作，返回动作自身的结果（没有时为nil）
type actionFunc func(c *gin.Context) (interface{}, error)

// ActionHandler 把界面的动作请求分发到动作表
type ActionHandler struct {
	services *service.Services
	actions  map[string]actionFunc
	log      *zap.Logger
}

// ActionResponse 动作响应，附带执行后的状态
type ActionResponse struct {
	Action string      `json:"action"`
	Result interface{} `json:"result,omitempty"`
	State  store.State `json:"state"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type imageRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type idRequest struct {
	ID int `json:"id" binding:"required"`
}

type pageRequest struct {
	Page int `json:"page" binding:"required,min=1"`
}

type gameRequest struct {
	GameID int `json:"gameId" binding:"required"`
}

type addReviewRequest struct {
	GameID  int    `json:"gameId" binding:"required"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

type updateReviewRequest struct {
	ID      int    `json:"id" binding:"required"`
	Comment string `json:"comment"`
}

type eventRequest struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	ImageURL    string `json:"imageUrl"`
}

func (r *eventRequest) input() *models.EventInput {
	return &models.EventInput{
		Name:        r.Name,
		Description: r.Description,
		Date:        r.Date,
		ImageURL:    r.ImageURL,
	}
}

type postRequest struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type commentRequest struct {
	ID      int    `json:"id"`
	PostID  int    `json:"postId"`
	Content string `json:"content"`
}

type postIDRequest struct {
	PostID int `json:"postId" binding:"required"`
}

// NewActionHandler 创建动作处理器
func NewActionHandler(services *service.Services, log *zap.Logger) *ActionHandler {
	h := &ActionHandler{
		services: services,
		actions:  make(map[string]actionFunc),
		log:      log,
	}
	h.registerSession()
	h.registerCatalog()
	h.registerReviews()
	h.registerEvents()
	h.registerForum()
	h.registerMisc()
	return h
}

func (h *ActionHandler) register(group, name string, fn actionFunc) {
	h.actions[group+"/"+name] = fn
}

// noBody 没有参数的动作
func noBody(run func(c *gin.Context)) actionFunc {
	return func(c *gin.Context) (interface{}, error) {
		run(c)
		return nil, nil
	}
}

// withBody 先绑定请求体再执行
func withBody[T any](run func(c *gin.Context, req *T) interface{}) actionFunc {
	return func(c *gin.Context) (interface{}, error) {
		req := new(T)
		if err := c.ShouldBindJSON(req); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidParam)
		}
		return run(c, req), nil
	}
}

func (h *ActionHandler) registerSession() {
	s := h.services.Session
	h.register("session", "login", withBody(func(c *gin.Context, req *loginRequest) interface{} {
		return s.Login(c.Request.Context(), req.Email, req.Password)
	}))
	h.register("session", "logout", noBody(func(c *gin.Context) {
		s.Logout(c.Request.Context())
	}))
	h.register("session", "createUser", withBody(func(c *gin.Context, req *createUserRequest) interface{} {
		return s.CreateUser(c.Request.Context(), req.Username, req.Email, req.Password)
	}))
	h.register("session", "getCurrentUser", noBody(func(c *gin.Context) {
		s.GetCurrentUser(c.Request.Context())
	}))
	h.register("session", "updateProfileImage", withBody(func(c *gin.Context, req *imageRequest) interface{} {
		s.UpdateProfileImage(c.Request.Context(), req.ImageURL)
		return nil
	}))
	h.register("session", "getUsers", noBody(func(c *gin.Context) {
		s.GetUsers(c.Request.Context())
	}))
}

func (h *ActionHandler) registerCatalog() {
	s := h.services.Catalog
	h.register("catalog", "searchGames", withBody(func(c *gin.Context, req *searchRequest) interface{} {
		s.SearchGames(c.Request.Context(), req.Query)
		return nil
	}))
	h.register("catalog", "getGames", noBody(func(c *gin.Context) {
		s.GetGames(c.Request.Context())
	}))
	h.register("catalog", "loadMoreGames", noBody(func(c *gin.Context) {
		s.LoadMoreGames(c.Request.Context())
	}))
	h.register("catalog", "getGenres", noBody(func(c *gin.Context) {
		s.GetGenres(c.Request.Context())
	}))
	h.register("catalog", "getGameById", withBody(func(c *gin.Context, req *idRequest) interface{} {
		s.GetGameByID(c.Request.Context(), req.ID)
		return nil
	}))
}

func (h *ActionHandler) registerReviews() {
	s := h.services.Reviews
	h.register("reviews", "fetchReviews", noBody(func(c *gin.Context) {
		s.FetchReviews(c.Request.Context())
	}))
	h.register("reviews", "changePage", withBody(func(c *gin.Context, req *pageRequest) interface{} {
		s.ChangePage(c.Request.Context(), req.Page)
		return nil
	}))
	h.register("reviews", "getReviewsForGame", withBody(func(c *gin.Context, req *gameRequest) interface{} {
		s.GetReviewsForGame(c.Request.Context(), req.GameID)
		return nil
	}))
	h.register("reviews", "addReview", withBody(func(c *gin.Context, req *addReviewRequest) interface{} {
		s.AddReview(c.Request.Context(), &models.ReviewInput{GameID: req.GameID, Title: req.Title, Comment: req.Comment})
		return nil
	}))
	h.register("reviews", "updateReview", withBody(func(c *gin.Context, req *updateReviewRequest) interface{} {
		s.UpdateReview(c.Request.Context(), req.ID, req.Comment)
		return nil
	}))
	h.register("reviews", "deleteReview", withBody(func(c *gin.Context, req *idRequest) interface{} {
		s.DeleteReview(c.Request.Context(), req.ID)
		return nil
	}))
}

func (h *ActionHandler) registerEvents() {
	s := h.services.Events
	h.register("events", "getEvents", noBody(func(c *gin.Context) {
		s.GetEvents(c.Request.Context())
	}))
	h.register("events", "createEvent", withBody(func(c *gin.Context, req *eventRequest) interface{} {
		s.CreateEvent(c.Request.Context(), req.input())
		return nil
	}))
	h.register("events", "updateEvent", withBody(func(c *gin.Context, req *eventRequest) interface{} {
		s.UpdateEvent(c.Request.Context(), req.ID, req.input())
		return nil
	}))
	h.register("events", "deleteEvent", withBody(func(c *gin.Context, req *idRequest) interface{} {
		s.DeleteEvent(c.Request.Context(), req.ID)
		return nil
	}))
	h.register("events", "attendEvent", withBody(func(c *gin.Context, req *idRequest) interface{} {
		s.AttendEvent(c.Request.Context(), req.ID)
		return nil
	}))
}

func (h *ActionHandler) registerForum() {
	s := h.services.Forum
	h.register("forum", "createPost", withBody(func(c *gin.Context, req *postRequest) interface{} {
		s.CreatePost(c.Request.Context(), req.Title, req.Content, req.ImageURL)
		return nil
	}))
	h.register("forum", "updatePost", withBody(func(c *gin.Context, req *postRequest) interface{} {
		s.UpdatePost(c.Request.Context(), req.ID, req.Title, req.Content, req.ImageURL)
		return nil
	}))
	h.register("forum", "deletePost", withBody(func(c *gin.Context, req *idRequest) interface{} {
		s.DeletePost(c.Request.Context(), req.ID)
		return nil
	}))
	h.register("forum", "getPostById", withBody(func(c *gin.Context, req *idRequest) interface{} {
		s.GetPostByID(c.Request.Context(), req.ID)
		return nil
	}))
	h.register("forum", "getAllPost", noBody(func(c *gin.Context) {
		s.GetAllPosts(c.Request.Context())
	}))
	h.register("forum", "createComment", withBody(func(c *gin.Context, req *commentRequest) interface{} {
		s.CreateComment(c.Request.Context(), req.PostID, req.Content)
		return nil
	}))
	h.register("forum", "updateComment", withBody(func(c *gin.Context, req *commentRequest) interface{} {
		s.UpdateComment(c.Request.Context(), req.ID, req.Content)
		return nil
	}))
	h.register("forum", "deleteComment", withBody(func(c *gin.Context, req *idRequest) interface{} {
		s.DeleteComment(c.Request.Context(), req.ID)
		return nil
	}))
	h.register("forum", "getCommentById", withBody(func(c *gin.Context, req *idRequest) interface{} {
		s.GetCommentByID(c.Request.Context(), req.ID)
		return nil
	}))
	h.register("forum", "getAllComments", noBody(func(c *gin.Context) {
		s.GetAllComments(c.Request.Context())
	}))
	h.register("forum", "getCommentsForPost", withBody(func(c *gin.Context, req *postIDRequest) interface{} {
		s.GetCommentsForPost(c.Request.Context(), req.PostID)
		return nil
	}))
}

func (h *ActionHandler) registerMisc() {
	s := h.services.Misc
	h.register("misc", "getMessage", func(c *gin.Context) (interface{}, error) {
		message, ok := s.GetMessage(c.Request.Context())
		if !ok {
			return nil, nil
		}
		return message, nil
	})
}

// Names 已注册的动作，按名称排序
func (h *ActionHandler) Names() []string {
	names := make([]string, 0, len(h.actions))
	for name := range h.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch 执行动作
// @Summary 执行动作
// @Description 动作失败只记录日志，响应总是返回执行后的状态
// @Tags Actions
// @Accept json
// @Produce json
// @Param group path string true "动作分组"
// @Param name path string true "动作名称"
// @Success 200 {object} ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/actions/{group}/{name} [post]
func (h *ActionHandler) Dispatch(c *gin.Context) {
	name := c.Param("group") + "/" + c.Param("name")
	fn, ok := h.actions[name]
	if !ok {
		abort(c, "ACTION_NOT_FOUND", errors.New(errors.ErrNotFound, name))
		return
	}

	result, err := fn(c)
	if err != nil {
		h.log.Warn("动作参数错误", zap.String("action", name), zap.Error(err))
		abort(c, "INVALID_REQUEST", errors.Wrap(err, errors.ErrInvalidParam))
		return
	}

	c.JSON(http.StatusOK, ActionResponse{
		Action: name,
		Result: result,
		State:  h.services.Store.Get(),
	})
}

// abort 按错误码返回对应的HTTP状态
func abort(c *gin.Context, code string, err *errors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus(), ErrorResponse{
		Code:    code,
		Message: err.Message,
		Details: err.Details,
	})
}

// List 动作列表
// @Summary 动作列表
// @Tags Actions
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/actions [get]
func (h *ActionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actions": h.Names()})
}

// GetState 当前状态
// @Summary 当前状态
// @Tags State
// @Produce json
// @Success 200 {object} store.State
// @Router /api/v1/state [get]
func (h *ActionHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Store.Get())
}
