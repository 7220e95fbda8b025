package store

import "github.com/wfunc/game-community/internal/models"

// State 应用状态
// 每个列表字段保存对应资源最近一次成功获取的结果，失败时保持不变
type State struct {
	Message       string       `json:"message"`
	Token         string       `json:"token"`
	CurrentUser   *models.User `json:"currentUser"`
	IsLoadingUser bool         `json:"isLoadingUser"`
	IsLoggedIn    bool         `json:"isLoggedIn"`

	Users         []models.User         `json:"users"`
	Games         []models.Game         `json:"games"`
	Genres        []models.Genre        `json:"genres"`
	GameDetails   *models.GameDetail    `json:"gameDetails"`
	SearchResults []models.SearchResult `json:"searchResults"`
	Reviews       []models.Review       `json:"reviews"`
	Events        []models.Event        `json:"events"`
	Posts         []models.Post         `json:"posts"`
	Comments      []models.Comment      `json:"comments"`

	CurrentPost    *models.Post    `json:"currentPost"`
	CurrentComment *models.Comment `json:"currentComment"`
	CurrentPage    int             `json:"currentPage"`
	TotalPages     int             `json:"totalPages"`
}

// Initial 初始状态
func Initial() State {
	return State{
		IsLoadingUser: true,
		Users:         []models.User{},
		Games:         []models.Game{},
		Genres:        []models.Genre{},
		SearchResults: []models.SearchResult{},
		Reviews:       []models.Review{},
		Events:        []models.Event{},
		Posts:         []models.Post{},
		Comments:      []models.Comment{},
	}
}

// Clone 复制状态，调用方修改副本不会影响共享状态
func (s State) Clone() State {
	c := s
	c.CurrentUser = clonePtr(s.CurrentUser)
	c.GameDetails = clonePtr(s.GameDetails)
	c.CurrentPost = clonePtr(s.CurrentPost)
	c.CurrentComment = clonePtr(s.CurrentComment)

	c.Users = cloneSlice(s.Users)
	c.Games = cloneSlice(s.Games)
	c.Genres = cloneSlice(s.Genres)
	c.SearchResults = cloneSlice(s.SearchResults)
	c.Reviews = cloneSlice(s.Reviews)
	c.Events = cloneSlice(s.Events)
	c.Posts = cloneSlice(s.Posts)
	c.Comments = cloneSlice(s.Comments)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Value 补丁中的可选字段
type Value[T any] struct {
	Set bool
	V   T
}

// Some 设置字段
func Some[T any](v T) Value[T] {
	return Value[T]{Set: true, V: v}
}

func (v Value[T]) apply(dst *T) {
	if v.Set {
		*dst = v.V
	}
}

// Patch 局部状态，只有设置过的字段会被替换
type Patch struct {
	Message       Value[string]
	Token         Value[string]
	CurrentUser   Value[*models.User]
	IsLoadingUser Value[bool]
	IsLoggedIn    Value[bool]

	Users         Value[[]models.User]
	Games         Value[[]models.Game]
	Genres        Value[[]models.Genre]
	GameDetails   Value[*models.GameDetail]
	SearchResults Value[[]models.SearchResult]
	Reviews       Value[[]models.Review]
	Events        Value[[]models.Event]
	Posts         Value[[]models.Post]
	Comments      Value[[]models.Comment]

	CurrentPost    Value[*models.Post]
	CurrentComment Value[*models.Comment]
	CurrentPage    Value[int]
	TotalPages     Value[int]
}

// Apply 将补丁合并到状态
func (p Patch) Apply(s *State) {
	p.Message.apply(&s.Message)
	p.Token.apply(&s.Token)
	p.CurrentUser.apply(&s.CurrentUser)
	p.IsLoadingUser.apply(&s.IsLoadingUser)
	p.IsLoggedIn.apply(&s.IsLoggedIn)

	p.Users.apply(&s.Users)
	p.Games.apply(&s.Games)
	p.Genres.apply(&s.Genres)
	p.GameDetails.apply(&s.GameDetails)
	p.SearchResults.apply(&s.SearchResults)
	p.Reviews.apply(&s.Reviews)
	p.Events.apply(&s.Events)
	p.Posts.apply(&s.Posts)
	p.Comments.apply(&s.Comments)

	p.CurrentPost.apply(&s.CurrentPost)
	p.CurrentComment.apply(&s.CurrentComment)
	p.CurrentPage.apply(&s.CurrentPage)
	p.TotalPages.apply(&s.TotalPages)
}

// Fields 返回补丁中设置过的字段名（状态JSON中的名称）
func (p Patch) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(p.Message.Set, "message")
	add(p.Token.Set, "token")
	add(p.CurrentUser.Set, "currentUser")
	add(p.IsLoadingUser.Set, "isLoadingUser")
	add(p.IsLoggedIn.Set, "isLoggedIn")
	add(p.Users.Set, "users")
	add(p.Games.Set, "games")
	add(p.Genres.Set, "genres")
	add(p.GameDetails.Set, "gameDetails")
	add(p.SearchResults.Set, "searchResults")
	add(p.Reviews.Set, "reviews")
	add(p.Events.Set, "events")
	add(p.Posts.Set, "posts")
	add(p.Comments.Set, "comments")
	add(p.CurrentPost.Set, "currentPost")
	add(p.CurrentComment.Set, "currentComment")
	add(p.CurrentPage.Set, "currentPage")
	add(p.TotalPages.Set, "totalPages")
	return fields
}

// Empty 补丁是否为空
func (p Patch) Empty() bool {
	return len(p.Fields()) == 0
}
