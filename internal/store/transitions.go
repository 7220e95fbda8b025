package store

import "github.com/wfunc/game-community/internal/models"

// 状态转换：(当前状态, 输入) -> 补丁
// 这里不做任何I/O，网络请求由service层通过adapter完成

// UserLoaded 当前用户加载成功
func UserLoaded(user *models.User) Patch {
	return Patch{
		CurrentUser:   Some(user),
		IsLoggedIn:    Some(true),
		IsLoadingUser: Some(false),
	}
}

// UserCleared 没有令牌或加载当前用户失败
func UserCleared() Patch {
	return Patch{
		CurrentUser:   Some[*models.User](nil),
		IsLoggedIn:    Some(false),
		IsLoadingUser: Some(false),
	}
}

// LoggedOut 注销
func LoggedOut() Patch {
	return Patch{
		CurrentUser: Some[*models.User](nil),
		IsLoggedIn:  Some(false),
	}
}

// ProfileUpdated 头像更新后替换当前用户
func ProfileUpdated(user *models.User) Patch {
	return Patch{CurrentUser: Some(user)}
}

// UsersLoaded 用户列表
func UsersLoaded(users []models.User) Patch {
	return Patch{Users: Some(users)}
}

// SearchResultsLoaded 搜索结果只保留id与名称
func SearchResultsLoaded(games []models.Game) Patch {
	results := make([]models.SearchResult, 0, len(games))
	for _, g := range games {
		results = append(results, models.SearchResult{ID: g.ID, Name: g.Name})
	}
	return Patch{SearchResults: Some(results)}
}

// GamesLoaded 替换游戏列表
func GamesLoaded(games []models.Game) Patch {
	return Patch{Games: Some(games)}
}

// NextGamesPage 根据已加载数量计算下一页页码
func NextGamesPage(s State) int {
	return len(s.Games)/models.CatalogPageSize + 1
}

// MoreGamesLoaded 追加一页游戏
func MoreGamesLoaded(s State, games []models.Game) Patch {
	return Patch{Games: Some(Append(s.Games, games...))}
}

// GenresLoaded 游戏类型
func GenresLoaded(genres []models.Genre) Patch {
	return Patch{Genres: Some(genres)}
}

// GameDetailsLoaded 游戏详情
func GameDetailsLoaded(detail *models.GameDetail) Patch {
	return Patch{GameDetails: Some(detail)}
}

// ReviewsFetched 全部评测，不再分页，固定为第1页共1页
func ReviewsFetched(reviews []models.Review) Patch {
	return Patch{
		Reviews:     Some(reviews),
		CurrentPage: Some(1),
		TotalPages:  Some(1),
	}
}

// ReviewsLoaded 某个游戏的评测
func ReviewsLoaded(reviews []models.Review) Patch {
	return Patch{Reviews: Some(reviews)}
}

// ReviewAdded 合并新建的评测，已加载的列表属于其它游戏时不合并
func ReviewAdded(s State, gameID int, review models.Review) Patch {
	for _, r := range s.Reviews {
		if r.GameID != gameID {
			return Patch{}
		}
	}
	return Patch{Reviews: Some(UpsertByID(s.Reviews, review))}
}

// ReviewUpdated 替换同ID的评测
func ReviewUpdated(s State, review models.Review) Patch {
	return Patch{Reviews: Some(ReplaceByID(s.Reviews, review))}
}

// ReviewDeleted 删除评测
func ReviewDeleted(s State, id int) Patch {
	return Patch{Reviews: Some(RemoveByID(s.Reviews, id))}
}

// EventsLoaded 活动列表
func EventsLoaded(events []models.Event) Patch {
	return Patch{Events: Some(events)}
}

// EventCreated 合并新建的活动
func EventCreated(s State, event models.Event) Patch {
	return Patch{Events: Some(UpsertByID(s.Events, event))}
}

// EventUpdated 替换同ID的活动
func EventUpdated(s State, event models.Event) Patch {
	return Patch{Events: Some(ReplaceByID(s.Events, event))}
}

// EventDeleted 删除活动
func EventDeleted(s State, id int) Patch {
	return Patch{Events: Some(RemoveByID(s.Events, id))}
}

// PostsLoaded 帖子列表
func PostsLoaded(posts []models.Post) Patch {
	return Patch{Posts: Some(posts)}
}

// PostLoaded 当前查看的帖子
func PostLoaded(post *models.Post) Patch {
	return Patch{CurrentPost: Some(post)}
}

// PostSaved 合并新建或更新后的帖子
func PostSaved(s State, post models.Post) Patch {
	p := Patch{Posts: Some(UpsertByID(s.Posts, post))}
	if s.CurrentPost != nil && s.CurrentPost.ID == post.ID {
		saved := post
		p.CurrentPost = Some(&saved)
	}
	return p
}

// PostDeleted 删除帖子
func PostDeleted(s State, id int) Patch {
	p := Patch{Posts: Some(RemoveByID(s.Posts, id))}
	if s.CurrentPost != nil && s.CurrentPost.ID == id {
		p.CurrentPost = Some[*models.Post](nil)
	}
	return p
}

// CommentsLoaded 评论列表
func CommentsLoaded(comments []models.Comment) Patch {
	return Patch{Comments: Some(comments)}
}

// CommentLoaded 当前查看的评论
func CommentLoaded(comment *models.Comment) Patch {
	return Patch{CurrentComment: Some(comment)}
}

// CommentSaved 合并新建或更新后的评论
func CommentSaved(s State, comment models.Comment) Patch {
	p := Patch{Comments: Some(UpsertByID(s.Comments, comment))}
	if s.CurrentComment != nil && s.CurrentComment.ID == comment.ID {
		saved := comment
		p.CurrentComment = Some(&saved)
	}
	return p
}

// CommentDeleted 删除评论
func CommentDeleted(s State, id int) Patch {
	p := Patch{Comments: Some(RemoveByID(s.Comments, id))}
	if s.CurrentComment != nil && s.CurrentComment.ID == id {
		p.CurrentComment = Some[*models.Comment](nil)
	}
	return p
}

// MessageLoaded 后端问候消息
func MessageLoaded(message string) Patch {
	return Patch{Message: Some(message)}
}
