package models

import "encoding/json"

// Review 游戏评测
type Review struct {
	ID       int    `json:"id"`
	GameID   int    `json:"game_id"`
	UserID   int    `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Title    string `json:"title"`
	Comment  string `json:"comment"`

	raw json.RawMessage
}

type reviewAlias Review

// EntityID 实现Identifiable
func (r Review) EntityID() int { return r.ID }

// UnmarshalJSON 保留原始JSON
func (r *Review) UnmarshalJSON(data []byte) (err error) {
	r.raw, err = unmarshalVerbatim(data, (*reviewAlias)(r))
	return err
}

// MarshalJSON 原样输出上游JSON
func (r Review) MarshalJSON() ([]byte, error) {
	return marshalVerbatim(r.raw, reviewAlias(r))
}

// ReviewInput 新建评测
type ReviewInput struct {
	GameID  int    `json:"game_id"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// Event 社区活动
type Event struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	ImageURL    string `json:"image_url,omitempty"`

	raw json.RawMessage
}

type eventAlias Event

// EntityID 实现Identifiable
func (e Event) EntityID() int { return e.ID }

// UnmarshalJSON 保留原始JSON
func (e *Event) UnmarshalJSON(data []byte) (err error) {
	e.raw, err = unmarshalVerbatim(data, (*eventAlias)(e))
	return err
}

// MarshalJSON 原样输出上游JSON
func (e Event) MarshalJSON() ([]byte, error) {
	return marshalVerbatim(e.raw, eventAlias(e))
}

// EventInput 新建或更新活动
type EventInput struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Post 论坛帖子
type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	UserID   int    `json:"user_id,omitempty"`

	raw json.RawMessage
}

type postAlias Post

// EntityID 实现Identifiable
func (p Post) EntityID() int { return p.ID }

// UnmarshalJSON 保留原始JSON
func (p *Post) UnmarshalJSON(data []byte) (err error) {
	p.raw, err = unmarshalVerbatim(data, (*postAlias)(p))
	return err
}

// MarshalJSON 原样输出上游JSON
func (p Post) MarshalJSON() ([]byte, error) {
	return marshalVerbatim(p.raw, postAlias(p))
}

// PostInput 新建或更新帖子
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// Comment 帖子评论
type Comment struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	UserID  int    `json:"user_id,omitempty"`
	PostID  int    `json:"post_id,omitempty"`

	raw json.RawMessage
}

type commentAlias Comment

// EntityID 实现Identifiable
func (c Comment) EntityID() int { return c.ID }

// UnmarshalJSON 保留原始JSON
func (c *Comment) UnmarshalJSON(data []byte) (err error) {
	c.raw, err = unmarshalVerbatim(data, (*commentAlias)(c))
	return err
}

// MarshalJSON 原样输出上游JSON
func (c Comment) MarshalJSON() ([]byte, error) {
	return marshalVerbatim(c.raw, commentAlias(c))
}

// CommentInput 新建或更新评论
type CommentInput struct {
	Content string `json:"content"`
}
