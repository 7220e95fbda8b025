package models

import "encoding/json"

// Genre 游戏类型
type Genre struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	GamesCount      int    `json:"games_count,omitempty"`
	ImageBackground string `json:"image_background,omitempty"`

	raw json.RawMessage
}

type genreAlias Genre

// EntityID 实现Identifiable
func (g Genre) EntityID() int { return g.ID }

// UnmarshalJSON 保留原始JSON
func (g *Genre) UnmarshalJSON(data []byte) (err error) {
	g.raw, err = unmarshalVerbatim(data, (*genreAlias)(g))
	return err
}

// MarshalJSON 原样输出上游JSON
func (g Genre) MarshalJSON() ([]byte, error) {
	return marshalVerbatim(g.raw, genreAlias(g))
}

// Game 游戏目录中的游戏（列表项）
type Game struct {
	ID              int     `json:"id"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Released        string  `json:"released,omitempty"`
	BackgroundImage string  `json:"background_image,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
	Metacritic      int     `json:"metacritic,omitempty"`
	Genres          []Genre `json:"genres,omitempty"`

	raw json.RawMessage
}

type gameAlias Game

// EntityID 实现Identifiable
func (g Game) EntityID() int { return g.ID }

// UnmarshalJSON 保留原始JSON
func (g *Game) UnmarshalJSON(data []byte) (err error) {
	g.raw, err = unmarshalVerbatim(data, (*gameAlias)(g))
	return err
}

// MarshalJSON 原样输出上游JSON
func (g Game) MarshalJSON() ([]byte, error) {
	return marshalVerbatim(g.raw, gameAlias(g))
}

// GameDetail 单个游戏详情
type GameDetail struct {
	ID              int     `json:"id"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	DescriptionRaw  string  `json:"description_raw,omitempty"`
	Released        string  `json:"released,omitempty"`
	BackgroundImage string  `json:"background_image,omitempty"`
	Website         string  `json:"website,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
	Metacritic      int     `json:"metacritic,omitempty"`
	Genres          []Genre `json:"genres,omitempty"`

	raw json.RawMessage
}

type gameDetailAlias GameDetail

// UnmarshalJSON 保留原始JSON
func (g *GameDetail) UnmarshalJSON(data []byte) (err error) {
	g.raw, err = unmarshalVerbatim(data, (*gameDetailAlias)(g))
	return err
}

// MarshalJSON 原样输出上游JSON
func (g GameDetail) MarshalJSON() ([]byte, error) {
	return marshalVerbatim(g.raw, gameDetailAlias(g))
}

// SearchResult 搜索结果，只保留id与名称
type SearchResult struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// EntityID 实现Identifiable
func (s SearchResult) EntityID() int { return s.ID }

// CatalogPage 游戏目录的分页响应
type CatalogPage[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

// CatalogPageSize 游戏目录默认每页数量
const CatalogPageSize = 20
