package service

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// fakeUpstream 模拟社区后端与游戏目录
type fakeUpstream struct {
	mu     sync.Mutex
	calls  map[string]int
	pages  []string
	server *httptest.Server
}

const validToken = "valid-token"

func newFakeUpstream(t *testing.T) *fakeUpstream {
	gin.SetMode(gin.TestMode)
	f := &fakeUpstream{calls: make(map[string]int)}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		f.mu.Lock()
		f.calls[c.Request.Method+" "+c.FullPath()]++
		f.mu.Unlock()
		c.Next()
	})

	api := r.Group("/api")
	api.POST("/login", func(c *gin.Context) {
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		switch req["password"] {
		case "secret":
			c.JSON(http.StatusOK, gin.H{"access_token": validToken})
		case "no-token":
			c.JSON(http.StatusOK, gin.H{})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Usuario o Password erroneos"})
		}
	})
	api.POST("/logout", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "Logout exitoso"})
	})
	api.POST("/signup", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": 9, "username": "new"}})
	})
	api.GET("/current-user", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"current_user": gin.H{"id": 1, "username": "neo", "email": "neo@matrix.io"}})
	})
	api.PUT("/update-avatar", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusOK, gin.H{"id": 1, "username": "neo", "profile_image": req["avatar"]})
	})
	api.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 1, "username": "neo"}, {"id": 2, "username": "trinity"}})
	})

	api.GET("/reviews", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		c.JSON(http.StatusOK, []gin.H{{"id": 1, "game_id": 3, "title": "t", "comment": "c"}})
	})
	api.GET("/reviews/:id", func(c *gin.Context) {
		if c.Param("id") == "500" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, []gin.H{
			{"id": 1, "game_id": 3, "title": "t", "comment": "c"},
			{"id": 5, "game_id": 3, "title": "new", "comment": "fresh"},
		})
	})
	api.POST("/reviews/:id", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		gameID, _ := strconv.Atoi(c.Param("id"))
		c.JSON(http.StatusCreated, gin.H{"id": 5, "game_id": gameID, "title": req["title"], "comment": req["comment"]})
	})
	api.PUT("/reviews/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		if id == 404 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Review not found"})
			return
		}
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusOK, gin.H{"id": id, "game_id": 3, "title": "b", "comment": req["comment"]})
	})
	api.DELETE("/reviews/:id", func(c *gin.Context) {
		if c.Param("id") == "404" {
			c.JSON(http.StatusNotFound, gin.H{"message": "Review not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
	})

	api.GET("/events", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 1, "name": "LAN"}})
	})
	api.POST("/events", func(c *gin.Context) {
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusCreated, gin.H{"id": 10, "name": req["name"], "date": req["date"]})
	})
	api.PUT("/events/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusOK, gin.H{"id": id, "name": req["name"]})
	})
	api.DELETE("/events/:id", func(c *gin.Context) {
		if c.Param("id") == "404" {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
	})
	api.POST("/events/:id/attend", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Asistencia registrada"})
	})

	api.GET("/posts", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 1, "title": "hello", "content": "world"}})
	})
	api.GET("/posts/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"id": id, "title": "hello", "content": "world"})
	})
	api.POST("/posts", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusCreated, gin.H{"id": 2, "title": req["title"], "content": req["content"], "image_url": req["image_url"], "user_id": 1})
	})
	api.PUT("/posts/:id", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		id, _ := strconv.Atoi(c.Param("id"))
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusOK, gin.H{"id": id, "title": req["title"], "content": req["content"]})
	})
	api.DELETE("/posts/:id", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
	})
	api.GET("/posts/:id/comments", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		c.JSON(http.StatusOK, []gin.H{{"id": 7, "content": "nice", "post_id": id}})
	})
	api.POST("/posts/:id/comments", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		id, _ := strconv.Atoi(c.Param("id"))
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusCreated, gin.H{"id": 8, "content": req["content"], "post_id": id})
	})
	api.GET("/comments", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 7, "content": "nice"}})
	})
	api.GET("/comments/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"id": id, "content": "nice"})
	})
	api.PUT("/comments/:id", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		id, _ := strconv.Atoi(c.Param("id"))
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusOK, gin.H{"id": id, "content": req["content"]})
	})
	api.DELETE("/comments/:id", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
	})
	api.GET("/hello", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello! I'm a message that came from the backend"})
	})

	rawg := r.Group("/rawg")
	rawg.GET("/games", func(c *gin.Context) {
		f.mu.Lock()
		f.pages = append(f.pages, c.Query("page"))
		f.mu.Unlock()

		if c.Query("search") == "quota" {
			c.JSON(http.StatusOK, gin.H{"error": "API limit reached"})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		results := make([]gin.H, 0, 20)
		n := 20
		if c.Query("search") != "" {
			n = 2
		}
		for i := 1; i <= n; i++ {
			id := (page-1)*20 + i
			results = append(results, gin.H{"id": id, "name": "Game " + strconv.Itoa(id), "slug": "game-" + strconv.Itoa(id)})
		}
		c.JSON(http.StatusOK, gin.H{"count": 100, "results": results})
	})
	rawg.GET("/games/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"id": id, "name": "Portal", "description_raw": "puzzle"})
	})
	rawg.GET("/genres", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": 1, "results": []gin.H{{"id": 4, "name": "Action"}}})
	})

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func authorized(c *gin.Context) bool {
	if strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ") != validToken {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Token inválido o inexistente"})
		return false
	}
	return true
}

func (f *fakeUpstream) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func (f *fakeUpstream) requestedPages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.pages...)
}

func (f *fakeUpstream) backendURL() string { return f.server.URL }

func (f *fakeUpstream) catalogURL() string { return f.server.URL + "/rawg" }
