package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-grid/session"
	"github.com/hoshinonyaruko/snake-grid/snake"
)

// Register 挂载所有路由
func Register(router gin.IRouter, m *session.Manager) {
	router.POST("/sessions", CreateSession(m))
	router.DELETE("/sessions/:id", DeleteSession(m))
	router.POST("/sessions/:id/key", PressKey(m))
	router.POST("/sessions/:id/pause", TogglePause(m))
	router.POST("/sessions/:id/advance", Advance(m))
	router.GET("/sessions/:id/snapshot", Snapshot(m))
	router.GET("/sessions/:id/ws", Stream(m))
	router.GET("/scores", ListScores(m))
	router.DELETE("/scores", ClearScores(m))
}

func CreateSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var twoPlayer bool
		switch c.DefaultQuery("mode", "one") {
		case "one", "1":
		case "two", "2":
			twoPlayer = true
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be one or two"})
			return
		}

		s, err := m.Create(twoPlayer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, s.Info())
	}
}

func DeleteSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Remove(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
	}
}

// PressKey 接受code=键码或name=按键名 Esc结束会话
func PressKey(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookup(c, m)
		if !ok {
			return
		}
		code, err := keyFromQuery(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if code == snake.KeyEscape {
			m.Remove(s.ID)
			c.JSON(http.StatusOK, gin.H{"started": false, "closed": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"started": s.Key(code)})
	}
}

func TogglePause(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookup(c, m)
		if !ok {
			return
		}
		s.TogglePause()
		c.JSON(http.StatusOK, s.Info())
	}
}

// Advance 手动推进一步 给自己掌握时钟的客户端
func Advance(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookup(c, m)
		if !ok {
			return
		}
		s.Advance()
		c.JSON(http.StatusOK, s.Info())
	}
}

func Snapshot(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookup(c, m)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

func ListScores(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.Scores() == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no score store configured"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": m.Scores().List()})
	}
}

func ClearScores(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.Scores() == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no score store configured"})
			return
		}
		m.Scores().Clear()
		c.JSON(http.StatusOK, gin.H{"records": m.Scores().List()})
	}
}

func lookup(c *gin.Context, m *session.Manager) (*session.Session, bool) {
	s, ok := m.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

func keyFromQuery(c *gin.Context) (int, error) {
	if raw := c.Query("code"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("code must be an integer key code")
		}
		return code, nil
	}
	if name := c.Query("name"); name != "" {
		code, ok := snake.KeyByName(name)
		if !ok {
			return 0, fmt.Errorf("unknown key name '%s'", name)
		}
		return code, nil
	}
	return 0, fmt.Errorf("Missing required query parameters: code or name")
}
