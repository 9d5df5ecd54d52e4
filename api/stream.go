package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/snake-grid/session"
	"github.com/hoshinonyaruko/snake-grid/snake"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const writeWait = 2 * time.Second

// keyMessage 客户端发来的按键 key优先于name
type keyMessage struct {
	Key  *int   `json:"key"`
	Name string `json:"name"`
}

type startedMessage struct {
	Started bool `json:"started"`
}

// Stream 每次tick后推送快照 同时把客户端的按键转给会话
func Stream(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookup(c, m)
		if !ok {
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Error upgrading: %s", err)
			return
		}
		defer conn.Close()

		sub, cancel := s.Subscribe()
		defer cancel()

		// 连接建立后先发一帧当前画面
		out := make(chan any, 4)
		out <- s.Snapshot()

		readDone := make(chan struct{})
		go func() {
			defer close(readDone)
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				var km keyMessage
				if err := json.Unmarshal(msg, &km); err != nil {
					log.Printf("session %s: bad message from %s: %v", s.ID, conn.RemoteAddr(), err)
					continue
				}
				code, ok := km.code()
				if !ok {
					continue
				}
				if code == snake.KeyEscape {
					m.Remove(s.ID)
					return
				}
				select {
				case out <- startedMessage{Started: s.Key(code)}:
				default:
				}
			}
		}()

		for {
			select {
			case snap, ok := <-sub.C:
				if !ok {
					// 会话已关闭
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
						time.Now().Add(writeWait))
					return
				}
				if err := writeJSON(conn, snap); err != nil {
					return
				}
			case msg := <-out:
				if err := writeJSON(conn, msg); err != nil {
					return
				}
			case <-readDone:
				return
			}
		}
	}
}

func (km keyMessage) code() (int, bool) {
	if km.Key != nil {
		return *km.Key, true
	}
	if km.Name != "" {
		return snake.KeyByName(km.Name)
	}
	return 0, false
}

func writeJSON(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
