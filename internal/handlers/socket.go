package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fannypil/MovieSquad/internal/chat"
	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"golang.org/x/time/rate"
)

var SocketServer *socketio.Server

// session is the per-connection state attached once authentication passes.
// A rejected handshake never gets one: no partial session exists.
type session struct {
	userID   string
	username string
	typing   *rate.Limiter
}

func InitSocketServer(registry *chat.Registry, chatService *chat.Service) *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		url := s.URL()

		// Token from query param (most reliable for the ws handshake)
		token := url.Query().Get("token")
		if token == "" {
			token = url.Query().Get("auth_token") // Fallback
		}

		user, err := chat.VerifyIdentity(database.DB, token)
		if err != nil {
			log.Println("Socket connection rejected:", s.ID(), err.Error())
			return fmt.Errorf("authentication error: %s", err.Error())
		}

		s.SetContext(&session{
			userID:   user.ID,
			username: user.Username,
			// Throttle typing signals to one per 3s per connection
			typing: rate.NewLimiter(rate.Every(3*time.Second), 1),
		})

		// Registering also subscribes the connection to its personal
		// channel (room = user id) for notification delivery
		registry.Connect(s, user.ID)

		log.Printf("Socket authenticated: %s user=%s (%s)", s.ID(), user.Username, user.ID)
		return nil
	})

	server.OnEvent("/", "joinGroup", func(s socketio.Conn, groupID string) {
		sess, ok := s.Context().(*session)
		if !ok {
			return
		}
		res, err := chatService.JoinGroup(s.ID(), sess.userID, groupID)
		if err != nil {
			s.Emit("groupError", err.Error())
			return
		}
		s.Emit("joinedGroup", map[string]interface{}{
			"groupId":   res.Group.ID,
			"groupName": res.Group.Name,
			"msg":       fmt.Sprintf("You have joined %q chat.", res.Group.Name),
		})
		s.Emit("chatHistory", map[string]interface{}{
			"groupId":  res.Group.ID,
			"messages": res.Messages,
		})
	})

	server.OnEvent("/", "sendGroupMessage", func(s socketio.Conn, data map[string]interface{}) {
		sess, ok := s.Context().(*session)
		if !ok {
			return
		}
		groupID, _ := data["groupId"].(string)
		content, _ := data["content"].(string)
		if _, err := chatService.SendGroupMessage(sess.userID, groupID, content); err != nil {
			s.Emit("chatError", err.Error())
		}
	})

	server.OnEvent("/", "joinPrivateChat", func(s socketio.Conn, otherUserID string) {
		sess, ok := s.Context().(*session)
		if !ok {
			return
		}
		res, err := chatService.JoinPrivateChat(s.ID(), sess.userID, otherUserID)
		if err != nil {
			s.Emit("privateChatError", err.Error())
			return
		}
		s.Emit("joinedPrivateChat", map[string]interface{}{
			"chatIdentifier": res.ChatIdentifier,
			"otherUser":      res.OtherUser,
		})
		s.Emit("privateChatHistory", map[string]interface{}{
			"chatIdentifier": res.ChatIdentifier,
			"messages":       res.Messages,
		})
	})

	server.OnEvent("/", "sendPrivateMessage", func(s socketio.Conn, data map[string]interface{}) {
		sess, ok := s.Context().(*session)
		if !ok {
			return
		}
		recipientID, _ := data["recipientId"].(string)
		content, _ := data["content"].(string)
		if _, err := chatService.SendPrivateMessage(sess.userID, recipientID, content); err != nil {
			s.Emit("privateChatError", err.Error())
		}
	})

	server.OnEvent("/", "typing", func(s socketio.Conn, data map[string]interface{}) {
		sess, ok := s.Context().(*session)
		if !ok {
			return
		}
		if !sess.typing.Allow() {
			return // Throttled
		}
		chatService.Typing(s.ID(), sess.userID, sess.username, typingTarget(data))
	})

	server.OnEvent("/", "stopTyping", func(s socketio.Conn, data map[string]interface{}) {
		sess, ok := s.Context().(*session)
		if !ok {
			return
		}
		chatService.StopTyping(s.ID(), sess.userID, sess.username, typingTarget(data))
	})

	server.OnEvent("/", "getOnlineUsers", func(s socketio.Conn) {
		if _, ok := s.Context().(*session); !ok {
			return
		}
		s.Emit("onlineUsers", registry.OnlineUsers())
	})

	server.OnEvent("/", "messageRead", func(s socketio.Conn, data map[string]interface{}) {
		sess, ok := s.Context().(*session)
		if !ok {
			return
		}
		messageID, _ := data["messageId"].(string)
		if err := chatService.MarkMessageRead(sess.userID, messageID); err != nil {
			s.Emit("chatError", err.Error())
		}
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		// Cleanup runs unconditionally: all subscriptions die with the
		// connection
		registry.Disconnect(s.ID())
		log.Println("Socket closed:", s.ID(), reason)
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("Socket error:", e)
	})

	go server.Serve()
	SocketServer = server
	return server
}

func typingTarget(data map[string]interface{}) chat.TypingTarget {
	groupID, _ := data["groupId"].(string)
	recipientID, _ := data["recipientId"].(string)
	return chat.TypingTarget{GroupID: groupID, RecipientID: recipientID}
}

// SocketHandler wraps the socket.io server for gin
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
