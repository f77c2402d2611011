package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fannypil/MovieSquad/internal/chat"
	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/fannypil/MovieSquad/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTest points the package-level DB and Notifier at a fresh in-memory
// SQLite instance for the duration of one test.
func setupTest(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupWatchlistItem{},
		&models.Message{},
		&models.MessageRead{},
		&models.Notification{},
		&models.FriendRequest{},
		&models.Post{},
		&models.PostLike{},
		&models.PostComment{},
	)
	assert.NoError(t, err)

	database.DB = db
	SetNotifier(notify.NewService(db, nil))
	testPresence = chat.NewRegistry()
	SetPresence(testPresence)
	return db
}

// testPresence lets tests mark users online by registering connections.
var testPresence *chat.Registry

type testConn struct{ id string }

func (c *testConn) ID() string { return c.id }

func (c *testConn) Emit(event string, args ...interface{}) {}

func connectUser(userID string) {
	testPresence.Connect(&testConn{id: "conn-" + userID}, userID)
}

func seedUser(t *testing.T, db *gorm.DB, id, username string) *models.User {
	u := &models.User{ID: id, Username: username, Email: username + "@example.com"}
	assert.NoError(t, db.Create(u).Error)
	return u
}

func befriend(t *testing.T, db *gorm.DB, a, b *models.User) {
	assert.NoError(t, db.Model(a).Association("Friends").Append(b))
	assert.NoError(t, db.Model(b).Association("Friends").Append(a))
}

// testContext builds a gin context carrying an authenticated user id,
// mirroring what the auth middleware sets.
func testContext(userID string, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("userId", userID)
	c.Params = params
	return c, w
}

func withJSONBody(c *gin.Context, body interface{}) {
	data, _ := json.Marshal(body)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	c.Request.Header.Set("Content-Type", "application/json")
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeInto(w *httptest.ResponseRecorder, out interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), out)
}

func notificationCount(db *gorm.DB, recipientID string, typ models.NotificationType) int64 {
	var count int64
	db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", recipientID, typ).
		Count(&count)
	return count
}
