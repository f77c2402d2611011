package handlers

import (
	"net/http"
	"testing"

	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetNotifications_OnlyOwn(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")

	assert.NoError(t, db.Create(&models.Notification{RecipientID: "u1", Type: models.NotificationTypeAdminMessage, Message: "for alice"}).Error)
	assert.NoError(t, db.Create(&models.Notification{RecipientID: "u2", Type: models.NotificationTypeAdminMessage, Message: "for bob"}).Error)

	c, w := testContext("u1")
	GetNotifications(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	notifications := body["notifications"].([]interface{})
	assert.Len(t, notifications, 1)
	first := notifications[0].(map[string]interface{})
	assert.Equal(t, "for alice", first["message"])
}

func TestGetUnreadCount(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")

	assert.NoError(t, db.Create(&models.Notification{RecipientID: "u1", Type: models.NotificationTypeAdminMessage, Message: "one"}).Error)
	assert.NoError(t, db.Create(&models.Notification{RecipientID: "u1", Type: models.NotificationTypeAdminMessage, Message: "two"}).Error)
	assert.NoError(t, db.Create(&models.Notification{RecipientID: "u1", Type: models.NotificationTypeAdminMessage, Message: "seen", Read: true}).Error)

	c, w := testContext("u1")
	GetUnreadCount(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["count"])
}

func TestMarkNotificationRead_OwnerOnly(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")

	n := models.Notification{RecipientID: "u1", Type: models.NotificationTypeAdminMessage, Message: "hi"}
	assert.NoError(t, db.Create(&n).Error)

	// Someone else's notification is off limits
	c, w := testContext("u2", gin.Param{Key: "id", Value: n.ID})
	MarkNotificationRead(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext("u1", gin.Param{Key: "id", Value: n.ID})
	MarkNotificationRead(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Notification
	assert.NoError(t, db.First(&updated, "id = ?", n.ID).Error)
	assert.True(t, updated.Read)
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")

	c, w := testContext("u1", gin.Param{Key: "id", Value: "missing"})
	MarkNotificationRead(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")

	assert.NoError(t, db.Create(&models.Notification{RecipientID: "u1", Type: models.NotificationTypeAdminMessage, Message: "one"}).Error)
	assert.NoError(t, db.Create(&models.Notification{RecipientID: "u1", Type: models.NotificationTypeAdminMessage, Message: "two"}).Error)
	assert.NoError(t, db.Create(&models.Notification{RecipientID: "u2", Type: models.NotificationTypeAdminMessage, Message: "other"}).Error)

	c, w := testContext("u1")
	MarkAllNotificationsRead(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var unread int64
	db.Model(&models.Notification{}).Where("recipient_id = ? AND read = ?", "u1", false).Count(&unread)
	assert.Equal(t, int64(0), unread)

	// Another user's notifications are untouched
	db.Model(&models.Notification{}).Where("recipient_id = ? AND read = ?", "u2", false).Count(&unread)
	assert.Equal(t, int64(1), unread)
}

func TestDeleteNotification_OwnerOnly(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")

	n := models.Notification{RecipientID: "u1", Type: models.NotificationTypeAdminMessage, Message: "hi"}
	assert.NoError(t, db.Create(&n).Error)

	c, w := testContext("u2", gin.Param{Key: "id", Value: n.ID})
	DeleteNotification(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext("u1", gin.Param{Key: "id", Value: n.ID})
	DeleteNotification(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
