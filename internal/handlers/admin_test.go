package handlers

import (
	"net/http"
	"testing"

	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSendAdminMessage_SingleRecipient(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "admin1", "root")
	seedUser(t, db, "u2", "bob")

	c, w := testContext("admin1")
	withJSONBody(c, map[string]string{"userId": "u2", "message": "Your account was flagged."})
	SendAdminMessage(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["recipients"])

	var n models.Notification
	assert.NoError(t, db.First(&n, "recipient_id = ?", "u2").Error)
	assert.Equal(t, models.NotificationTypeAdminMessage, n.Type)
	assert.Equal(t, "Your account was flagged.", n.Message)
	assert.Equal(t, "admin1", *n.SenderID)
}

func TestSendAdminMessage_BroadcastSkipsSender(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "admin1", "root")
	seedUser(t, db, "u2", "bob")
	seedUser(t, db, "u3", "carol")

	c, w := testContext("admin1")
	withJSONBody(c, map[string]string{"message": "Scheduled maintenance tonight."})
	SendAdminMessage(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["recipients"])

	assert.Equal(t, int64(1), notificationCount(db, "u2", models.NotificationTypeAdminMessage))
	assert.Equal(t, int64(1), notificationCount(db, "u3", models.NotificationTypeAdminMessage))
	assert.Equal(t, int64(0), notificationCount(db, "admin1", models.NotificationTypeAdminMessage))
}

func TestSendAdminMessage_MessageRequired(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "admin1", "root")

	c, w := testContext("admin1")
	withJSONBody(c, map[string]string{"message": "   "})
	SendAdminMessage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSendAdminMessage_UnknownRecipient(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "admin1", "root")

	c, w := testContext("admin1")
	withJSONBody(c, map[string]string{"userId": "ghost", "message": "hello"})
	SendAdminMessage(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
