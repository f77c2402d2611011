package handlers

import (
	"net/http"
	"testing"

	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedGroup(t *testing.T, db *gorm.DB, name, adminID string, private bool, memberIDs ...string) *models.Group {
	g := &models.Group{Name: name, AdminID: adminID, IsPrivate: private}
	assert.NoError(t, db.Create(g).Error)
	for _, id := range memberIDs {
		assert.NoError(t, db.Model(g).Association("Members").Append(&models.User{ID: id}))
	}
	return g
}

func TestInviteToGroup_MembersOnly(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	seedUser(t, db, "u3", "carol")
	group := seedGroup(t, db, "film-noir", "u1", false)

	// An outsider cannot invite
	c, w := testContext("u2", gin.Param{Key: "id", Value: group.ID})
	withJSONBody(c, map[string]string{"userId": "u3"})
	InviteToGroup(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The admin can
	c, w = testContext("u1", gin.Param{Key: "id", Value: group.ID})
	withJSONBody(c, map[string]string{"userId": "u3"})
	InviteToGroup(c)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.True(t, isPendingMember(group.ID, "u3"))
	assert.Equal(t, int64(1), notificationCount(db, "u3", models.NotificationTypeGroupInvite))
}

func TestInviteToGroup_ExistingMemberRejected(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	group := seedGroup(t, db, "film-noir", "u1", false, "u2")

	c, w := testContext("u1", gin.Param{Key: "id", Value: group.ID})
	withJSONBody(c, map[string]string{"userId": "u2"})
	InviteToGroup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAcceptGroupInvite(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	invitee := seedUser(t, db, "u2", "bob")
	group := seedGroup(t, db, "film-noir", "u1", false)
	assert.NoError(t, db.Model(group).Association("PendingMembers").Append(invitee))

	c, w := testContext("u2", gin.Param{Key: "id", Value: group.ID})
	AcceptGroupInvite(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, isGroupMember(group.ID, "u2"))
	assert.False(t, isPendingMember(group.ID, "u2"))
	assert.Equal(t, int64(1), notificationCount(db, "u1", models.NotificationTypeGroupJoined))
}

func TestAcceptGroupInvite_NoInvitation(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	group := seedGroup(t, db, "film-noir", "u1", false)

	c, w := testContext("u2", gin.Param{Key: "id", Value: group.ID})
	AcceptGroupInvite(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinGroup_PublicAdmitsDirectly(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	group := seedGroup(t, db, "film-noir", "u1", false)

	c, w := testContext("u2", gin.Param{Key: "id", Value: group.ID})
	JoinGroup(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, isGroupMember(group.ID, "u2"))
	assert.Equal(t, int64(1), notificationCount(db, "u1", models.NotificationTypeGroupJoined))
}

func TestJoinGroup_PrivateQueuesRequest(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	group := seedGroup(t, db, "private-club", "u1", true)

	c, w := testContext("u2", gin.Param{Key: "id", Value: group.ID})
	JoinGroup(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, isGroupMember(group.ID, "u2"))
	assert.True(t, isPendingMember(group.ID, "u2"))
	assert.Equal(t, int64(1), notificationCount(db, "u1", models.NotificationTypeGroupJoinRequest))
}

func TestJoinGroup_AlreadyMember(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	group := seedGroup(t, db, "film-noir", "u1", false, "u2")

	c, w := testContext("u2", gin.Param{Key: "id", Value: group.ID})
	JoinGroup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAcceptJoinRequest_AdminOnly(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	requester := seedUser(t, db, "u3", "carol")
	group := seedGroup(t, db, "private-club", "u1", true, "u2")
	assert.NoError(t, db.Model(group).Association("PendingMembers").Append(requester))

	// A regular member cannot review requests
	c, w := testContext("u2", gin.Param{Key: "id", Value: group.ID}, gin.Param{Key: "userId", Value: "u3"})
	AcceptJoinRequest(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext("u1", gin.Param{Key: "id", Value: group.ID}, gin.Param{Key: "userId", Value: "u3"})
	AcceptJoinRequest(c)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.True(t, isGroupMember(group.ID, "u3"))
	assert.False(t, isPendingMember(group.ID, "u3"))
	assert.Equal(t, int64(1), notificationCount(db, "u3", models.NotificationTypeGroupRequestAccepted))
}

func TestRejectJoinRequest(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	requester := seedUser(t, db, "u3", "carol")
	group := seedGroup(t, db, "private-club", "u1", true)
	assert.NoError(t, db.Model(group).Association("PendingMembers").Append(requester))

	c, w := testContext("u1", gin.Param{Key: "id", Value: group.ID}, gin.Param{Key: "userId", Value: "u3"})
	RejectJoinRequest(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, isGroupMember(group.ID, "u3"))
	assert.False(t, isPendingMember(group.ID, "u3"))
	assert.Equal(t, int64(1), notificationCount(db, "u3", models.NotificationTypeGroupRequestRejected))
}

func TestRemoveGroupMember(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	group := seedGroup(t, db, "film-noir", "u1", false, "u2")

	// A member cannot remove anyone
	c, w := testContext("u2", gin.Param{Key: "id", Value: group.ID}, gin.Param{Key: "userId", Value: "u2"})
	RemoveGroupMember(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext("u1", gin.Param{Key: "id", Value: group.ID}, gin.Param{Key: "userId", Value: "u2"})
	RemoveGroupMember(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, isGroupMember(group.ID, "u2"))

	// Removal arrives as a system notification without a sender
	var n models.Notification
	assert.NoError(t, db.First(&n, "recipient_id = ? AND type = ?", "u2", models.NotificationTypeGroupRemoved).Error)
	assert.Nil(t, n.SenderID)
	assert.Equal(t, "You were removed from the group.", n.Message)
}

func TestRemoveGroupMember_AdminCannotBeRemoved(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	group := seedGroup(t, db, "film-noir", "u1", false)

	c, w := testContext("u1", gin.Param{Key: "id", Value: group.ID}, gin.Param{Key: "userId", Value: "u1"})
	RemoveGroupMember(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddWatchlistItem_MemberNotifiesAdmin(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	group := seedGroup(t, db, "film-noir", "u1", false, "u2")

	c, w := testContext("u2", gin.Param{Key: "id", Value: group.ID})
	withJSONBody(c, map[string]interface{}{
		"tmdbId":    550,
		"tmdbType":  "movie",
		"tmdbTitle": "Fight Club",
	})
	AddWatchlistItem(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var item models.GroupWatchlistItem
	assert.NoError(t, db.First(&item, "group_id = ?", group.ID).Error)
	assert.Equal(t, 550, item.TmdbID)
	assert.Equal(t, "u2", item.AddedByID)

	assert.Equal(t, int64(1), notificationCount(db, "u1", models.NotificationTypeGroupWatchlistAdd))
}

func TestAddWatchlistItem_AdminAddsSilently(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	group := seedGroup(t, db, "film-noir", "u1", false)

	c, w := testContext("u1", gin.Param{Key: "id", Value: group.ID})
	withJSONBody(c, map[string]interface{}{
		"tmdbId":    603,
		"tmdbType":  "movie",
		"tmdbTitle": "The Matrix",
	})
	AddWatchlistItem(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), notificationCount(db, "u1", models.NotificationTypeGroupWatchlistAdd))
}

func TestAddWatchlistItem_InvalidType(t *testing.T) {
	db := setupTest(t)
	seedUser(t, db, "u1", "alice")
	group := seedGroup(t, db, "film-noir", "u1", false)

	c, w := testContext("u1", gin.Param{Key: "id", Value: group.ID})
	withJSONBody(c, map[string]interface{}{
		"tmdbId":    1,
		"tmdbType":  "book",
		"tmdbTitle": "Not a movie",
	})
	AddWatchlistItem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.GroupWatchlistItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
