package handlers

import (
	"log"
	"net/http"

	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/fannypil/MovieSquad/internal/notify"
	"github.com/gin-gonic/gin"
)

func isGroupMember(groupID, userID string) bool {
	var count int64
	database.DB.Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)
	return count > 0
}

func isPendingMember(groupID, userID string) bool {
	var count int64
	database.DB.Table("group_pending_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)
	return count > 0
}

// notifyQuietly creates a notification for a secondary action; a failed
// write is logged, never surfaced to the caller
func notifyQuietly(recipientID string, typ models.NotificationType, opts notify.Options) {
	if _, err := Notifier.Create(recipientID, typ, opts); err != nil {
		log.Printf("%s notification failed: %v", typ, err)
	}
}

// InviteToGroup POST /groups/:id/invite
func InviteToGroup(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	groupID := c.Param("id")

	var body struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	var group models.Group
	if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID && !isGroupMember(groupID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only members can invite to this group"})
		return
	}

	var invitee models.User
	if err := database.DB.First(&invitee, "id = ?", body.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if isGroupMember(groupID, invitee.ID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member"})
		return
	}

	if !isPendingMember(groupID, invitee.ID) {
		if err := database.DB.Model(&group).Association("PendingMembers").Append(&invitee); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invite user"})
			return
		}
	}

	notifyQuietly(invitee.ID, models.NotificationTypeGroupInvite, notify.Options{
		SenderID:   &userID,
		EntityID:   &group.ID,
		EntityType: models.EntityTypeGroup,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Invitation sent"})
}

// AcceptGroupInvite POST /groups/:id/invite/accept
func AcceptGroupInvite(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	groupID := c.Param("id")

	var group models.Group
	if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if !isPendingMember(groupID, userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pending invitation for this group"})
		return
	}

	user := models.User{ID: userID}
	database.DB.Model(&group).Association("PendingMembers").Delete(&user)
	if err := database.DB.Model(&group).Association("Members").Append(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		return
	}

	notifyQuietly(group.AdminID, models.NotificationTypeGroupJoined, notify.Options{
		SenderID:   &userID,
		EntityID:   &group.ID,
		EntityType: models.EntityTypeGroup,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Joined group", "group": group})
}

// JoinGroup POST /groups/:id/join
// Public groups admit directly; private groups queue a join request for the
// admin to review.
func JoinGroup(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	groupID := c.Param("id")

	var group models.Group
	if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID == userID || isGroupMember(groupID, userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are already a member"})
		return
	}

	user := models.User{ID: userID}

	if group.IsPrivate {
		if isPendingMember(groupID, userID) {
			c.JSON(http.StatusOK, gin.H{"message": "Join request already pending"})
			return
		}
		if err := database.DB.Model(&group).Association("PendingMembers").Append(&user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request to join"})
			return
		}

		notifyQuietly(group.AdminID, models.NotificationTypeGroupJoinRequest, notify.Options{
			SenderID:   &userID,
			EntityID:   &group.ID,
			EntityType: models.EntityTypeGroup,
		})

		c.JSON(http.StatusOK, gin.H{"message": "Join request sent"})
		return
	}

	if err := database.DB.Model(&group).Association("Members").Append(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		return
	}

	notifyQuietly(group.AdminID, models.NotificationTypeGroupJoined, notify.Options{
		SenderID:   &userID,
		EntityID:   &group.ID,
		EntityType: models.EntityTypeGroup,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Joined group", "group": group})
}

// AcceptJoinRequest POST /groups/:id/requests/:userId/accept
func AcceptJoinRequest(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	groupID := c.Param("id")
	requesterID := c.Param("userId")

	var group models.Group
	if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can review join requests"})
		return
	}
	if !isPendingMember(groupID, requesterID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending request for this user"})
		return
	}

	requester := models.User{ID: requesterID}
	database.DB.Model(&group).Association("PendingMembers").Delete(&requester)
	if err := database.DB.Model(&group).Association("Members").Append(&requester); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}

	notifyQuietly(requesterID, models.NotificationTypeGroupRequestAccepted, notify.Options{
		SenderID:   &userID,
		EntityID:   &group.ID,
		EntityType: models.EntityTypeGroup,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// RejectJoinRequest POST /groups/:id/requests/:userId/reject
func RejectJoinRequest(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	groupID := c.Param("id")
	requesterID := c.Param("userId")

	var group models.Group
	if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can review join requests"})
		return
	}
	if !isPendingMember(groupID, requesterID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending request for this user"})
		return
	}

	requester := models.User{ID: requesterID}
	database.DB.Model(&group).Association("PendingMembers").Delete(&requester)

	notifyQuietly(requesterID, models.NotificationTypeGroupRequestRejected, notify.Options{
		SenderID:   &userID,
		EntityID:   &group.ID,
		EntityType: models.EntityTypeGroup,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}

// RemoveGroupMember DELETE /groups/:id/members/:userId
func RemoveGroupMember(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	groupID := c.Param("id")
	memberID := c.Param("userId")

	var group models.Group
	if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can remove members"})
		return
	}
	if memberID == group.AdminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The group admin cannot be removed"})
		return
	}
	if !isGroupMember(groupID, memberID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not a member of this group"})
		return
	}

	member := models.User{ID: memberID}
	if err := database.DB.Model(&group).Association("Members").Delete(&member); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	// System notification: no sender attached
	notifyQuietly(memberID, models.NotificationTypeGroupRemoved, notify.Options{
		EntityID:   &group.ID,
		EntityType: models.EntityTypeGroup,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// AddWatchlistItem POST /groups/:id/watchlist
func AddWatchlistItem(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	groupID := c.Param("id")

	var body struct {
		TmdbID         int    `json:"tmdbId" binding:"required"`
		TmdbType       string `json:"tmdbType" binding:"required,oneof=movie tv"`
		TmdbTitle      string `json:"tmdbTitle" binding:"required"`
		TmdbPosterPath string `json:"tmdbPosterPath"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid watchlist item"})
		return
	}

	var group models.Group
	if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID && !isGroupMember(groupID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only members can edit the watchlist"})
		return
	}

	item := models.GroupWatchlistItem{
		GroupID:        group.ID,
		TmdbID:         body.TmdbID,
		TmdbType:       body.TmdbType,
		TmdbTitle:      body.TmdbTitle,
		TmdbPosterPath: body.TmdbPosterPath,
		AddedByID:      userID,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add watchlist item"})
		return
	}

	if userID != group.AdminID {
		notifyQuietly(group.AdminID, models.NotificationTypeGroupWatchlistAdd, notify.Options{
			SenderID:   &userID,
			EntityID:   &group.ID,
			EntityType: models.EntityTypeGroup,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Added to watchlist", "item": item})
}
