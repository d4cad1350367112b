package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Monikarana27/ChatBud/store"
	"github.com/Monikarana27/ChatBud/websocket"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MessageController struct {
	rooms    *store.Rooms
	messages *store.Messages
}

func NewMessageController(rooms *store.Rooms, messages *store.Messages) *MessageController {
	return &MessageController{rooms: rooms, messages: messages}
}

// GetRoomMessages godoc
// @Summary Get message history for a room
// @Description Returns the most recent messages for a room in chronological order
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param room path string true "Room name"
// @Param limit query int false "Maximum messages to return" default(50)
// @Success 200 {object} map[string]interface{} "List of messages"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Server error"
// @Router /api/messages/{room} [get]
func (mc *MessageController) GetRoomMessages(c *gin.Context) {
	roomName := c.Param("room")

	limit := store.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	room, err := mc.rooms.FindByName(roomName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A room exists only once someone has joined or posted to
			// it; an unknown name just has no history yet.
			c.JSON(http.StatusOK, gin.H{"success": true, "messages": []websocket.OutgoingMessage{}})
			return
		}
		log.Printf("history: resolving room %q failed: %v", roomName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch messages"})
		return
	}

	messages, err := mc.messages.RecentForRoom(room.ID, limit)
	if err != nil {
		log.Printf("history: loading messages for %q failed: %v", roomName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": websocket.FormatMessages(messages)})
}
