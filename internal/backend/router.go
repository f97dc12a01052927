// Package backend is the development stand-in for the external chat
// service: the REST surface, an in-memory store, a realtime fan-out hub
// and a canned agent responder.
package backend

import (
	"github.com/gin-gonic/gin"

	"github.com/dkeye/Chat/internal/config"
)

func SetupRouter(cfg config.ServerConfig, h *Handlers) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.POST("/createRoom", h.CreateRoom)
	r.POST("/getToken", h.GetToken)
	r.POST("/joinRoom", h.JoinRoom)
	r.GET("/listRooms", h.ListRooms)
	r.POST("/deleteRoom", h.DeleteRoom)
	r.POST("/listParticipants", h.ListParticipants)
	r.POST("/removeParticipant", h.RemoveParticipant)
	r.POST("/moveParticipant", h.MoveParticipant)
	r.POST("/checkUsername", h.CheckUsername)
	r.POST("/chat", h.Chat)
	r.GET("/ws", h.Realtime)

	return r
}
