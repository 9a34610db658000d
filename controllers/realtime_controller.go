package controllers

import (
	"net/http"
	"time"

	"healthtracker/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type RealtimeController struct {
	RT  *services.RealtimeHub
	Log *zap.Logger

	// PingInterval keeps connections alive through proxies.
	PingInterval time.Duration
}

func NewRealtimeController(rt *services.RealtimeHub, log *zap.Logger) *RealtimeController {
	return &RealtimeController{RT: rt, Log: log, PingInterval: 25 * time.Second}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RecordsWS streams record change events until the client goes away.
func (rc *RealtimeController) RecordsWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		rc.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	cl := &services.WSClient{Conn: conn}
	rc.RT.Register(cl)

	done := make(chan struct{})
	defer close(done)

	go func() {
		t := time.NewTicker(rc.PingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := cl.Ping(); err != nil {
					rc.RT.Unregister(cl)
					return
				}
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.RT.Unregister(cl)
			return
		}
	}
}
