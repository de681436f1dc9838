package emulator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/gaposa/pkg/backend"
	"github.com/urmzd/gaposa/pkg/model"
)

// Handler serves the emulator over the control service's HTTP surface, so
// backend.Client can talk to it. Any bearer token is accepted; requests act
// for the signed-in account.
func (e *Emulator) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/v1/login", func(c *gin.Context) {
		resp, err := e.Login(c.Request.Context())
		respond(c, resp, err)
	})
	r.GET("/v1/users", func(c *gin.Context) {
		resp, err := e.Users(c.Request.Context(), clientAuth(c))
		respond(c, resp, err)
	})
	r.POST("/control", func(c *gin.Context) {
		var req model.ControlRequest
		if !bindPayload(c, &req) {
			return
		}
		resp, err := e.Control(c.Request.Context(), clientAuth(c), req)
		respond(c, resp, err)
	})
	r.PUT("/v1/schedules", func(c *gin.Context) {
		var req model.ScheduleRequest
		if !bindPayload(c, &req) {
			return
		}
		ctx, auth := c.Request.Context(), clientAuth(c)
		var (
			resp *model.ScheduleResponse
			err  error
		)
		if req.Schedule.ID == "" {
			resp, err = e.AddSchedule(ctx, auth, req.Serial, req.Schedule)
		} else {
			resp, err = e.UpdateSchedule(ctx, auth, req.Serial, req.Schedule)
		}
		respond(c, resp, err)
	})
	r.DELETE("/v1/schedules", func(c *gin.Context) {
		var req model.ScheduleRequest
		if !bindPayload(c, &req) {
			return
		}
		resp, err := e.DeleteSchedule(c.Request.Context(), clientAuth(c), req.Serial, req.Schedule.ID)
		respond(c, resp, err)
	})
	r.PUT("/v1/schedules/event", func(c *gin.Context) {
		var req model.ScheduleEventRequest
		if !bindPayload(c, &req) {
			return
		}
		if req.Event == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event required"})
			return
		}
		resp, err := e.UpdateScheduleEvent(c.Request.Context(), clientAuth(c), req.Serial, req.Schedule.ID, req.Schedule.Mode, *req.Event)
		respond(c, resp, err)
	})
	r.DELETE("/v1/schedules/event", func(c *gin.Context) {
		var req model.ScheduleEventRequest
		if !bindPayload(c, &req) {
			return
		}
		resp, err := e.DeleteScheduleEvent(c.Request.Context(), clientAuth(c), req.Serial, req.Schedule.ID, req.Schedule.Mode)
		respond(c, resp, err)
	})

	return r
}

func clientAuth(c *gin.Context) model.ClientAuth {
	var auth model.ClientAuth
	if h := c.GetHeader("Auth"); h != "" {
		_ = json.Unmarshal([]byte(h), &auth)
	}
	return auth
}

func bindPayload(c *gin.Context, payload any) bool {
	env := model.Envelope{Payload: payload}
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func respond(c *gin.Context, resp any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, resp)
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Body})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
