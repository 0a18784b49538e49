package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const requestTimeout = 5 * time.Second

// RosterSource exposes the live roster of a session.
type RosterSource interface {
	List(sid domain.SessionID) []domain.Participant
}

type CreateRequest struct {
	Username string `json:"username" binding:"required,max=36"`
}

type MembershipRequest struct {
	MeetingID string `json:"meetingId" binding:"required,max=64"`
	Username  string `json:"username" binding:"required,max=36"`
}

type RosterResponse struct {
	MeetingID    domain.SessionID     `json:"meetingId"`
	Participants []domain.Participant `json:"participants"`
	Count        int                  `json:"count"`
}

// MeetingHandler serves the meeting-record REST API.
type MeetingHandler struct {
	Store  store.Store
	Roster RosterSource
}

func NewMeetingHandler(s store.Store, roster RosterSource) *MeetingHandler {
	return &MeetingHandler{Store: s, Roster: roster}
}

func (h *MeetingHandler) Register(g *gin.RouterGroup) {
	g.POST("/create", h.create)
	g.POST("/join", h.join)
	g.POST("/leave", h.leave)
	g.GET("/:meetingId", h.get)
	g.GET("/:meetingId/roster", h.roster)
}

func (h *MeetingHandler) create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing or invalid username"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	m, err := h.Store.Create(ctx, req.Username)
	if err != nil {
		h.fail(c, err, "create")
		return
	}
	log.Info().Str("module", "transport.http").Str("meeting", string(m.ID)).Str("by", req.Username).Msg("meeting created")
	c.JSON(http.StatusOK, m)
}

func (h *MeetingHandler) join(c *gin.Context) {
	var req MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "meetingId and username are required"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	m, err := h.Store.AddParticipant(ctx, domain.SessionID(req.MeetingID), req.Username)
	if err != nil {
		h.fail(c, err, "join")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MeetingHandler) leave(c *gin.Context) {
	var req MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "meetingId and username are required"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	m, err := h.Store.RemoveParticipant(ctx, domain.SessionID(req.MeetingID), req.Username)
	if err != nil {
		h.fail(c, err, "leave")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MeetingHandler) get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	m, err := h.Store.Get(ctx, domain.SessionID(c.Param("meetingId")))
	if err != nil {
		h.fail(c, err, "get")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MeetingHandler) roster(c *gin.Context) {
	sid := domain.SessionID(c.Param("meetingId"))
	ps := h.Roster.List(sid)
	if ps == nil {
		ps = []domain.Participant{}
	}
	c.JSON(http.StatusOK, RosterResponse{MeetingID: sid, Participants: ps, Count: len(ps)})
}

func (h *MeetingHandler) fail(c *gin.Context, err error, op string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Meeting not found"})
		return
	}
	log.Error().Err(err).Str("module", "transport.http").Str("op", op).Msg("meeting store")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}
