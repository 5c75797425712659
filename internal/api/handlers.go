package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// dateQuery reads an optional YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, key string, def time.Time) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// farmID resolves the :farm path segment, which may be an id or a name.
func (s *Server) farmID(c *gin.Context) (string, bool) {
	f, err := s.svc.Farms.Resolve(c.Request.Context(), c.Param("farm"))
	if err != nil {
		writeError(c, err)
		return "", false
	}
	return f.ID, true
}

func (s *Server) handleToday(c *gin.Context) {
	date, err := dateQuery(c, "date", s.today())
	if err != nil {
		badRequest(c, err)
		return
	}
	farmID, ok := s.farmID(c)
	if !ok {
		return
	}
	resp, err := s.svc.Today.Today(c.Request.Context(), contract.TodayRequest{FarmID: farmID, Date: date})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGaps(c *gin.Context) {
	from, err := dateQuery(c, "from", s.today())
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := dateQuery(c, "to", domain.AddDays(from, s.cfg.GapDays-1))
	if err != nil {
		badRequest(c, err)
		return
	}
	farmID, ok := s.farmID(c)
	if !ok {
		return
	}
	resp, err := s.svc.Gaps.Gaps(c.Request.Context(), contract.GapRequest{FarmID: farmID, From: from, To: to})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type planBody struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	OrderIDs []string `json:"order_ids"`
}

func (s *Server) handlePlan(c *gin.Context) {
	var body planBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
	}
	from := s.today()
	if body.From != "" {
		d, err := domain.ParseDate(body.From)
		if err != nil {
			badRequest(c, fmt.Errorf("from: %w", err))
			return
		}
		from = d
	}
	to := domain.AddDays(from, s.cfg.HorizonDays)
	if body.To != "" {
		d, err := domain.ParseDate(body.To)
		if err != nil {
			badRequest(c, fmt.Errorf("to: %w", err))
			return
		}
		to = d
	}
	farmID, ok := s.farmID(c)
	if !ok {
		return
	}
	resp, err := s.svc.Plan.Plan(c.Request.Context(), contract.PlanRequest{
		FarmID:      farmID,
		WindowStart: from,
		WindowEnd:   to,
		OrderIDs:    body.OrderIDs,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPlanView(resp))
}

func (s *Server) handleDue(c *gin.Context) {
	asOf, err := dateQuery(c, "date", s.today())
	if err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.svc.Trays.DueEvents(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type eventBody struct {
	DayOffset  *int     `json:"day_offset" binding:"required"`
	Kind       string   `json:"kind" binding:"required"`
	YieldGrams *float64 `json:"yield_grams"`
	Note       string   `json:"note"`
}

func (b eventBody) kind() (domain.EventKind, error) {
	if !domain.ValidEventKinds[b.Kind] {
		return "", fmt.Errorf("unknown event kind %q", b.Kind)
	}
	return domain.EventKind(b.Kind), nil
}

func (s *Server) handleComplete(c *gin.Context) {
	var body eventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	kind, err := body.kind()
	if err != nil {
		badRequest(c, err)
		return
	}
	on := s.today()
	err = s.svc.Trays.Complete(c.Request.Context(), contract.CompleteRequest{
		TrayID:      c.Param("id"),
		DayOffset:   *body.DayOffset,
		Kind:        kind,
		YieldGrams:  body.YieldGrams,
		HarvestedOn: &on,
		Note:        body.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSkip(c *gin.Context) {
	var body eventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	kind, err := body.kind()
	if err != nil {
		badRequest(c, err)
		return
	}
	err = s.svc.Trays.Skip(c.Request.Context(), contract.SkipRequest{
		TrayID:    c.Param("id"),
		DayOffset: *body.DayOffset,
		Kind:      kind,
		Note:      body.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSkipOverdue(c *gin.Context) {
	asOf, err := dateQuery(c, "date", s.today())
	if err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.svc.Trays.SkipAllOverdue(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type lostBody struct {
	Reason string `json:"reason" binding:"required"`
	Note   string `json:"note"`
}

func (s *Server) handleLost(c *gin.Context) {
	var body lostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	err := s.svc.Trays.MarkLost(c.Request.Context(), c.Param("id"), domain.LossReason(body.Reason), body.Note)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTimeline(c *gin.Context) {
	view, err := s.svc.Recipes.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
