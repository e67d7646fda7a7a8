package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avkram/accountd/internal/errs"
	"github.com/avkram/accountd/internal/model"
	"github.com/avkram/accountd/internal/repository"
	"github.com/avkram/accountd/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type paginatedResponse struct {
	Items   []model.UserView `json:"items"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Total   int              `json:"total"`
}

type batchOutcomeResponse struct {
	User  *model.UserView `json:"user,omitempty"`
	Error string          `json:"error,omitempty"`
}

func (s *Server) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	u, err := s.accounts.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u.View()})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	tok, err := s.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

func (s *Server) me(c *gin.Context) {
	tok, ok := bearerToken(c)
	if !ok {
		s.writeError(c, errs.ErrUnauthorized)
		return
	}
	u, err := s.accounts.Me(c.Request.Context(), tok)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.View()})
}

func (s *Server) logout(c *gin.Context) {
	tok, ok := bearerToken(c)
	if !ok {
		s.writeError(c, errs.ErrUnauthorized)
		return
	}
	if err := s.accounts.Logout(c.Request.Context(), tok); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listUsers(c *gin.Context) {
	opts := repository.ListOptions{
		Page:    intQuery(c, "page", 1),
		PerPage: intQuery(c, "per_page", 20),
	}.Clamp(s.maxPageSize)
	users, total, err := s.accounts.ListUsers(c.Request.Context(), opts)
	if err != nil {
		s.writeError(c, err)
		return
	}
	items := make([]model.UserView, len(users))
	for i := range users {
		items[i] = users[i].View()
	}
	c.JSON(http.StatusOK, paginatedResponse{Items: items, Page: opts.Page, PerPage: opts.PerPage, Total: total})
}

func (s *Server) stats(c *gin.Context) {
	stats, err := s.accounts.Stats(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) batchRegister(c *gin.Context) {
	var reqs []credentialsRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	items := make([]service.BatchItem, len(reqs))
	for i, r := range reqs {
		items[i] = service.BatchItem{Email: r.Email, Secret: r.Password}
	}
	outcomes := s.batch.RegisterMany(c.Request.Context(), items)
	resp := make([]batchOutcomeResponse, len(outcomes))
	for i, o := range outcomes {
		if o.Err != "" {
			resp[i] = batchOutcomeResponse{Error: o.Err}
			continue
		}
		view := o.User.View()
		resp[i] = batchOutcomeResponse{User: &view}
	}
	c.JSON(http.StatusOK, gin.H{"results": resp})
}

func (s *Server) health(c *gin.Context) {
	ctx := c.Request.Context()
	components := gin.H{}
	healthy := true
	if s.dbPing != nil {
		ok := s.dbPing(ctx) == nil
		components["postgres"] = ok
		healthy = healthy && ok
	}
	if s.redisPing != nil {
		ok := s.redisPing(ctx) == nil
		components["redis"] = ok
		healthy = healthy && ok
	}
	if !healthy {
		components["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, components)
		return
	}
	components["status"] = "ok"
	c.JSON(http.StatusOK, components)
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	tok, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	return tok, ok && tok != ""
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// writeError maps sentinel kinds to status codes. Internal kinds log with the
// cause; the client only sees the kind.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	default:
		s.log.Error("internal", zap.Error(err), zap.String("path", c.Request.URL.Path))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
