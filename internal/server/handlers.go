package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/malphas-lang/humanabi"
	"github.com/malphas-lang/humanabi/internal/diag"
	"github.com/malphas-lang/humanabi/internal/metrics"
	"github.com/malphas-lang/humanabi/item"
)

type sourceRequest struct {
	Source   string `json:"source" binding:"required"`
	Filename string `json:"filename"`
}

type parametersRequest struct {
	sourceRequest
	Event bool `json:"event"`
}

// errorBody is the wire form of a diagnostic.
type errorBody struct {
	Stage   string   `json:"stage,omitempty"`
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message"`
	Line    int      `json:"line,omitempty"`
	Column  int      `json:"column,omitempty"`
	Offset  int      `json:"offset"`
	Notes   []string `json:"notes,omitempty"`
	Help    string   `json:"help,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "cached": s.cache.len()})
}

func (s *Server) handleParse(c *gin.Context) {
	var req sourceRequest
	if !s.bind(c, &req) {
		return
	}
	r := s.compile(req)
	if r.err != nil {
		s.fail(c, r.err)
		return
	}
	items := r.items
	if items == nil {
		items = item.List{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleSelectors(c *gin.Context) {
	var req sourceRequest
	if !s.bind(c, &req) {
		return
	}
	r := s.compile(req)
	if r.err != nil {
		s.fail(c, r.err)
		return
	}
	selectors := r.items.Selectors()
	if selectors == nil {
		selectors = []item.SelectorEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"selectors": selectors})
}

func (s *Server) handleParameters(c *gin.Context) {
	var req parametersRequest
	if !s.bind(c, &req) {
		return
	}
	r := s.compileParameters(req)
	if r.err != nil {
		s.fail(c, r.err)
		return
	}
	params := r.params
	if params == nil {
		params = []item.Parameter{}
	}
	c.JSON(http.StatusOK, gin.H{"parameters": params})
}

func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Message: err.Error()}})
		return false
	}
	return true
}

// fail reports a compile error as 422 with its diagnostic.
func (s *Server) fail(c *gin.Context, err error) {
	d, ok := diag.From(err)
	if !ok {
		s.logger.Error("compile failed without diagnostic", zap.String("request_id", getRequestID(c)), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errorBody{Message: err.Error()}})
		return
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": errorBody{
		Stage:   string(d.Stage),
		Code:    string(d.Code),
		Message: d.Message,
		Line:    d.Span.Line,
		Column:  d.Span.Column,
		Offset:  d.Span.Start,
		Notes:   d.Notes,
		Help:    d.Help,
	}})
}

func (s *Server) options(filename string) []humanabi.Option {
	return []humanabi.Option{
		humanabi.WithFilename(filename),
		humanabi.WithMaxNodes(s.opts.Parser.MaxNodes),
		humanabi.WithMaxTokens(s.opts.Parser.MaxTokens),
		humanabi.WithLogger(s.logger),
	}
}

func (s *Server) compile(req sourceRequest) result {
	key := cacheKey("items", req.Filename, req.Source)
	if r, ok := s.cache.get(key); ok {
		s.metrics.CacheHit()
		return r
	}
	s.metrics.CacheMiss()

	start := time.Now()
	opts := s.options(req.Filename)
	var (
		r     result
		nodes int
	)
	tree, err := humanabi.ParseTree(req.Source, opts...)
	if err == nil {
		nodes = tree.Len()
		r.items, err = humanabi.Bind(tree, opts...)
	}
	r.err = err
	s.metrics.ObserveParse(outcome(err), time.Since(start), nodes)
	s.metrics.ObserveItems(r.items)

	s.cache.add(key, r)
	return r
}

func (s *Server) compileParameters(req parametersRequest) result {
	kind, parse := "params", humanabi.ParseParameters
	if req.Event {
		kind, parse = "events", humanabi.ParseEventParameters
	}
	key := cacheKey(kind, req.Filename, req.Source)
	if r, ok := s.cache.get(key); ok {
		s.metrics.CacheHit()
		return r
	}
	s.metrics.CacheMiss()

	start := time.Now()
	params, err := parse(req.Source, s.options(req.Filename)...)
	s.metrics.ObserveParse(outcome(err), time.Since(start), 0)

	r := result{params: params, err: err}
	s.cache.add(key, r)
	return r
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, humanabi.ErrCapacity):
		return metrics.OutcomeCapacity
	case errors.Is(err, humanabi.ErrParsing):
		return metrics.OutcomeParse
	default:
		return metrics.OutcomeBind
	}
}
