package handler

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/helpdesk/helpdesk/internal/helprequest"
	"github.com/helpdesk/helpdesk/internal/helprequest/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	listTemplate   = "helprequests.html"
	recordTemplate = "helprequest.html"
)

// Templates parses the embedded HTML views.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"priorityName": helprequest.PriorityName,
	}).ParseFS(templateFS, "templates/*.html"))
}

type priorityOption struct {
	Index int
	Name  string
}

// prioritiesHighestFirst is the enumeration the record view offers for updates.
func prioritiesHighestFirst() []priorityOption {
	out := make([]priorityOption, 0, len(helprequest.Priorities))
	for i := len(helprequest.Priorities) - 1; i >= 0; i-- {
		out = append(out, priorityOption{Index: i, Name: helprequest.Priorities[i]})
	}
	return out
}

type createRequest struct {
	From        string `form:"from" json:"from"`
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

type updateRequest struct {
	Priority priorityParam `form:"priority" json:"priority"`
	Comment  string        `form:"comment" json:"comment"`
}

// priorityParam is an optional integer taken from a form value, a JSON number
// or a numeric JSON string. A present but empty value is rejected.
type priorityParam struct {
	value int
	set   bool
}

// UnmarshalParam implements binding.BindUnmarshaler for form values.
func (p *priorityParam) UnmarshalParam(s string) error { return p.parse(s) }

func (p *priorityParam) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*p = priorityParam{}
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return p.parse(s)
}

func (p *priorityParam) parse(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return &helprequest.ValidationError{Field: "priority", Reason: "must be an integer"}
	}
	*p = priorityParam{value: n, set: true}
	return nil
}

// or returns the parsed priority, or def when none was sent.
func (p priorityParam) or(def int) int {
	if p.set {
		return p.value
	}
	return def
}

type listQuery struct {
	Query  string `form:"query"`
	SortBy string `form:"sort_by"`
}

// Middleware is run in front of the help request routes. Write runs on the
// mutating routes only, so an auth guard placed first has already set the
// caller's claims for anything after it.
type Middleware struct {
	Read  []gin.HandlerFunc
	Write []gin.HandlerFunc
}

// RegisterHelpRequestRoutes mounts the help request API on r.
func RegisterHelpRequestRoutes(r *gin.Engine, svc service.Service, mw Middleware) {
	r.SetHTMLTemplate(Templates())
	h := &helpRequestHandler{svc: svc}

	r.GET("/", chain(mw.Read, func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/requests")
	})...)
	r.GET("/requests", chain(mw.Read, h.list)...)
	r.GET("/requests.json", chain(mw.Read, h.listJSON)...)
	r.POST("/requests", chain(mw.Write, h.create)...)
	// "/request/:id.json" cannot be a separate gin route; get() handles the suffix.
	r.GET("/request/:id", chain(mw.Read, h.get)...)
	r.PATCH("/request/:id", chain(mw.Write, h.update)...)
}

func chain(mw []gin.HandlerFunc, last gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, last)
}

type helpRequestHandler struct {
	svc service.Service
}

func (h *helpRequestHandler) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.renderList(c, http.StatusOK, q.Query, q.SortBy)
}

func (h *helpRequestHandler) listJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Snapshot())
}

func (h *helpRequestHandler) create(c *gin.Context) {
	var req createRequest
	if err := bindBody(c, &req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.svc.Create(req.From, req.Title, req.Description); err != nil {
		abortWithError(c, err)
		return
	}
	h.renderList(c, http.StatusCreated, "", helprequest.SortByTime)
}

func (h *helpRequestHandler) get(c *gin.Context) {
	id := c.Param("id")
	if strings.HasSuffix(id, ".json") {
		h.getJSON(c, strings.TrimSuffix(id, ".json"))
		return
	}
	r, err := h.svc.Get(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.renderRecord(c, r)
}

// getJSON returns the record with the dataset's @context merged in.
func (h *helpRequestHandler) getJSON(c *gin.Context, id string) {
	r, err := h.svc.Get(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, withContext(r, h.svc.Context()))
}

func (h *helpRequestHandler) update(c *gin.Context) {
	id := c.Param("id")
	// 404 takes precedence over a malformed body
	if _, err := h.svc.Get(id); err != nil {
		abortWithError(c, err)
		return
	}
	var req updateRequest
	if err := bindBody(c, &req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.svc.Update(id, req.Priority.or(helprequest.PriorityNormal), req.Comment)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.renderRecord(c, r)
}

func (h *helpRequestHandler) renderList(c *gin.Context, status int, text, sortBy string) {
	items, err := h.svc.Query(text, sortBy)
	if err != nil {
		abortWithError(c, err)
		return
	}
	switch c.NegotiateFormat(binding.MIMEHTML, binding.MIMEJSON) {
	case binding.MIMEJSON:
		c.JSON(status, items)
	default:
		c.HTML(status, listTemplate, gin.H{
			"helprequests": items,
			"priorities":   helprequest.Priorities,
			"query":        text,
			"sortBy":       sortBy,
		})
	}
}

func (h *helpRequestHandler) renderRecord(c *gin.Context, r *helprequest.HelpRequest) {
	switch c.NegotiateFormat(binding.MIMEHTML, binding.MIMEJSON) {
	case binding.MIMEJSON:
		c.JSON(http.StatusOK, r)
	default:
		c.HTML(http.StatusOK, recordTemplate, gin.H{
			"helprequest": r,
			"priorities":  prioritiesHighestFirst(),
		})
	}
}

// bindBody binds a form or JSON body; an empty body leaves dst untouched.
func bindBody(c *gin.Context, dst interface{}) error {
	err := c.ShouldBind(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(helprequest.StatusOf(err), gin.H{"error": err.Error()})
}

func withContext(r *helprequest.HelpRequest, ldContext json.RawMessage) map[string]interface{} {
	out := map[string]interface{}{
		"id":          r.ID,
		"from":        r.From,
		"title":       r.Title,
		"description": r.Description,
		"time":        r.Time,
		"priority":    r.Priority,
		"comments":    r.Comments,
		"@context":    ldContext,
	}
	if r.LDID != "" {
		out["@id"] = r.LDID
	}
	if r.LDType != "" {
		out["@type"] = r.LDType
	}
	return out
}
