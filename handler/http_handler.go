package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"promptui/page"
	"promptui/submitter"
)

// Submitter runs one prompt submission.
type Submitter interface {
	Submit(ctx context.Context, in submitter.Input, out submitter.Output) submitter.Result
}

// PageHandler serves the prompt page and runs submissions against its
// document.
type PageHandler struct {
	Submitter Submitter
	Document  *page.Document
	Endpoint  string
}

// NewPageHandler creates a new PageHandler with an empty document.
func NewPageHandler(s Submitter, endpoint string) *PageHandler {
	return &PageHandler{
		Submitter: s,
		Document:  page.NewDocument(),
		Endpoint:  endpoint,
	}
}

// Router builds the gin engine for the page server.
func (h *PageHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logRequest())

	router.GET("/", h.Index)
	router.POST("/submit", h.SubmitForm)
	router.POST("/api/submit", h.SubmitJSON)
	router.GET("/ping", h.Ping)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// Index renders the page with the current document state.
func (h *PageHandler) Index(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(c.Writer, pageData{
		Endpoint: h.Endpoint,
		Prompt:   h.Document.Prompt.Value(),
		Response: h.Document.Response.Text(),
		Error:    h.Document.Error.Text(),
	})
	if err != nil {
		log.Errorf("Error rendering page: %v", err)
	}
}

// SubmitForm takes the prompt form field, runs the submission against the
// page document, and redirects back to the page.
func (h *PageHandler) SubmitForm(c *gin.Context) {
	in := page.NewTextInput(page.PromptID, c.PostForm("prompt"))
	h.Document.Prompt.SetValue(in.Value())
	res := h.Submitter.Submit(c.Request.Context(), in, h.Document.Response)
	h.showResult(res)
	c.Redirect(http.StatusSeeOther, "/")
}

// SubmitJSON runs a submission for a JSON payload without touching the page
// document.
func (h *PageHandler) SubmitJSON(c *gin.Context) {
	var payload SubmitPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logAndReturnError(c, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON", Kind: "request"}, "Bad Request: invalid JSON: "+err.Error())
		return
	}

	out := page.NewTextElement(page.ResponseID)
	res := h.Submitter.Submit(c.Request.Context(), page.NewTextInput(page.PromptID, payload.Prompt), out)
	if res.Kind == submitter.KindSuperseded {
		log.Debugf("Submission %s superseded", res.ID)
		c.JSON(http.StatusConflict, ErrorResponse{Error: res.Err.Error(), Kind: res.Kind.String()})
		return
	}
	if !res.OK() {
		logAndReturnError(c, http.StatusBadGateway, ErrorResponse{Error: res.Err.Error(), Kind: res.Kind.String()}, "Submission failed: "+res.Err.Error())
		return
	}
	c.JSON(http.StatusOK, SubmitResponse{Response: out.Text()})
}

// Ping reports liveness.
func (h *PageHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PageHandler) showResult(res submitter.Result) {
	switch {
	case res.OK():
		h.Document.Error.SetText("")
	case res.Kind == submitter.KindSuperseded:
		// A newer submission owns the page.
	default:
		h.Document.Error.SetText("Request failed (" + res.Kind.String() + "): " + res.Err.Error())
	}
}
