package server

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lmoreno/pbigen/internal/azdo"
	"github.com/lmoreno/pbigen/internal/core"
	"github.com/lmoreno/pbigen/internal/llm"
	"github.com/lmoreno/pbigen/internal/logger"
	"github.com/lmoreno/pbigen/internal/render"
	"github.com/lmoreno/pbigen/internal/session"
)

const maxCaptureBytes = 10 << 20 // per uploaded capture

// captureMediaType resolves the media type of an uploaded capture. Browsers
// send a usable image type; generic clients send application/octet-stream or
// nothing, so sniff the bytes and fall back to PNG. The model API only
// accepts image/* types.
func captureMediaType(declared string, data []byte) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return "image/png"
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"sessions":        s.store.Count(),
		"model":           s.adapter.Model(),
		"model_available": s.adapter.IsAvailable(),
	})
}

func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": llm.Models, "default": llm.DefaultModel, "current": s.adapter.Model()})
}

// handleGenerate accepts the multipart form (description fields plus capture
// files) and runs one synthesis call.
func (s *Server) handleGenerate(c *gin.Context) {
	req := core.GenerationRequest{
		Module:      c.PostForm("module"),
		Feature:     c.PostForm("feature"),
		Description: c.PostForm("description"),
		TechContext: c.PostForm("tech_context"),
	}

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, fh := range form.File["captures"] {
			if fh.Size > maxCaptureBytes {
				c.JSON(http.StatusBadRequest, gin.H{"error": "capture too large", "file": fh.Filename})
				return
			}
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read capture", "file": fh.Filename})
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read capture", "file": fh.Filename})
				return
			}
			req.Attachments = append(req.Attachments, core.Attachment{
				Data:      data,
				MediaType: captureMediaType(fh.Header.Get("Content-Type"), data),
			})
		}
	}

	result, err := s.synth.Synthesize(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	sess := s.store.Create(req, req.Attachments, *result)
	logger.Info("generation complete", "session", sess.ID, "items", len(result.Items))

	c.JSON(http.StatusOK, GenerateResponse{
		SessionID: sess.ID,
		Summary:   result.Summary,
		Items:     result.Items,
	})
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		SessionID:   sess.ID,
		Module:      sess.Request.Module,
		Feature:     sess.Request.Feature,
		Summary:     sess.Result.Summary,
		Items:       sess.Result.Items,
		Attachments: len(sess.Attachments),
	})
}

// handleUpdateItem applies a manual edit to one backlog item.
func (s *Server) handleUpdateItem(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item index must be a number"})
		return
	}

	var item core.BacklogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.UpdateItem(c.Param("id"), idx, item); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": idx})
}

// handleItemHTML renders one item as HTML. Captures resolve to hosted URLs
// after a push, inline data URIs before.
func (s *Server) handleItemHTML(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil || idx < 0 || idx >= len(sess.Result.Items) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item index out of range"})
		return
	}

	resolve := render.InlineResolver(sess.Attachments)
	if len(sess.HostedURLs) > 0 {
		resolve = render.HostedResolver(sess.HostedURLs)
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(render.HTML(&sess.Result.Items[idx], resolve)))
}

// handlePush sends the selected items to Azure DevOps. Failures on
// individual items or attachments are reported, not fatal.
func (s *Server) handlePush(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var req PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := azdo.NewClient(s.azure)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "azure devops is not configured", "detail": err.Error()})
		return
	}

	indexes := req.ItemIndexes
	if len(indexes) == 0 {
		for i := range sess.Result.Items {
			indexes = append(indexes, i)
		}
	}

	resp := PushResponse{}
	opts := azdo.PushOptions{
		IterationPath:    req.IterationPath,
		AreaPath:         req.AreaPath,
		ParentURL:        req.ParentURL,
		CreateChildTasks: req.CreateTasks,
	}

	for _, idx := range indexes {
		if idx < 0 || idx >= len(sess.Result.Items) {
			resp.Failures = append(resp.Failures, PushFailure{Index: idx, Message: "item index out of range"})
			continue
		}
		item := &sess.Result.Items[idx]

		result, err := azdo.PushItem(c.Request.Context(), client, item, sess.Attachments, opts)
		if err != nil {
			logger.ErrorErr(err, "push failed", "session", sess.ID, "item", idx)
			resp.Failures = append(resp.Failures, PushFailure{Index: idx, Name: item.Title, Message: err.Error()})
			continue
		}

		if len(result.AttachmentURLs) > 0 {
			s.store.SetHostedURLs(sess.ID, result.AttachmentURLs)
		}
		for _, f := range result.Failures {
			resp.Failures = append(resp.Failures, PushFailure{Index: idx, Name: f.Name, Message: f.Err.Error()})
		}
		resp.Pushed = append(resp.Pushed, PushedItem{Index: idx, WorkItemID: result.Item.ID, URL: result.Item.URL})
	}

	c.JSON(http.StatusOK, resp)
}

// handleFigmaExport turns a pasted frame URL into inline captures the
// frontend can attach to the next generation.
func (s *Server) handleFigmaExport(c *gin.Context) {
	if s.figma == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "figma export is not configured"})
		return
	}

	var req FigmaExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	captures, err := s.figma.FetchCaptures(c.Request.Context(), req.FrameURL)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := FigmaExportResponse{}
	for _, capture := range captures {
		resp.Captures = append(resp.Captures, FigmaCapture{
			MediaType: capture.MediaType,
			Data:      base64.StdEncoding.EncodeToString(capture.Data),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case core.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case core.IsGeneration(err):
		var ge *core.GenerationError
		errors.As(err, &ge)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "model answer could not be decoded", "raw": ge.Raw})
	case core.IsTransport(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, session.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "session expired"})
	case errors.Is(err, session.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "item index out of range"})
	default:
		logger.ErrorErr(err, "unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
