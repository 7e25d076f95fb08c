package server

import (
	"github.com/lmoreno/pbigen/internal/core"
)

// GenerateResponse is returned by POST /api/generate.
type GenerateResponse struct {
	SessionID string             `json:"session_id"`
	Summary   string             `json:"summary,omitempty"`
	Items     []core.BacklogItem `json:"pbis"`
}

// SessionResponse is returned by GET /api/sessions/:id.
type SessionResponse struct {
	SessionID   string             `json:"session_id"`
	Module      string             `json:"module"`
	Feature     string             `json:"feature"`
	Summary     string             `json:"summary,omitempty"`
	Items       []core.BacklogItem `json:"pbis"`
	Attachments int                `json:"attachments"`
}

// PushRequest configures POST /api/sessions/:id/push.
type PushRequest struct {
	ItemIndexes   []int  `json:"item_indexes"`
	IterationPath string `json:"iteration_path"`
	AreaPath      string `json:"area_path"`
	ParentURL     string `json:"parent_url"`
	CreateTasks   bool   `json:"create_tasks"`
}

// PushedItem reports one pushed backlog item.
type PushedItem struct {
	Index      int    `json:"index"`
	WorkItemID int    `json:"work_item_id"`
	URL        string `json:"url"`
}

// PushFailure reports one phase that failed while the batch kept going.
type PushFailure struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// PushResponse is returned by POST /api/sessions/:id/push.
type PushResponse struct {
	Pushed   []PushedItem  `json:"pushed"`
	Failures []PushFailure `json:"failures,omitempty"`
}

// FigmaExportRequest configures POST /api/figma/export.
type FigmaExportRequest struct {
	FrameURL string `json:"frame_url" binding:"required"`
}

// FigmaExportResponse is returned by POST /api/figma/export.
type FigmaExportResponse struct {
	Captures []FigmaCapture `json:"captures"`
}

// FigmaCapture is one exported frame, inline as base64.
type FigmaCapture struct {
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}
