package server

import (
	"io"
	"net/http"
	"regexp"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"chatdesk/internal/logger"
	"chatdesk/internal/models"
	"chatdesk/internal/pipeline"
)

const maxMessageLen = 1000

var conversationIDRe = regexp.MustCompile(`^conv_[A-Za-z0-9_]{1,94}$`)

// internalApology is the generic 500 body; it never echoes error detail.
const internalApology = "非常抱歉，系统出了点小状况。您可以稍后再试，或联系我们的人工顾问，我们会尽快帮您解决。"

func (s *Server) handleChat(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeValidationError(c, &models.ValidationError{Field: "body", Reason: "unreadable request body"})
		return
	}

	var req models.ChatRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeValidationError(c, &models.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	if verr := validateChatRequest(&req); verr != nil {
		writeValidationError(c, verr)
		return
	}

	pc := &pipeline.Context{Request: req}
	outcome, err := s.pipe.Execute(c.Request.Context(), pc)
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", req.ConversationID).Msg("chat pipeline failed")
		s.writeInternalError(c)
		return
	}
	writeJSON(c, outcome.Status, outcome.Response)
}

// validateChatRequest enforces the wire contract before any state is
// touched, so a 400 never has side effects.
func validateChatRequest(req *models.ChatRequest) *models.ValidationError {
	n := utf8.RuneCountInString(req.Message)
	if n < 1 {
		return &models.ValidationError{Field: "message", Reason: "required"}
	}
	if n > maxMessageLen {
		return &models.ValidationError{Field: "message", Reason: "exceeds 1000 characters"}
	}
	switch req.Mode {
	case "", models.ModeAuto, models.ModeDecisionRec, models.ModeFAQFlowPrice:
	default:
		return &models.ValidationError{Field: "mode", Reason: "unknown mode"}
	}
	switch req.PageType {
	case "", "home", "qa":
	default:
		return &models.ValidationError{Field: "pageType", Reason: "unknown page type"}
	}
	switch req.Source {
	case "", "menu", "input":
	default:
		return &models.ValidationError{Field: "source", Reason: "unknown source"}
	}
	if req.ConversationID != "" && !conversationIDRe.MatchString(req.ConversationID) {
		return &models.ValidationError{Field: "conversationId", Reason: "must match conv_[A-Za-z0-9_]{1,94}"}
	}
	return nil
}

const faqMenuMaxQuestions = 8

func (s *Server) handleFAQMenu(c *gin.Context) {
	kb, err := s.deps.Provider.Load()
	if err != nil {
		logger.Error().Err(err).Msg("faq menu knowledge load failed")
		s.writeInternalError(c)
		return
	}

	resp := models.FAQMenuResponse{Categories: []models.FAQMenuCategory{}}
	if doc, ok := kb.DetailedFAQ(); ok {
		for _, cat := range doc.Categories {
			out := models.FAQMenuCategory{ID: cat.ID, Title: cat.Title, Questions: []models.FAQMenuQuestion{}}
			for i, q := range cat.Questions {
				if i >= faqMenuMaxQuestions {
					break
				}
				out.Questions = append(out.Questions, models.FAQMenuQuestion{ID: q.ID, Question: q.Question})
			}
			resp.Categories = append(resp.Categories, out)
		}
	}
	writeJSON(c, http.StatusOK, resp)
}

func (s *Server) writeInternalError(c *gin.Context) {
	writeJSON(c, http.StatusInternalServerError, models.ChatResponse{
		Reply:  internalApology,
		Intent: models.IntentHandoff,
		UpdatedContext: models.UpdatedContext{
			LastIntent: string(models.IntentHandoff),
			Slots:      map[string]string{},
		},
	})
}

func writeValidationError(c *gin.Context, verr *models.ValidationError) {
	writeJSON(c, http.StatusBadRequest, gin.H{"error": verr.Error()})
}

func writeJSON(c *gin.Context, status int, body any) {
	data, err := sonic.Marshal(body)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}
