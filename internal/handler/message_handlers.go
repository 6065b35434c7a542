package handler

import (
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
)

// handleSendMessage stores a chat message.
// @Summary Send a message
// @Description Free-tier senders (anonymous sessions or plan "free") may send 5 messages per calendar month of at most 500 words each.
// @Tags messages
// @Accept json
// @Produce json
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /messages [post]
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg := &domain.Message{
		Email:     req.Email,
		SessionID: req.SessionID,
		Plan:      req.Plan,
		Text:      req.Text,
		IsUser:    true,
	}

	stored, err := h.messageService.SendMessage(r.Context(), msg)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToMessageResponse(stored))
}

// handleSendReply stores an assistant reply in a sender's conversation.
// Replies do not count toward free-tier limits.
// @Summary Store an assistant reply
// @Tags messages
// @Accept json
// @Produce json
// @Param request body dto.SendMessageRequest true "Reply"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /messages/replies [post]
func (h *Handler) handleSendReply(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stored, err := h.messageService.SendMessage(r.Context(), &domain.Message{
		Email:     req.Email,
		SessionID: req.SessionID,
		Plan:      req.Plan,
		Text:      req.Text,
		IsUser:    false,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToMessageResponse(stored))
}

// handleListMessages returns the conversation of one sender.
// @Summary List messages
// @Tags messages
// @Produce json
// @Param email query string false "Sender email"
// @Param session_id query string false "Anonymous session id"
// @Success 200 {array} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /messages [get]
func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	email := query.Get("email")
	sessionID := query.Get("session_id")

	messages, err := h.messageService.ListMessages(r.Context(), &email, &sessionID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]dto.MessageResponse, len(messages))
	for i, m := range messages {
		resp[i] = dto.ToMessageResponse(m)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleCreateFeedback stores user feedback. A signed-in caller is recorded
// as the author when user_id is not given.
// @Summary Submit feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body dto.CreateFeedbackRequest true "Feedback"
// @Success 201 {object} dto.FeedbackResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /feedback [post]
func (h *Handler) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := req.UserID
	if userID == nil {
		userID = callerID(r)
	}

	f, err := h.feedbackService.SubmitFeedback(r.Context(), &domain.Feedback{
		UserID:  userID,
		Message: req.Message,
		Rating:  req.Rating,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToFeedbackResponse(f))
}

// handleListFeedback lists feedback entries.
// @Summary List feedback
// @Tags feedback
// @Produce json
// @Param limit query int false "Page size (1-500, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.ListResponse[dto.FeedbackResponse]
// @Security BearerAuth
// @Router /feedback [get]
func (h *Handler) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	list, total, err := h.feedbackRepo.List(r.Context(), page)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewListResponse(list, total, page.Limit, page.Offset, dto.ToFeedbackResponse))
}

// handleGetFeedback retrieves a feedback entry.
// @Summary Get feedback
// @Tags feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} dto.FeedbackResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /feedback/{id} [get]
func (h *Handler) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	feedbackID, ok := extractID(w, r, "feedback")
	if !ok {
		return
	}

	f, err := h.feedbackRepo.GetByID(r.Context(), feedbackID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToFeedbackResponse(f))
}

// handleDeleteFeedback deletes a feedback entry.
// @Summary Delete feedback
// @Tags feedback
// @Param id path string true "Feedback ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /feedback/{id} [delete]
func (h *Handler) handleDeleteFeedback(w http.ResponseWriter, r *http.Request) {
	feedbackID, ok := extractID(w, r, "feedback")
	if !ok {
		return
	}

	if err := h.feedbackRepo.Delete(r.Context(), feedbackID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
