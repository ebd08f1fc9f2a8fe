package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"scam-honeypot/internal/auth"
	"scam-honeypot/internal/history"
	"scam-honeypot/internal/intel"
	"scam-honeypot/internal/llm"
	"scam-honeypot/internal/orchestrator"
)

const (
	DefaultPath     = "/hcs_A0001"
	HeaderRequestID = "X-Request-ID"

	maxBodyBytes = 1 << 20
)

// TurnHandler runs one conversation turn.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req orchestrator.TurnRequest) (orchestrator.TurnResponse, error)
}

type Handler struct {
	Auth  auth.Authenticator
	Turns TurnHandler
}

type messageBody struct {
	Sender    history.Sender    `json:"sender"`
	Text      string            `json:"text"`
	Timestamp history.Timestamp `json:"timestamp"`
}

type turnRequestBody struct {
	SessionID           *string         `json:"sessionId"`
	Message             *messageBody    `json:"message"`
	ConversationHistory history.History `json:"conversationHistory"`
}

type turnResponseBody struct {
	Status                string          `json:"status"`
	AgentReply            string          `json:"agentReply"`
	ConversationIsOver    bool            `json:"conversationIsOver"`
	SessionID             string          `json:"sessionId"`
	ExtractedIntelligence intel.Artifacts `json:"extractedIntelligence"`
	AgentNotes            string          `json:"agentNotes"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Turn is the honeypot endpoint: authenticate, validate, run the turn.
func (h *Handler) Turn(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(w, r)

	if err := h.Auth.Authenticate(r); err != nil {
		log.Printf("[%s] unauthorized: %v", reqID, err)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, err := decodeTurnRequest(w, r)
	if err != nil {
		log.Printf("[%s] bad request: %v", reqID, err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Turns.HandleTurn(r.Context(), req)
	if err != nil {
		status, message := classify(err)
		log.Printf("[%s] session %s: turn failed (%d): %v", reqID, req.SessionID, status, err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, turnResponseBody{
		Status:                "success",
		AgentReply:            resp.AgentReply,
		ConversationIsOver:    resp.ConversationIsOver,
		SessionID:             resp.SessionID,
		ExtractedIntelligence: resp.Intelligence.Artifacts,
		AgentNotes:            resp.Intelligence.AgentNotes,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeTurnRequest checks presence only: sessionId must be a non-empty
// string, taken verbatim, and message an object. Empty message text is
// allowed.
func decodeTurnRequest(w http.ResponseWriter, r *http.Request) (orchestrator.TurnRequest, error) {
	var body turnRequestBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return orchestrator.TurnRequest{}, err
	}
	if body.SessionID == nil || *body.SessionID == "" {
		return orchestrator.TurnRequest{}, errors.New("sessionId is required")
	}
	if body.Message == nil {
		return orchestrator.TurnRequest{}, errors.New("message is required")
	}
	return orchestrator.TurnRequest{
		SessionID: *body.SessionID,
		Message: history.Turn{
			Sender:    body.Message.Sender,
			Text:      body.Message.Text,
			Timestamp: body.Message.Timestamp,
		},
		History: body.ConversationHistory,
	}, nil
}

// classify maps a turn failure to a status and a client-safe message.
func classify(err error) (int, string) {
	var te *llm.TransportError
	if errors.As(err, &te) {
		if te.Message != "" && te.StatusCode > 0 {
			return http.StatusBadGateway, "AI Service Error: " + te.Message
		}
		return http.StatusBadGateway, "AI Service Error: service unavailable"
	}
	var pe *llm.ProtocolError
	if errors.As(err, &pe) {
		return http.StatusBadGateway, "AI Service Error: invalid response from model"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func requestID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(HeaderRequestID, id)
	return id
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Status: "error", Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
