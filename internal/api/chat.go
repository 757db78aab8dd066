package api

import (
	"encoding/json"
	"net/http"

	"github.com/pathwaysai/pathways/internal/agent"
	"github.com/pathwaysai/pathways/internal/prompt"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages    []agent.Message `json:"messages"`
	UserProfile *prompt.Profile `json:"userProfile,omitempty"`
}

// chatEnvelope frames the final reply as the single body chunk.
type chatEnvelope struct {
	Response string `json:"response"`
}

// genericError is the only failure text exposed to callers. Internal
// error detail goes to the log, never over the wire.
const genericError = "Failed to process request"

// handleChat is the request boundary for the completion loop. Any failure
// from decoding, prompt building, the loop, or serialization is logged and
// converted to the generic 500 here; nothing below this retries.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Error("chat request failed", "stage", "decode", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, genericError)
		return
	}

	reply, err := s.loop.Run(r.Context(), req.Messages, req.UserProfile)
	if err != nil {
		s.logger.Error("chat request failed", "stage", "loop", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, genericError)
		return
	}

	s.emit(w, reply)
}

// emit writes the reply as exactly one newline-delimited JSON chunk.
// The headers advertise a streamable body, but the contract is a single
// chunk followed by end-of-stream.
func (s *Server) emit(w http.ResponseWriter, reply string) {
	body, err := json.Marshal(chatEnvelope{Response: reply})
	if err != nil {
		s.logger.Error("chat request failed", "stage", "encode", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, genericError)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Debug("failed to write chat response", "error", err)
		return
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
