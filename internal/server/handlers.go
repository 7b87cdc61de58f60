package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"github.com/n0madic/go-thinkgate/internal/types"
	"github.com/n0madic/go-thinkgate/internal/upstream"
)

// handleChatCompletions handles POST /v1/chat/completions: transform the
// request, forward it, stream the response back unchanged.
func (s *Server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if !gjson.ValidBytes(body) {
		writeOpenAIError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if gjson.GetBytes(body, "model").String() == "" {
		writeOpenAIError(w, http.StatusBadRequest, "Request must include a model")
		return
	}

	var req types.ChatCompletionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeOpenAIError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := s.Engine.TransformRequest(r.Context(), &req, s.Provider)
	if err != nil {
		writeOpenAIError(w, http.StatusInternalServerError, "Failed to transform request")
		return
	}

	payload, err := upstream.BuildBody(body, &req, out)
	if err != nil {
		writeOpenAIError(w, http.StatusInternalServerError, "Failed to build upstream payload")
		return
	}

	resp, err := s.Upstream.Do(r.Context(), payload)
	if err != nil {
		slog.Error("upstream request failed", "error", err)
		writeOpenAIError(w, http.StatusBadGateway, "Upstream request failed")
		return
	}
	defer resp.Body.Close()

	resp = s.Engine.HandleResponse(r.Context(), resp)
	copyResponse(w, resp)
}

// handleListModels handles GET /v1/models from the static table.
func (s *Server) handleListModels(w http.ResponseWriter, _ *http.Request) {
	names := s.Table.Names()
	sort.Strings(names)

	type modelEntry struct {
		ID      string `json:"id"`
		Object  string `json:"object"`
		Created int64  `json:"created"`
		OwnedBy string `json:"owned_by"`
	}
	entries := make([]modelEntry, 0, len(names))
	created := time.Now().Unix()
	for _, name := range names {
		entries = append(entries, modelEntry{
			ID:      name,
			Object:  "model",
			Created: created,
			OwnedBy: s.Provider.Name,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"object": "list", "data": entries})
}

// copyResponse mirrors the upstream response to the client, flushing each
// chunk so SSE streams are delivered as they arrive.
func copyResponse(w http.ResponseWriter, resp *http.Response) {
	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if err != io.EOF {
				slog.Debug("response copy ended", "error", err)
			}
			return
		}
	}
}
