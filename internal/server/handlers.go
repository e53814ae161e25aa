package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chrisedwards/slack-gateway/internal/gateway"
)

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	channels := s.gw.ListChannels(r.Context(), partnerID(r))
	writeJSON(w, http.StatusOK, map[string]any{"channels": channels})
}

func (s *Server) handleListDMs(w http.ResponseWriter, r *http.Request) {
	dms := s.gw.ListDirectMessages(r.Context(), partnerID(r))
	writeJSON(w, http.StatusOK, map[string]any{"dms": dms})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := s.gw.GetUsers(r.Context(), partnerID(r))
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleChannelHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	h := s.gw.GetChannelHistory(r.Context(), partnerID(r),
		chi.URLParam(r, "channelID"), r.URL.Query().Get("cursor"), limit)
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	msg := s.gw.GetMessage(r.Context(), chi.URLParam(r, "channelID"),
		chi.URLParam(r, "ts"), partnerID(r))
	if msg == nil {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleThreadReplies(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.gw.GetThreadReplies(r.Context(), partnerID(r),
		chi.URLParam(r, "channelID"), chi.URLParam(r, "ts"))
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "messages": msgs})
}

func (s *Server) handleUnreads(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("channels")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "channels query parameter required")
		return
	}
	ids := strings.Split(raw, ",")

	latest := s.gw.ChannelLastMessageTS(r.Context(), partnerID(r), ids)
	writeJSON(w, http.StatusOK, map[string]any{"latest": latest})
}

type sendMessageRequest struct {
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
	ThreadTS string `json:"thread_ts,omitempty"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	res := s.gw.SendMessage(r.Context(), partnerID(r), chi.URLParam(r, "channelID"),
		req.Text, gateway.SendOptions{
			Username: req.Username,
			IconURL:  req.IconURL,
			ThreadTS: req.ThreadTS,
		})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	res := s.gw.UploadFile(r.Context(), partnerID(r), chi.URLParam(r, "channelID"),
		gateway.Upload{
			Filename: header.Filename,
			Size:     header.Size,
			Reader:   file,
		}, r.FormValue("thread_ts"))
	writeJSON(w, http.StatusOK, res)
}

type createChannelRequest struct {
	Name      string   `json:"name"`
	IsPrivate bool     `json:"is_private"`
	UserIDs   []string `json:"user_ids"`
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var req createChannelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ch, err := s.gw.CreateChannel(r.Context(), partnerID(r), req.Name, req.IsPrivate, req.UserIDs)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "channel": ch})
}

type addReactionRequest struct {
	Timestamp string `json:"timestamp"`
	Emoji     string `json:"emoji"`
}

func (s *Server) handleAddReaction(w http.ResponseWriter, r *http.Request) {
	var req addReactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Timestamp == "" || req.Emoji == "" {
		writeError(w, http.StatusBadRequest, "timestamp and emoji are required")
		return
	}

	if err := s.gw.AddReaction(r.Context(), partnerID(r), chi.URLParam(r, "channelID"),
		req.Timestamp, req.Emoji); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleIdentity(w http.ResponseWriter, r *http.Request) {
	id := s.gw.Identity(r.Context(), partnerID(r))
	if id == nil {
		// The UI shows its "Connect Slack" prompt on a null identity.
		writeJSON(w, http.StatusOK, map[string]any{"identity": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"identity": id})
}

func (s *Server) handleConnected(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"connected": s.gw.IsConnectedInDB(r.Context())})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.gw.ClearCache(partnerID(r))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
