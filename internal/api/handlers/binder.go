package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/card-binder/internal/api/response"
	"github.com/ramonehamilton/card-binder/internal/binder"
	"github.com/ramonehamilton/card-binder/internal/card"
)

// BinderHandler handles binder navigation, search and detail requests.
type BinderHandler struct {
	ctrl *binder.Controller
}

// NewBinderHandler creates a new BinderHandler.
func NewBinderHandler(ctrl *binder.Controller) *BinderHandler {
	return &BinderHandler{ctrl: ctrl}
}

// PageChangeResponse reports whether a flip was started.
type PageChangeResponse struct {
	Accepted bool          `json:"accepted"`
	Spread   binder.Spread `json:"spread"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SelectResponse is returned after a search result is added to the binder.
type SelectResponse struct {
	Index  int           `json:"index"`
	Spread binder.Spread `json:"spread"`
}

// CardResponse is a single binder slot.
type CardResponse struct {
	Index      int       `json:"index"`
	Card       card.Card `json:"card"`
	Renderable bool      `json:"renderable"`
}

// GetSpread returns the current spread.
func (h *BinderHandler) GetSpread(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.ctrl.Snapshot())
}

// NextPage starts a flip to the next spread.
func (h *BinderHandler) NextPage(w http.ResponseWriter, _ *http.Request) {
	h.turn(w, binder.Next)
}

// PrevPage starts a flip to the previous spread.
func (h *BinderHandler) PrevPage(w http.ResponseWriter, _ *http.Request) {
	h.turn(w, binder.Prev)
}

func (h *BinderHandler) turn(w http.ResponseWriter, d binder.Direction) {
	accepted, err := h.ctrl.RequestPageChange(d)
	if err != nil {
		writeBinderError(w, err)
		return
	}
	resp := PageChangeResponse{Accepted: accepted, Spread: h.ctrl.Snapshot()}
	if accepted {
		response.Accepted(w, resp)
		return
	}
	response.Success(w, resp)
}

// Clear empties the binder.
func (h *BinderHandler) Clear(w http.ResponseWriter, _ *http.Request) {
	h.ctrl.Clear()
	response.Success(w, h.ctrl.Snapshot())
}

// ListCards returns the binder contents, one page per request.
func (h *BinderHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", binder.SlotsPerPage)
	if page < 1 || pageSize < 1 {
		response.BadRequest(w, errors.New("page and page_size must be positive"))
		return
	}

	cards := h.ctrl.Cards()
	pages := len(cards) / pageSize
	if len(cards)%pageSize != 0 {
		pages++
	}
	if page > pages {
		response.Paginated(w, []card.Card{}, page, pageSize, len(cards))
		return
	}

	start := (page - 1) * pageSize
	end := start + min(pageSize, len(cards)-start)
	response.Paginated(w, cards[start:end], page, pageSize, len(cards))
}

// GetCard returns the card at a global index.
func (h *BinderHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	cd, err := h.ctrl.Card(index)
	if err != nil {
		writeBinderError(w, err)
		return
	}

	response.Success(w, CardResponse{Index: index, Card: cd, Renderable: cd.Renderable()})
}

// OpenDetails opens the detail view for a card.
func (h *BinderHandler) OpenDetails(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.ctrl.OpenDetails(index); err != nil {
		writeBinderError(w, err)
		return
	}

	response.Success(w, h.ctrl.Details())
}

// GetDetails returns the detail view, including resolved reprints.
func (h *BinderHandler) GetDetails(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.ctrl.Details())
}

// CloseDetails closes the detail view.
func (h *BinderHandler) CloseDetails(w http.ResponseWriter, _ *http.Request) {
	h.ctrl.CloseDetails()
	response.NoContent(w)
}

// Search starts a card search. Results arrive over the websocket and via GET /search.
func (h *BinderHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if !h.ctrl.Search(req.Query) {
		response.BadRequest(w, errors.New("query is required"))
		return
	}

	response.Accepted(w, h.ctrl.SearchResults())
}

// GetSearch returns the current search state.
func (h *BinderHandler) GetSearch(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.ctrl.SearchResults())
}

// SelectSearchResult appends a search result to the binder.
func (h *BinderHandler) SelectSearchResult(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "result")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	index, err := h.ctrl.SelectSearchResult(i)
	if err != nil {
		writeBinderError(w, err)
		return
	}

	response.Created(w, SelectResponse{Index: index, Spread: h.ctrl.Snapshot()})
}

// SelectReprint swaps the open card for one of its other printings.
func (h *BinderHandler) SelectReprint(w http.ResponseWriter, r *http.Request) {
	j, err := pathIndex(r, "reprint")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.ctrl.SelectReprint(j); err != nil {
		writeBinderError(w, err)
		return
	}

	response.Success(w, h.ctrl.Details())
}

func writeBinderError(w http.ResponseWriter, err error) {
	switch {
	case binder.IsIndexOutOfRange(err):
		response.NotFound(w, err)
	case errors.Is(err, binder.ErrInvalidDirection), errors.Is(err, binder.ErrNoDetailsOpen):
		response.BadRequest(w, err)
	default:
		response.InternalError(w, err)
	}
}

func pathIndex(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", param, raw)
	}
	return n, nil
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
