// Package mcpserver exposes a binder to MCP clients as a set of tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ramonehamilton/card-binder/internal/binder"
	"github.com/ramonehamilton/card-binder/internal/version"
)

// flipPoll is how often a page turn is checked for completion.
const flipPoll = 10 * time.Millisecond

// Tools binds MCP tool handlers to one binder controller.
type Tools struct {
	ctrl        *binder.Controller
	flipTimeout time.Duration
}

// StateView is the JSON document returned by most tools.
type StateView struct {
	Spread  binder.Spread      `json:"spread"`
	Search  binder.SearchView  `json:"search"`
	Details binder.DetailsView `json:"details"`
}

// NewTools creates tool handlers for ctrl. flipTimeout bounds how long a page
// turn waits for its commit.
func NewTools(ctrl *binder.Controller, flipTimeout time.Duration) *Tools {
	if flipTimeout <= 0 {
		flipTimeout = 2 * time.Second
	}
	return &Tools{ctrl: ctrl, flipTimeout: flipTimeout}
}

// NewServer creates an MCP server with every binder tool registered.
func NewServer(t *Tools) *server.MCPServer {
	s := server.NewMCPServer(version.Name, version.GetVersion())
	t.Register(s)
	return s
}

// Register adds all binder tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(stateTool(), t.handleState)
	s.AddTool(turnPageTool(), t.handleTurnPage)
	s.AddTool(searchTool(), t.handleSearch)
	s.AddTool(addResultTool(), t.handleAddResult)
	s.AddTool(openCardTool(), t.handleOpenCard)
	s.AddTool(swapReprintTool(), t.handleSwapReprint)
	s.AddTool(clearTool(), t.handleClear)
}

// --- Tool definitions ---

func stateTool() mcp.Tool {
	return mcp.NewTool("binder_state",
		mcp.WithDescription("Get the visible two-page spread (18 slots), the page indicator, the last search results and the open card details. Read-only."),
	)
}

func turnPageTool() mcp.Tool {
	return mcp.NewTool("binder_turn_page",
		mcp.WithDescription("Turn to the next or previous spread. Turning past the first or last spread, or while a turn is settling, does nothing."),
		mcp.WithString("direction", mcp.Required(), mcp.Enum("next", "prev"), mcp.Description("'next' or 'prev'")),
	)
}

func searchTool() mcp.Tool {
	return mcp.NewTool("binder_search",
		mcp.WithDescription("Search for cards by name or query syntax. Returns up to 15 results; add one with binder_add_result."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
	)
}

func addResultTool() mcp.Tool {
	return mcp.NewTool("binder_add_result",
		mcp.WithDescription("Append a search result to the end of the binder and show the last spread."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the last search results")),
	)
}

func openCardTool() mcp.Tool {
	return mcp.NewTool("binder_open_card",
		mcp.WithDescription("Open the detail view of a binder card and list its other printings."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based global index of the card in the binder")),
	)
}

func swapReprintTool() mcp.Tool {
	return mcp.NewTool("binder_swap_reprint",
		mcp.WithDescription("Replace the open card with one of its other printings, keeping its slot."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the open card's printings")),
	)
}

func clearTool() mcp.Tool {
	return mcp.NewTool("binder_clear",
		mcp.WithDescription("Remove every card from the binder."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.stateResult(), nil
}

func (t *Tools) handleTurnPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var d binder.Direction
	switch request.GetString("direction", "") {
	case "next":
		d = binder.Next
	case "prev":
		d = binder.Prev
	default:
		return mcp.NewToolResultError("direction must be 'next' or 'prev'"), nil
	}

	accepted, err := t.ctrl.RequestPageChange(d)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to turn page: %v", err), nil
	}
	if accepted {
		if err := t.awaitFlip(ctx); err != nil {
			return mcp.NewToolResultErrorf("Page turn did not settle: %v", err), nil
		}
	}
	return t.stateResult(), nil
}

func (t *Tools) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if !t.ctrl.Search(query) {
		return mcp.NewToolResultError("query must not be empty"), nil
	}
	t.ctrl.Wait()

	view := t.ctrl.SearchResults()
	if view.Error != "" {
		return mcp.NewToolResultError(view.Error), nil
	}
	return mcp.NewToolResultText(respondJSON(view)), nil
}

func (t *Tools) handleAddResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := t.ctrl.SelectSearchResult(request.GetInt("index", -1))
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot add result: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(map[string]any{
		"index":  index,
		"spread": t.ctrl.Snapshot(),
	})), nil
}

func (t *Tools) handleOpenCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.ctrl.OpenDetails(request.GetInt("index", -1)); err != nil {
		return mcp.NewToolResultErrorf("Cannot open card: %v", err), nil
	}
	t.ctrl.Wait()
	return mcp.NewToolResultText(respondJSON(t.ctrl.Details())), nil
}

func (t *Tools) handleSwapReprint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.ctrl.SelectReprint(request.GetInt("index", -1)); err != nil {
		return mcp.NewToolResultErrorf("Cannot swap printing: %v", err), nil
	}
	t.ctrl.Wait()
	return t.stateResult(), nil
}

func (t *Tools) handleClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.ctrl.Clear()
	return t.stateResult(), nil
}

// awaitFlip blocks until the pending page turn commits.
func (t *Tools) awaitFlip(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.flipTimeout)
	defer cancel()

	ticker := time.NewTicker(flipPoll)
	defer ticker.Stop()
	for t.ctrl.View().Locked {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (t *Tools) stateResult() *mcp.CallToolResult {
	return mcp.NewToolResultText(respondJSON(StateView{
		Spread:  t.ctrl.Snapshot(),
		Search:  t.ctrl.SearchResults(),
		Details: t.ctrl.Details(),
	}))
}

func respondJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error":"failed to encode response"}`
	}
	return string(data)
}
