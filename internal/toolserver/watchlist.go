package toolserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type listWatchlistsInput struct{}

type getActiveWatchlistInput struct{}

type setActiveWatchlistInput struct {
	ID string `json:"id" jsonschema:"Watchlist ID to set as active"`
}

type createWatchlistInput struct {
	Name string `json:"name" jsonschema:"Name for the new watchlist"`
}

type watchlistIDInput struct {
	WatchlistID string `json:"watchlist_id" jsonschema:"Watchlist ID"`
}

type renameWatchlistInput struct {
	WatchlistID string `json:"watchlist_id" jsonschema:"Watchlist ID"`
	Name        string `json:"name" jsonschema:"New name for the watchlist"`
}

type watchlistSymbolsInput struct {
	WatchlistID string   `json:"watchlist_id" jsonschema:"Watchlist ID"`
	Symbols     []string `json:"symbols" jsonschema:"Symbols, e.g. [\"NASDAQ:AAPL\", \"NYSE:MSFT\"]"`
}

type flagWatchlistSymbolInput struct {
	WatchlistID string `json:"watchlist_id" jsonschema:"Watchlist ID"`
	Symbol      string `json:"symbol" jsonschema:"Symbol to flag/unflag"`
}

type listColoredWatchlistsInput struct{}

type colorListSymbolsInput struct {
	Color   string   `json:"color" jsonschema:"Color list name, e.g. red, orange, green"`
	Symbols []string `json:"symbols" jsonschema:"Symbols for the color list"`
}

type bulkRemoveColoredInput struct {
	Symbols []string `json:"symbols" jsonschema:"Symbols to remove from every color list"`
}

func (s *Server) registerWatchlistTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_watchlists",
		Description: "List all watchlists",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ listWatchlistsInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, "/api/v1/watchlists", nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_active_watchlist",
		Description: "Get the currently active watchlist",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ getActiveWatchlistInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, "/api/v1/watchlists/active", nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_active_watchlist",
		Description: "Set the active watchlist by ID",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setActiveWatchlistInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPut, "/api/v1/watchlists/active", map[string]string{"id": args.ID})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_watchlist",
		Description: "Create a new watchlist",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createWatchlistInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, "/api/v1/watchlists", map[string]string{"name": args.Name})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_watchlist",
		Description: "Get watchlist details by ID",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args watchlistIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/watchlist/%s", args.WatchlistID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rename_watchlist",
		Description: "Rename a watchlist",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args renameWatchlistInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/watchlist/%s", args.WatchlistID)

		return s.proxy(ctx, http.MethodPatch, path, map[string]string{"name": args.Name})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_watchlist",
		Description: "Delete a watchlist",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args watchlistIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/watchlist/%s", args.WatchlistID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_watchlist_symbols",
		Description: "Add symbols to a watchlist",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args watchlistSymbolsInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/watchlist/%s/symbols", args.WatchlistID)

		return s.proxy(ctx, http.MethodPost, path, map[string]any{"symbols": args.Symbols})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_watchlist_symbols",
		Description: "Remove symbols from a watchlist",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args watchlistSymbolsInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/watchlist/%s/symbols", args.WatchlistID)

		return s.proxy(ctx, http.MethodDelete, path, map[string]any{"symbols": args.Symbols})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "flag_watchlist_symbol",
		Description: "Flag or unflag a symbol in a watchlist",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args flagWatchlistSymbolInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/watchlist/%s/flag", args.WatchlistID)

		return s.proxy(ctx, http.MethodPost, path, map[string]string{"symbol": args.Symbol})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_colored_watchlists",
		Description: "List colored watchlists",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ listColoredWatchlistsInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, "/api/v1/watchlists/colored", nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_color_list_symbols",
		Description: "Replace all symbols in a color list",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args colorListSymbolsInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/watchlists/colored/%s", args.Color)

		return s.proxy(ctx, http.MethodPut, path, map[string]any{"symbols": args.Symbols})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "append_color_list_symbols",
		Description: "Add symbols to a color list",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args colorListSymbolsInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/watchlists/colored/%s/append", args.Color)

		return s.proxy(ctx, http.MethodPost, path, map[string]any{"symbols": args.Symbols})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_color_list_symbols",
		Description: "Remove symbols from a color list",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args colorListSymbolsInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/watchlists/colored/%s/remove", args.Color)

		return s.proxy(ctx, http.MethodPost, path, map[string]any{"symbols": args.Symbols})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "bulk_remove_colored_symbols",
		Description: "Remove symbols from all color lists",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args bulkRemoveColoredInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, "/api/v1/watchlists/colored/bulk-remove", map[string]any{"symbols": args.Symbols})
	})
}
