package toolserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type noInput struct{}

type chartIDInput struct {
	ChartID string `json:"chart_id" jsonschema:"TradingView chart ID"`
}

type setSymbolInput struct {
	ChartID string `json:"chart_id" jsonschema:"TradingView chart ID"`
	Symbol  string `json:"symbol" jsonschema:"Ticker symbol, e.g. NASDAQ:AAPL"`
}

type setResolutionInput struct {
	ChartID    string `json:"chart_id" jsonschema:"TradingView chart ID"`
	Resolution string `json:"resolution" jsonschema:"Resolution, e.g. 1, 5, 15, 60, D, W, M"`
}

type setChartTypeInput struct {
	ChartID string `json:"chart_id" jsonschema:"TradingView chart ID"`
	Type    string `json:"type" jsonschema:"Chart type: candles, bars, line, area, etc."`
}

type setCurrencyInput struct {
	ChartID  string `json:"chart_id" jsonschema:"TradingView chart ID"`
	Currency string `json:"currency" jsonschema:"Currency code, e.g. USD, EUR"`
}

type setUnitInput struct {
	ChartID string `json:"chart_id" jsonschema:"TradingView chart ID"`
	Unit    string `json:"unit" jsonschema:"Display unit"`
}

type zoomChartInput struct {
	ChartID   string `json:"chart_id"`
	Direction string `json:"direction"`
}

type scrollChartInput struct {
	ChartID string `json:"chart_id"`
	Bars    int    `json:"bars"`
}

type goToDateInput struct {
	ChartID string `json:"chart_id" jsonschema:"TradingView chart ID"`
	Date    string `json:"date" jsonschema:"Date to navigate to"`
}

type setVisibleRangeInput struct {
	ChartID string `json:"chart_id" jsonschema:"TradingView chart ID"`
	From    int64  `json:"from" jsonschema:"Start timestamp"`
	To      int64  `json:"to" jsonschema:"End timestamp"`
}

type setTimeframeInput struct {
	ChartID   string `json:"chart_id" jsonschema:"TradingView chart ID"`
	Timeframe string `json:"timeframe" jsonschema:"Timeframe, e.g. 1D, 1W, 1M, 3M, 6M, YTD, 1Y, 5Y, ALL"`
}

type executeChartActionInput struct {
	ChartID  string `json:"chart_id" jsonschema:"TradingView chart ID"`
	ActionID string `json:"action_id" jsonschema:"Action ID to execute"`
}

type activateChartInput struct {
	Index int `json:"index" jsonschema:"Chart index to activate"`
}

// zoomChartSchema constrains direction to the two values the controller
// accepts. Inferred schemas cannot express the enum, so this one is
// written out.
var zoomChartSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"chart_id":  {Type: "string", Description: "TradingView chart ID"},
		"direction": {Type: "string", Description: "Zoom direction", Enum: []any{"in", "out"}},
	},
	Required: []string{"chart_id", "direction"},
}

var scrollChartSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"chart_id": {Type: "string", Description: "TradingView chart ID"},
		"bars":     {Type: "integer", Description: "Number of bars to scroll (positive=right, negative=left)"},
	},
	Required: []string{"chart_id", "bars"},
}

func (s *Server) registerChartTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_charts",
		Description: "List available TradingView chart IDs",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, "/api/v1/charts", nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_active_chart",
		Description: "Get active chart info (count, active index)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, "/api/v1/charts/active", nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_symbol",
		Description: "Get the current ticker symbol on a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/symbol", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_symbol",
		Description: "Change the ticker symbol on a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setSymbolInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/symbol?symbol=%s", args.ChartID, args.Symbol)

		return s.proxy(ctx, http.MethodPut, path, nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_symbol_info",
		Description: "Get extended symbol metadata",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/symbol/info", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_resolution",
		Description: "Get the current chart resolution/timeframe",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/resolution", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_resolution",
		Description: "Set the chart resolution/timeframe",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setResolutionInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/resolution?resolution=%s", args.ChartID, args.Resolution)

		return s.proxy(ctx, http.MethodPut, path, nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_chart_type",
		Description: "Get the chart type (candles, bars, line, etc.)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/chart-type", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_chart_type",
		Description: "Set the chart type (candles, bars, line, etc.)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setChartTypeInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/chart-type?type=%s", args.ChartID, args.Type)

		return s.proxy(ctx, http.MethodPut, path, nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_currency",
		Description: "Get the price denomination currency",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/currency", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_currency",
		Description: "Set the price denomination currency",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setCurrencyInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/currency?currency=%s", args.ChartID, args.Currency)

		return s.proxy(ctx, http.MethodPut, path, nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_available_currencies",
		Description: "List available currencies for a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/currency/available", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_unit",
		Description: "Get the display unit",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/unit", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_unit",
		Description: "Set the display unit",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setUnitInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/unit?unit=%s", args.ChartID, args.Unit)

		return s.proxy(ctx, http.MethodPut, path, nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_available_units",
		Description: "List available display units for a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/unit/available", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "zoom_chart",
		Description: "Zoom in or out on a chart",
		InputSchema: zoomChartSchema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args zoomChartInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/zoom", args.ChartID)

		return s.proxy(ctx, http.MethodPost, path, map[string]string{"direction": args.Direction})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "scroll_chart",
		Description: "Scroll chart by bar count",
		InputSchema: scrollChartSchema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args scrollChartInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/scroll", args.ChartID)

		return s.proxy(ctx, http.MethodPost, path, map[string]int{"bars": args.Bars})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "reset_chart_view",
		Description: "Reset chart view (Alt+R)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, fmt.Sprintf("/api/v1/chart/%s/reset-view", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "go_to_date",
		Description: "Navigate chart to a specific date",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args goToDateInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/go-to-date", args.ChartID)

		return s.proxy(ctx, http.MethodPost, path, map[string]string{"date": args.Date})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_visible_range",
		Description: "Get the visible time range on a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/visible-range", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_visible_range",
		Description: "Set the visible time range on a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setVisibleRangeInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/visible-range", args.ChartID)

		return s.proxy(ctx, http.MethodPut, path, map[string]any{"from": args.From, "to": args.To})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_timeframe",
		Description: "Set chart timeframe (1D, 1W, 1M, etc.)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setTimeframeInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/timeframe", args.ChartID)

		return s.proxy(ctx, http.MethodPut, path, map[string]string{"timeframe": args.Timeframe})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "reset_scales",
		Description: "Reset price scales on a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, fmt.Sprintf("/api/v1/chart/%s/reset-scales", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "undo_chart",
		Description: "Undo last chart action (Ctrl+Z)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, fmt.Sprintf("/api/v1/chart/%s/undo", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "redo_chart",
		Description: "Redo last chart action (Ctrl+Y)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, fmt.Sprintf("/api/v1/chart/%s/redo", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_toggles",
		Description: "Get toggle states (log, auto, extended)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/toggles", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "toggle_log_scale",
		Description: "Toggle logarithmic scale on a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, fmt.Sprintf("/api/v1/chart/%s/toggles/log-scale", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "toggle_auto_scale",
		Description: "Toggle auto scale on a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, fmt.Sprintf("/api/v1/chart/%s/toggles/auto-scale", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "toggle_extended_hours",
		Description: "Toggle extended hours on a chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, fmt.Sprintf("/api/v1/chart/%s/toggles/extended-hours", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "execute_chart_action",
		Description: "Execute a chart action by ID",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args executeChartActionInput) (*mcp.CallToolResult, any, error) {
		path := fmt.Sprintf("/api/v1/chart/%s/action", args.ChartID)

		return s.proxy(ctx, http.MethodPost, path, map[string]string{"action_id": args.ActionID})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_chart_panes",
		Description: "List chart panes",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args chartIDInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodGet, fmt.Sprintf("/api/v1/chart/%s/panes", args.ChartID), nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "next_chart",
		Description: "Switch to the next chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, "/api/v1/chart/next", nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "prev_chart",
		Description: "Switch to the previous chart",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, "/api/v1/chart/prev", nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "maximize_chart",
		Description: "Toggle chart maximize",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, "/api/v1/chart/maximize", nil)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "activate_chart",
		Description: "Set active chart by index",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args activateChartInput) (*mcp.CallToolResult, any, error) {
		return s.proxy(ctx, http.MethodPost, "/api/v1/chart/activate", map[string]int{"index": args.Index})
	})
}
