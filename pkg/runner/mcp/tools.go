package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListSetsTool(srv, svc)
	registerGetSetTool(srv, svc)
	registerSummaryTool(srv, svc)
	registerMissingTool(srv, svc)
	registerListColorsTool(srv, svc)
}

func registerListSetsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_sets",
		mcp.WithDescription("List owned sets grouped by theme, optionally filtered."),
		mcp.WithString("query",
			mcp.Description("Optional case-insensitive filter over set number, name, theme and missing part or figure numbers."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := strings.TrimSpace(request.GetString("query", ""))
		sets, err := svc.ListSets(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query": query,
			"count": len(sets),
			"sets":  sets,
		})
	})
}

func registerGetSetTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_set",
		mcp.WithDescription("Get an owned set with its missing parts, missing minifigures and notes."),
		mcp.WithString("number",
			mcp.Required(),
			mcp.Description("Set number such as 7140-1. A missing variant suffix means -1."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		number, err := request.RequireString("number")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		set, err := svc.GetSet(ctx, number)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(set)
	})
}

func registerSummaryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"summary",
		mcp.WithDescription("Collection totals: sets, net parts, weight, boxes, instructions, themes and missing counts."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := svc.Summary(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(summary)
	})
}

func registerMissingTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"missing",
		mcp.WithDescription("Shopping list of every missing part and minifigure across the collection."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := svc.Missing(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(list)
	})
}

func registerListColorsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_colors",
		mcp.WithDescription("List the color palette by group. Missing parts refer to these color names."),
		mcp.WithString("group",
			mcp.Description("Optional group name filter, e.g. Solid or Transparent."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		group := strings.TrimSpace(request.GetString("group", ""))
		groups, err := svc.Colors(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if group != "" {
			filtered := groups[:0]
			for _, g := range groups {
				if strings.EqualFold(g.Group, group) {
					filtered = append(filtered, g)
				}
			}
			if len(filtered) == 0 {
				return mcp.NewToolResultError(fmt.Sprintf("unknown color group %q", group)), nil
			}
			groups = filtered
		}
		return toJSONResult(map[string]any{"groups": groups})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
