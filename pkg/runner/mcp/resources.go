package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerSummaryResource(srv, svc)
	registerSetTemplate(srv, svc)
}

func registerSummaryResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"bricks://summary",
		"Collection Summary",
		mcp.WithResourceDescription("Totals over the whole set collection."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summary, err := svc.Summary(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, summary)
	})
}

func registerSetTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"bricks://sets/{number}",
		"Set Details",
		mcp.WithTemplateDescription("An owned set with its missing lines and notes."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		number, _ := request.Params.Arguments["number"].(string)
		if number == "" {
			return nil, fmt.Errorf("set number is required")
		}
		set, err := svc.GetSet(ctx, number)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, set)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
