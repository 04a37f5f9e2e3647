package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// PromptsMCP registers reusable prompt templates for common image workflows.
type PromptsMCP struct{}

// NewPromptsMCP creates the prompt preset handlers.
func NewPromptsMCP() *PromptsMCP {
	return &PromptsMCP{}
}

// RegisterPrompts registers the prompt presets with the MCP server.
func (p *PromptsMCP) RegisterPrompts(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "create_app_mockup",
		Description: "Generate a prompt for creating app mockup images",
		Arguments: []*mcp.PromptArgument{
			{Name: "app_type", Description: "Kind of app (mobile, web, desktop)"},
			{Name: "features", Description: "Comma-separated features to show"},
			{Name: "style", Description: "Visual style of the mockup"},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		appType := argOr(req, "app_type", "mobile")
		features := argOr(req, "features", "login, dashboard, profile")
		style := argOr(req, "style", "modern")
		return promptResult("App mockup prompt", fmt.Sprintf(
			`Generate a %s %s app mockup showing these features: %s.

Requirements:
- High-fidelity UI design
- Clean, professional layout
- Consistent color scheme
- Modern design patterns
- Show multiple screens if needed

Make it look production-ready and visually appealing.`, style, appType, features)), nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "create_logo",
		Description: "Generate a prompt for creating a company logo",
		Arguments: []*mcp.PromptArgument{
			{Name: "company_name", Description: "Company name to feature", Required: true},
			{Name: "industry", Description: "Industry the company operates in", Required: true},
			{Name: "style", Description: "Logo style"},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		company := argOr(req, "company_name", "")
		industry := argOr(req, "industry", "")
		style := argOr(req, "style", "minimalist")
		return promptResult("Logo prompt", fmt.Sprintf(
			`Design a %s logo for '%s' in the %s industry.

Requirements:
- Clean, scalable design
- Memorable and unique
- Appropriate for the industry
- Works in both color and monochrome
- Professional appearance

The logo should convey trust, innovation, and professionalism.`, style, company, industry)), nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "enhance_product_photo",
		Description: "Generate a prompt for product photography",
		Arguments: []*mcp.PromptArgument{
			{Name: "product_type", Description: "Product to photograph", Required: true},
			{Name: "background", Description: "Backdrop description"},
			{Name: "lighting", Description: "Lighting setup"},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		product := argOr(req, "product_type", "")
		background := argOr(req, "background", "white studio")
		lighting := argOr(req, "lighting", "professional")
		return promptResult("Product photo prompt", fmt.Sprintf(
			`Create a %s product photograph of a %s with a %s background.

Requirements:
- High-quality product rendering
- Professional lighting setup
- Clean composition
- E-commerce ready
- Highlight product features

Make it suitable for marketing and e-commerce use.`, lighting, product, background)), nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "preset_product_shot",
		Description: "Preset: photorealistic product shot with classic studio cues",
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return promptResult("Product shot preset",
			"Studio product photo of a brushed steel smartwatch on matte black acrylic, "+
				"soft 45 degree key light with subtle rim light, 85mm portrait lens compression, "+
				"shallow depth of field (f/2.8), rule of thirds, premium editorial aesthetic"), nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "preset_logo_text_accuracy",
		Description: "Preset: text-forward logo with high legibility",
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return promptResult("Logo text accuracy preset",
			"Minimalist logo reading 'CYBER POINT' in geometric sans serif, tight kerning, "+
				"high legibility, monochrome on white, vector-like simplicity"), nil
	})

	log.Info().Msg("registered MCP prompt presets")
}

func argOr(req *mcp.GetPromptRequest, key, def string) string {
	if req.Params == nil || req.Params.Arguments == nil {
		return def
	}
	if v, ok := req.Params.Arguments[key]; ok && v != "" {
		return v
	}
	return def
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}
