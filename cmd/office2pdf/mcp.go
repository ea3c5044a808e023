package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	office2pdf "github.com/alnah/go-office2pdf"
)

// ConvertDocumentInput is the convert_document tool input.
type ConvertDocumentInput struct {
	InputPath      string `json:"input_path" jsonschema:"path of the office document to convert"`
	OutputPath     string `json:"output_path,omitempty" jsonschema:"where to write the PDF; defaults to the input path with a .pdf extension"`
	Category       string `json:"category,omitempty" jsonschema:"word-processing, presentation or spreadsheet; inferred from the extension when empty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"per-tier timeout in seconds; 0 uses the server default"`
}

// ConvertDocumentOutput is the convert_document tool result.
type ConvertDocumentOutput struct {
	OutputPath string        `json:"output_path" jsonschema:"path of the written PDF"`
	Tier       string        `json:"tier" jsonschema:"tier that produced the PDF: engine, embedded, extraction or placeholder"`
	Attempts   []AttemptInfo `json:"attempts" jsonschema:"every tier tried, in order"`
	DurationMS int64         `json:"duration_ms" jsonschema:"total conversion time in milliseconds"`
}

// AttemptInfo describes one tier attempt.
type AttemptInfo struct {
	Tier  string `json:"tier" jsonschema:"tier name"`
	Error string `json:"error,omitempty" jsonschema:"why the tier failed; empty on success"`
}

// CapabilitiesInput is the conversion_capabilities tool input.
type CapabilitiesInput struct{}

// CapabilitiesOutput is the conversion_capabilities tool result.
type CapabilitiesOutput struct {
	EngineAvailable   bool                `json:"engine_available" jsonschema:"whether the external conversion engine was found"`
	EnginePath        string              `json:"engine_path,omitempty" jsonschema:"engine binary"`
	EngineVersion     string              `json:"engine_version,omitempty" jsonschema:"engine version line"`
	EmbeddedAvailable bool                `json:"embedded_available" jsonschema:"whether the headless browser was found"`
	EmbeddedPath      string              `json:"embedded_path,omitempty" jsonschema:"browser binary"`
	Categories        map[string][]string `json:"categories" jsonschema:"tiers tried per document category, in order"`
}

// mcpTools implements the MCP tool handlers.
type mcpTools struct {
	conv      DocumentConverter
	outputDir string
}

// newMCPServer creates an MCP server with the conversion tools.
func newMCPServer(conv DocumentConverter, outputDir string) *mcp.Server {
	tools := &mcpTools{conv: conv, outputDir: outputDir}
	server := mcp.NewServer(&mcp.Implementation{Name: "office2pdf", Version: Version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_document",
		Description: "Convert a Word, PowerPoint, Excel or OpenDocument file to PDF. Always produces a PDF; the tier field tells how faithful it is.",
	}, tools.ConvertDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "conversion_capabilities",
		Description: "Report which conversion tiers are available on this machine",
	}, tools.Capabilities)

	return server
}

// ConvertDocument converts one document.
func (t *mcpTools) ConvertDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConvertDocumentInput,
) (*mcp.CallToolResult, ConvertDocumentOutput, error) {
	if input.InputPath == "" {
		return nil, ConvertDocumentOutput{}, fmt.Errorf("%w: input_path is required", office2pdf.ErrInvalidRequest)
	}
	if input.TimeoutSeconds < 0 {
		return nil, ConvertDocumentOutput{}, fmt.Errorf("%w: timeout_seconds must not be negative", office2pdf.ErrInvalidRequest)
	}

	req := office2pdf.Request{
		InputPath:  input.InputPath,
		OutputPath: input.OutputPath,
		Timeout:    time.Duration(input.TimeoutSeconds) * time.Second,
	}
	if req.OutputPath == "" {
		req.OutputPath = resolveOutputPath(input.InputPath, t.outputDir, "")
	}
	if input.Category != "" {
		c, ok := office2pdf.ParseFormatCategory(input.Category)
		if !ok {
			return nil, ConvertDocumentOutput{}, fmt.Errorf("%w: %q", ErrUnknownCategory, input.Category)
		}
		req.Category = c
	}

	res, err := t.conv.Convert(ctx, req)
	if err != nil {
		return nil, ConvertDocumentOutput{}, err
	}

	out := ConvertDocumentOutput{
		OutputPath: res.OutputPath,
		Tier:       res.Tier.String(),
		Attempts:   make([]AttemptInfo, 0, len(res.Attempts)),
		DurationMS: res.Duration.Milliseconds(),
	}
	for _, a := range res.Attempts {
		info := AttemptInfo{Tier: a.Tier.String()}
		if a.Err != nil {
			info.Error = a.Err.Error()
		}
		out.Attempts = append(out.Attempts, info)
	}
	return nil, out, nil
}

// Capabilities reports the available tiers.
func (t *mcpTools) Capabilities(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CapabilitiesInput,
) (*mcp.CallToolResult, CapabilitiesOutput, error) {
	report := t.conv.Capabilities(ctx)

	out := CapabilitiesOutput{
		EngineAvailable:   report.Engine.Available,
		EnginePath:        report.Engine.Path,
		EngineVersion:     report.Engine.Version,
		EmbeddedAvailable: report.Embedded.Available,
		EmbeddedPath:      report.Embedded.Path,
		Categories:        make(map[string][]string, len(report.Categories)),
	}
	for category, tiers := range report.Categories {
		names := make([]string, 0, len(tiers))
		for _, tier := range tiers {
			names = append(names, tier.String())
		}
		out.Categories[category.String()] = names
	}
	return nil, out, nil
}

// runMCPCmd serves the MCP tools over stdio until ctx is cancelled.
// Logs go to stderr: stdout carries the protocol.
func runMCPCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseMCPFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(flags, env)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, cfg.Log, flags, slog.LevelWarn)
	conv, err := newConverter(cfg, logger, env)
	if err != nil {
		return err
	}
	defer conv.Close()

	if err := newMCPServer(conv, cfg.Convert.OutputDir).Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running MCP server: %w", err)
	}
	return nil
}
