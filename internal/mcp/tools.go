package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

var sessionIDProperty = map[string]any{
	"type":        "string",
	"description": "Pipeline session (omit to use the connection's session)",
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	props := map[string]any{"session_id": sessionIDProperty}
	for name, prop := range properties {
		props[name] = prop
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProperty(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Data
		{
			Name:        "load_dataset",
			Description: "Load a table from a .csv, .xlsx, .xls, .db or .sqlite file into the session. Clears the column selection and any fitted model.",
			InputSchema: objectSchema(map[string]any{
				"path": stringProperty("Path to the data file"),
			}, "path"),
		},
		{
			Name:        "null_census",
			Description: "Count missing cells per column of the loaded table. Only columns with missing cells are listed.",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "remediate_nulls",
			Description: "Handle missing cells: drop incomplete rows, or fill with the column mean, median or a numeric constant",
			InputSchema: objectSchema(map[string]any{
				"policy": map[string]any{
					"type":        "string",
					"enum":        []string{"drop_rows", "fill_mean", "fill_median", "fill_constant"},
					"description": "Remediation policy",
				},
				"constant": map[string]any{
					"type":        []string{"number", "string"},
					"description": "Fill value for fill_constant",
				},
				"columns": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Restrict fill policies to these columns (default: all)",
				},
			}, "policy"),
		},

		// Selection
		{
			Name:        "select_features",
			Description: "Choose the input columns of the model. Warns about missing cells in the chosen columns.",
			InputSchema: objectSchema(map[string]any{
				"columns": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"minItems":    1,
					"description": "Feature column names",
				},
			}, "columns"),
		},
		{
			Name:        "select_target",
			Description: "Choose the output column the model predicts",
			InputSchema: objectSchema(map[string]any{
				"column": stringProperty("Target column name"),
			}, "column"),
		},
		{
			Name:        "set_description",
			Description: "Store a free-text description that is saved with the model",
			InputSchema: objectSchema(map[string]any{
				"description": stringProperty("Model description"),
			}, "description"),
		},

		// Model
		{
			Name:        "fit_model",
			Description: "Fit an ordinary least squares model on the selected columns and report the formula, R² and MSE",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "plot_model",
			Description: "Render the fitted model to an image: a line over a scatter for one feature, a plane heat map for two",
			InputSchema: objectSchema(map[string]any{
				"path": stringProperty("Output .png, .svg or .pdf path (default: a temporary .png)"),
			}),
		},
		{
			Name:        "save_model",
			Description: "Save the current model to a .gob or .trend file",
			InputSchema: objectSchema(map[string]any{
				"path": stringProperty("Artifact path; the suffix picks the format"),
			}, "path"),
		},
		{
			Name:        "load_model",
			Description: "Load a saved model. The data pipeline stays locked until new_model is called.",
			InputSchema: objectSchema(map[string]any{
				"path": stringProperty("Artifact path"),
			}, "path"),
		},
		{
			Name:        "predict",
			Description: "Predict the target from one value per model input",
			InputSchema: objectSchema(map[string]any{
				"inputs": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": []string{"number", "string"}},
					"description":          "Map of input column name to value",
				},
			}, "inputs"),
		},
		{
			Name:        "new_model",
			Description: "Discard the session's table, selection and model and unlock the pipeline",
			InputSchema: objectSchema(nil),
		},

		// Sessions
		{
			Name:        "get_session",
			Description: "Show the session state: loaded columns, selection, model and artifact",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "list_sessions",
			Description: "List open pipeline sessions",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "close_session",
			Description: "Drop a session and all of its state",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "get_recent_activity",
			Description: "List recent journal entries for the session, newest first",
			InputSchema: objectSchema(map[string]any{
				"activity_type": stringProperty("Filter by activity type"),
				"all_sessions": map[string]any{
					"type":        "boolean",
					"description": "Include every session",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of entries (default 50)",
				},
				"offset": map[string]any{
					"type":        "integer",
					"description": "Entries to skip",
				},
			}),
		},
	}
}

// registerTools exposes every catalog entry as an SDK tool backed by the
// handler.
func registerTools(server *sdkmcp.Server, handler *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, getSessionID(ctx), name, args)
			if err != nil {
				return toolError(err), nil
			}
			return toolResult(result)
		})
	}
}

func toolResult(result any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) *sdkmcp.CallToolResult {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	data, marshalErr := json.Marshal(apiErr)
	if marshalErr != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}
