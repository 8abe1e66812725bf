package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `trendify fits linear regression models to tabular data and predicts with them.

Core concepts:
- Session: one pipeline. Holds the loaded table, the column selection, the description and the fitted model.
- Pipeline mode: load_dataset, remediate_nulls, select_features, select_target, fit_model.
- Artifact mode: after load_model the pipeline is locked; predict, save_model, get_session and new_model still work.

Default workflow:
1) load_dataset(path). Check the returned census for missing cells.
2) remediate_nulls(policy) if the columns you need have missing cells.
3) select_features(columns) then select_target(column).
4) Optionally set_description(text); fits without one carry a notice.
5) fit_model. Read formula, r2 and mse. plot_model renders one or two feature models.
6) save_model(path ending in .gob or .trend), predict(inputs), or new_model to start over.

Errors come back as JSON with code, message, details and recovery_hint.

Transport notes:
- HTTP: the Mcp-Session-Id header picks the session.
- Stdio: pass _meta.session_id, or the session_id argument on any tool.

Docs:
- trendify://docs/index
- trendify://docs/workflow
- trendify://docs/errors
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "trendify://docs/index",
		Name:        "docs_index",
		Title:       "trendify docs index",
		Description: "Entry point: what the server does and which doc to read next.",
		Content: `# trendify: Docs Index

trendify loads a table, cleans missing values, fits an ordinary least squares model and predicts from it.

## Read next

- trendify://docs/workflow: the pipeline step by step, including the artifact lock.
- trendify://docs/errors: every error code and how to recover.

## Supported inputs

| Suffix | Reader |
| --- | --- |
| .csv | header row plus records; NA, NaN, null and blanks are missing |
| .xlsx | first worksheet |
| .xls | first worksheet of a legacy workbook |
| .db, .sqlite | first user table of a SQLite database |

## Model files

- .gob: native binary encoding.
- .trend: checksummed JSON, compressed with zstd by default.
`,
	},
	{
		URI:         "trendify://docs/workflow",
		Name:        "docs_workflow",
		Title:       "Pipeline workflow",
		Description: "Load, remediate, select, fit, save and predict; plus the artifact lock.",
		Content: `# Pipeline workflow

## 1. Load

load_dataset replaces the session table and clears the selection and model.
A failed load leaves the previous table in place.

## 2. Missing values

null_census lists columns that have missing cells. remediate_nulls policies:

- drop_rows: drop every row with a missing cell in any column.
- fill_mean / fill_median: numeric columns only, rounded to 4 decimals.
- fill_constant: parse constant as a number and fill every column.

## 3. Select

select_features takes one or more columns; select_target takes one.
Both report missing cells in the selection. A column may be both a feature and the target; the fit then carries a notice.

## 4. Fit

fit_model requires a feature set and a target with numeric, complete data.
The result holds the formula with 4 decimal coefficients, the in-sample r2 and the mse.
Predictions always use the unrounded coefficients.

## 5. Save and load

save_model writes .gob or .trend. load_model switches the session to artifact mode:
load_dataset, remediate_nulls, select_* and fit_model fail with PIPELINE_LOCKED until new_model.

## 6. Predict

predict needs one numeric value per model input. Every bad or missing field is reported at once.
`,
	},
	{
		URI:         "trendify://docs/errors",
		Name:        "docs_errors",
		Title:       "Error codes",
		Description: "Error codes returned by tools and how to recover.",
		Content: `# Error codes

| Code | Meaning |
| --- | --- |
| UNRECOGNIZED_FORMAT | data file suffix is not supported |
| FILE_NOT_FOUND | the path does not exist |
| UNREADABLE_TABLE | the file could not be parsed |
| NO_TABLES_FOUND | the database has no user table |
| EMPTY_TABLE | no columns or no rows |
| UNKNOWN_COLUMN | details.columns lists the names that do not exist |
| EMPTY_SELECTION | no feature columns given |
| MISSING_SELECTION | features or target not chosen |
| NON_NUMERIC_DATA | details.columns lists columns with text or missing cells |
| INVALID_CONSTANT | fill constant is not a number |
| FIT_FAILED | singular design, e.g. duplicated or constant features |
| UNSUPPORTED_FORMAT | model path suffix is not .gob or .trend |
| CORRUPT_ARTIFACT | the model file failed its checks |
| MISSING_OR_INVALID_INPUT | details.fields lists prediction inputs to fix |
| NO_DATASET | load a dataset first |
| NO_MODEL | fit or load a model first |
| PIPELINE_LOCKED | call new_model after load_model |
| SESSION_NOT_FOUND | the session does not exist |
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
