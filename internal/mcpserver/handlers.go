package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/form"
	"github.com/finatech/onboard/internal/mask"
	"github.com/finatech/onboard/internal/onboard"
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers validate-step, lookup-address and list-brands.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("validate-step",
			mcp.WithDescription("Validate the values of one onboarding step and report the first error of each field"),
			mcp.WithNumber("step", mcp.Required(),
				mcp.Description("Step number, 1 to 4"),
				mcp.Min(1), mcp.Max(onboard.StepCount),
			),
			mcp.WithObject("values", mcp.Required(),
				mcp.Description("Field name to raw value; nested members use dotted names such as company.address.zipCode"),
			),
			mcp.WithString("mode",
				mcp.Description("force (submission, default) or lenient (while typing)"),
				mcp.Enum("force", "lenient"),
			),
		),
		s.handleValidateStep,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("lookup-address",
			mcp.WithDescription("Resolve a Brazilian postal code (CEP) to an address"),
			mcp.WithString("zip_code", mcp.Required(),
				mcp.Description("CEP, masked or digits only"),
			),
			mcp.WithBoolean("company",
				mcp.Description("Use the company postal service (default: false)"),
			),
		),
		s.handleLookupAddress,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list-brands",
			mcp.WithDescription("List the vehicle brands of the catalog"),
			mcp.WithString("filter",
				mcp.Description("Case-insensitive substring of the brand name"),
			),
		),
		s.handleListBrands,
	)
}

// validationResult is the JSON body of a validate-step answer.
type validationResult struct {
	Step   int         `json:"step"`
	Title  string      `json:"title"`
	Valid  bool        `json:"valid"`
	Errors form.Errors `json:"errors,omitempty"`
}

// handleValidateStep validates values against a step schema. Defaults of the
// step fill in missing fields, as the wizard does.
func (s *Server) handleValidateStep(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	stepNum, ok := args["step"].(float64)
	if !ok {
		return mcp.NewToolResultError("missing 'step' parameter"), nil
	}
	step := onboard.StepAt(int(stepNum) - 1)
	if step == nil {
		return mcp.NewToolResultError(fmt.Sprintf("step must be between 1 and %d", onboard.StepCount)), nil
	}

	raw, ok := args["values"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("'values' is not an object"), nil
	}

	mode := form.Force
	if m, ok := args["mode"].(string); ok {
		switch m {
		case "", "force":
		case "lenient":
			mode = form.Lenient
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown mode %q", m)), nil
		}
	}

	values := step.Schema.Defaults()
	for name, v := range raw {
		switch val := v.(type) {
		case string:
			values[name] = val
		case bool, float64:
			values[name] = fmt.Sprint(val)
		case nil:
		default:
			return mcp.NewToolResultError(fmt.Sprintf("value of %q must be a string", name)), nil
		}
	}

	outcome := form.Validate(step.Schema, values, mode)
	res := validationResult{
		Step:   int(step.ID) + 1,
		Title:  step.Title,
		Valid:  outcome.Valid(),
		Errors: outcome.Errors,
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleLookupAddress resolves a CEP with the personal or company postal service.
func (s *Server) handleLookupAddress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	zip, ok := args["zip_code"].(string)
	if !ok || strings.TrimSpace(zip) == "" {
		return mcp.NewToolResultError("missing or empty 'zip_code' parameter"), nil
	}
	zip = mask.Digits(zip)
	if len(zip) != 8 {
		return mcp.NewToolResultError("CEP must have 8 digits"), nil
	}

	lookup := s.lookups.LookupAddress
	if company, _ := args["company"].(bool); company {
		lookup = s.lookups.LookupCompanyAddress
	}

	addr, err := lookup(ctx, zip)
	if errors.Is(err, api.ErrNotFound) {
		return mcp.NewToolResultText(fmt.Sprintf("CEP %s not found", mask.Apply(mask.CEP, zip))), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	out, err := json.MarshalIndent(addr, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal address: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleListBrands lists catalog brands as "code: name" lines.
func (s *Server) handleListBrands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := strings.ToLower(strings.TrimSpace(request.GetString("filter", "")))

	brands, err := s.lookups.Brands(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list brands: %v", err)), nil
	}

	var b strings.Builder
	n := 0
	for _, brand := range brands {
		if filter != "" && !strings.Contains(strings.ToLower(brand.Label), filter) {
			continue
		}
		fmt.Fprintf(&b, "\n  %s: %s", brand.Value, brand.Label)
		n++
	}
	if n == 0 {
		return mcp.NewToolResultText("No brands found"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d brand(s):%s", n, b.String())), nil
}
