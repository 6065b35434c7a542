package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
)

func call(t *testing.T, name FunctionName, args string) Result {
	t.Helper()
	res, err := Call(context.Background(), string(name), json.RawMessage(args))
	require.NoError(t, err)
	return res
}

func TestCall_UnknownFunction(t *testing.T) {
	_, err := Call(context.Background(), "launch_rocket", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownFunction)
}

func TestCall_InvalidArgumentsYieldErrorResult(t *testing.T) {
	res := call(t, EstimateRevenue, `{"market_size":"lots"}`)
	assert.Equal(t, "error", res["status"])
}

func TestFunctions_ListsAllSorted(t *testing.T) {
	fns := Functions()
	require.Len(t, fns, 12)
	for i := 1; i < len(fns); i++ {
		assert.Less(t, string(fns[i-1].Name), string(fns[i].Name))
	}

	desc, err := Describe("fetch_weather")
	require.NoError(t, err)
	assert.NotEmpty(t, desc)
}

func TestFetchWeather(t *testing.T) {
	res := call(t, FetchWeather, `{"location":{"lat":48.85,"long":2.35}}`)
	assert.Equal(t, "Sunny at 48.85, 2.35", res["forecast"])

	res = call(t, FetchWeather, `{}`)
	assert.Equal(t, "error", res["status"])
}

func TestReadFile(t *testing.T) {
	res := call(t, ReadFile, `{"path":"notes.txt"}`)
	assert.Equal(t, "Contents of notes.txt in default directory", res["contents"])

	res = call(t, ReadFile, `{"path":"notes.txt","directory":"/srv"}`)
	assert.Equal(t, "Contents of notes.txt in /srv", res["contents"])
}

func TestCalculateBreakEvenPoint(t *testing.T) {
	res := call(t, CalculateBreakEvenPoint, `{"fixed_costs":1000,"variable_cost_per_unit":5,"selling_price_per_unit":15}`)
	assert.InDelta(t, 100.0, res["break_even_units"], 0.001)
	assert.InDelta(t, 1500.0, res["break_even_revenue"], 0.001)

	res = call(t, CalculateBreakEvenPoint, `{"fixed_costs":1000,"variable_cost_per_unit":15,"selling_price_per_unit":15}`)
	assert.Equal(t, "error", res["status"])
	assert.Equal(t, "Selling price must be greater than variable cost.", res["message"])
}

func TestDraftCustomerEmail(t *testing.T) {
	res := call(t, DraftCustomerEmail, `{"customer":{"name":"Ana","email":"ana@acme.io","company":"Acme"},"subject":"renewal","tone":"friendly"}`)
	body := res["body"].(string)
	assert.Contains(t, body, "Hi Ana,")
	assert.Contains(t, body, "I hope this message finds you well at Acme.")
	assert.Contains(t, body, "[Insert your message here regarding renewal]")
	assert.Equal(t, "ana@acme.io", res["to"])

	res = call(t, DraftCustomerEmail, `{"customer":{"name":"Ana","email":"ana@acme.io"},"subject":"renewal","tone":"sarcastic"}`)
	assert.Equal(t, "professional", res["tone"])
	assert.Contains(t, res["body"], "Dear Ana,")

	res = call(t, DraftCustomerEmail, `{"customer":{"name":"Ana","email":"ana@acme.io"},"subject":"outage","tone":"urgent"}`)
	assert.Contains(t, res["body"], "Urgent: Dear Ana,")
}

func TestGenerateTaskSummary(t *testing.T) {
	res := call(t, GenerateTaskSummary, `{"tasks":[]}`)
	assert.Equal(t, "No tasks provided.", res["summary"])

	res = call(t, GenerateTaskSummary, `{"tasks":[
		{"title":"Ship","description":"Release v1","due_date":"2026-03-01"},
		{"title":"Plan","description":"Roadmap","due_date":"someday"}]}`)
	assert.Equal(t,
		"Task Summary:\n1. Ship (Due: 2026-03-01)\n   Release v1\n2. Plan (Due: Invalid due date)\n   Roadmap\n",
		res["summary"])
}

func TestAnalyzeCompetitor(t *testing.T) {
	res := call(t, AnalyzeCompetitor, `{"competitor":{"name":"Globex"}}`)
	assert.Contains(t, res["analysis"], "Competitor Analysis for Globex:")
	assert.Contains(t, res["analysis"], "No website provided")
}

func TestEstimateMarketSize(t *testing.T) {
	res := call(t, EstimateMarketSize, `{"industry":"AI","region":"US"}`)
	assert.Equal(t, "$750,000,000", res["estimated_market_size_usd"])
	assert.Equal(t,
		"The estimated total addressable market (TAM) for AI in US is approximately $750,000,000.",
		res["message"])

	res = call(t, EstimateMarketSize, `{"industry":"retail","region":"Mars"}`)
	assert.Equal(t, "$200,000,000", res["estimated_market_size_usd"])

	res = call(t, EstimateMarketSize, `{"industry":"retail"}`)
	assert.Equal(t, "Both 'industry' and 'region' are required.", res["message"])
}

func TestAssessCompetition(t *testing.T) {
	res := call(t, AssessCompetition, `{"query":{"competitors":["A","B"],"options":{"include_funding":true,"include_traffic":true}}}`)
	insights := res["insights"].(map[string]string)
	assert.Equal(t, "A: Market presence noted, funding info [placeholder], web traffic data [placeholder]", insights["A"])

	res = call(t, AssessCompetition, `{"query":{"competitors":[]}}`)
	assert.Equal(t, "No competitors provided for analysis.", res["message"])
}

func TestEstimateRevenue(t *testing.T) {
	res := call(t, EstimateRevenue, `{"market_size":100000,"market_share":5,"price_per_unit":20}`)
	assert.Equal(t, "$100,000.00", res["estimated_revenue_usd"])

	res = call(t, EstimateRevenue, `{"market_size":0,"market_share":5,"price_per_unit":20}`)
	assert.Equal(t, "All inputs must be positive numbers.", res["message"])

	res = call(t, EstimateRevenue, `{"market_size":1e20,"market_share":50,"price_per_unit":10}`)
	assert.Equal(t, "error", res["status"])
	assert.Equal(t, "Estimated revenue is too large to report.", res["message"])
	assert.NotContains(t, res, "estimated_revenue_usd")
}

func TestCheckTrademarkAvailability(t *testing.T) {
	res := call(t, CheckTrademarkAvailability, `{"brand_name":"Zephyr","region":"EU"}`)
	assert.Equal(t, "No", res["available"])

	res = call(t, CheckTrademarkAvailability, `{"brand_name":"Aurora","region":"EU"}`)
	assert.Equal(t, "Yes", res["available"])
	assert.Equal(t, "The brand name 'Aurora' appears to be available for registration in EU.", res["message"])
}

func TestValidateIdeaFeasibility(t *testing.T) {
	res := call(t, ValidateIdeaFeasibility, `{
		"problem":"Small shops cannot forecast inventory demand",
		"solution":"A forecasting app trained on point of sale data",
		"target_audience":"small business owners"}`)
	assert.Equal(t, "100/100", res["feasibility_score"])
	assert.Equal(t, []string{"The idea appears feasible and well-described."}, res["feedback"])

	res = call(t, ValidateIdeaFeasibility, `{"problem":"short","solution":"tiny","target_audience":"everyone"}`)
	assert.Equal(t, "60/100", res["feasibility_score"])
	assert.Len(t, res["feedback"], 3)

	res = call(t, ValidateIdeaFeasibility, `{"problem":"short"}`)
	assert.Equal(t, "error", res["status"])
}

func TestSearchIndustryTrends(t *testing.T) {
	res := call(t, SearchIndustryTrends, `{"industry":"Healthcare"}`)
	assert.Equal(t, []string{
		"Telemedicine adoption post-COVID",
		"AI diagnostics and wearable health tech",
		"Personalized genomics and precision medicine",
	}, res["top_trends"])

	res = call(t, SearchIndustryTrends, `{"industry":"fintech"}`)
	assert.Contains(t, res["top_trends"], "Increased funding in fintech startups")

	res = call(t, SearchIndustryTrends, `{}`)
	assert.Equal(t, "Industry must be provided.", res["message"])
}

func TestParseHostedKind_AcceptsAliases(t *testing.T) {
	kind, err := ParseHostedKind("FileSearchTool")
	require.NoError(t, err)
	assert.Equal(t, FileSearch, kind)

	kind, err = ParseHostedKind("local_shell")
	require.NoError(t, err)
	assert.Equal(t, LocalShell, kind)

	_, err = ParseHostedKind("TeleportTool")
	assert.ErrorIs(t, err, domain.ErrUnknownHostedTool)
}

func TestConfigure_FileSearch(t *testing.T) {
	_, err := Configure("FileSearchTool", map[string]any{})
	require.ErrorIs(t, err, domain.ErrInvalidToolConfig)
	assert.Contains(t, err.Error(), "Missing required field 'vector_store_ids' for FileSearchTool")

	tool, err := Configure("FileSearchTool", map[string]any{"vector_store_ids": []any{"abc"}})
	require.NoError(t, err)
	assert.Equal(t, FileSearch, tool.Kind)

	_, err = Configure("FileSearchTool", map[string]any{"vector_store_ids": []any{"abc"}, "color": "red"})
	require.ErrorIs(t, err, domain.ErrInvalidToolConfig)
	assert.Contains(t, err.Error(), "Invalid field 'color' for FileSearchTool")
}

func TestHostedTool_Execute(t *testing.T) {
	ctx := context.Background()

	fs, err := Configure("file_search", map[string]any{"vector_store_ids": []any{"vs1"}})
	require.NoError(t, err)
	res := fs.Execute(ctx, "pricing", nil)
	assert.Equal(t, "file_search", res["tool"])
	assert.Equal(t, "Mock search results for pricing", res["output"])
	assert.Nil(t, res["error"])

	ws, err := Configure("WebSearchTool", map[string]any{"user_location": "Berlin"})
	require.NoError(t, err)
	res = ws.Execute(ctx, "weather", nil)
	assert.Equal(t, "Mock web search results for weather in Berlin", res["output"])
	assert.Equal(t, "medium", res["search_context_size"])

	ci, err := Configure("code_interpreter", nil)
	require.NoError(t, err)
	res = ci.Execute(ctx, "print(1)", nil)
	assert.Equal(t, "Mock execution of python code: print(1)...", res["output"])

	img, err := Configure("image_generation", nil)
	require.NoError(t, err)
	res = img.Execute(ctx, "a cat", map[string]any{"style": "watercolor"})
	assert.Equal(t, "Mock image generated for prompt: 'a cat' with resolution 1024x1024 and style watercolor", res["output"])

	mcp, err := Configure("hosted_mcp", map[string]any{"tool_config": map[string]any{"server_url": "https://mcp.local"}})
	require.NoError(t, err)
	res = mcp.Execute(ctx, "ls", nil)
	assert.Equal(t, "Mock MCP command 'ls' executed on https://mcp.local with params: {}", res["output"])

	res = mcp.Execute(ctx, "", nil)
	assert.Equal(t, "input is required", res["error"])
	assert.Nil(t, res["output"])
}

func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, 7)
	assert.Equal(t, CodeInterpreter, cat[0].Kind)
}

func strp(s string) *string { return &s }

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		typ     domain.ToolType
		config  *string
		wantErr error
	}{
		{"function ok", domain.ToolTypeFunction, strp(`{"function_name":"fetch_weather"}`), nil},
		{"function missing name", domain.ToolTypeFunction, nil, domain.ErrInvalidToolConfig},
		{"function unknown", domain.ToolTypeFunction, strp(`{"function_name":"nope"}`), domain.ErrUnknownFunction},
		{"functions ok", domain.ToolTypeFunctions, strp(`{"function_names":["read_file","estimate_revenue"]}`), nil},
		{"functions empty", domain.ToolTypeFunctions, strp(`{"function_names":[]}`), domain.ErrInvalidToolConfig},
		{"hosted ok", domain.ToolTypeHosted, strp(`{"tool_name":"FileSearchTool","params":{"vector_store_ids":["abc"]}}`), nil},
		{"hosted missing param", domain.ToolTypeHosted, strp(`{"tool_name":"FileSearchTool","params":{}}`), domain.ErrInvalidToolConfig},
		{"hosted unknown", domain.ToolTypeHosted, strp(`{"tool_name":"TeleportTool"}`), domain.ErrUnknownHostedTool},
		{"not an object", domain.ToolTypeHosted, strp(`[1,2]`), domain.ErrInvalidToolConfig},
		{"agent free-form", domain.ToolTypeAgent, nil, nil},
		{"bad type", domain.ToolType("plugin"), nil, domain.ErrInvalidToolType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.typ, tt.config)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
