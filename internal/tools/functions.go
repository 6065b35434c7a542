// Package tools holds the closed registry of tools an agent may reference:
// function tools with typed arguments and hosted tool descriptors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// Result is the structured output of a tool call.
type Result map[string]any

func errorResult(format string, args ...any) Result {
	return Result{"status": "error", "message": fmt.Sprintf(format, args...)}
}

// FunctionName identifies a registered function tool.
type FunctionName string

const (
	FetchWeather               FunctionName = "fetch_weather"
	ReadFile                   FunctionName = "read_file"
	CalculateBreakEvenPoint    FunctionName = "calculate_break_even_point"
	DraftCustomerEmail         FunctionName = "draft_customer_email"
	GenerateTaskSummary        FunctionName = "generate_task_summary"
	AnalyzeCompetitor          FunctionName = "analyze_competitor"
	EstimateMarketSize         FunctionName = "estimate_market_size"
	AssessCompetition          FunctionName = "assess_competition"
	EstimateRevenue            FunctionName = "estimate_revenue"
	CheckTrademarkAvailability FunctionName = "check_trademark_availability"
	ValidateIdeaFeasibility    FunctionName = "validate_idea_feasibility"
	SearchIndustryTrends       FunctionName = "search_industry_trends"
)

type function struct {
	description string
	call        func(ctx context.Context, raw json.RawMessage) Result
}

// decoded wraps a typed handler: arguments are decoded into A and decode
// failures become an error result.
func decoded[A any](fn func(ctx context.Context, args A) Result) func(context.Context, json.RawMessage) Result {
	return func(ctx context.Context, raw json.RawMessage) Result {
		var args A
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return errorResult("invalid arguments: %v", err)
			}
		}
		return fn(ctx, args)
	}
}

var functions = map[FunctionName]function{
	FetchWeather: {
		description: "Fetch the weather for a location given as latitude and longitude.",
		call:        decoded(fetchWeather),
	},
	ReadFile: {
		description: "Read a file by path, optionally from a directory.",
		call:        decoded(readFile),
	},
	CalculateBreakEvenPoint: {
		description: "Calculate break-even units and revenue from fixed costs, variable cost per unit and selling price per unit.",
		call:        decoded(calculateBreakEvenPoint),
	},
	DraftCustomerEmail: {
		description: "Draft an email to a customer with a subject and tone (professional, friendly or urgent).",
		call:        decoded(draftCustomerEmail),
	},
	GenerateTaskSummary: {
		description: "Summarize a list of tasks with titles, descriptions and due dates.",
		call:        decoded(generateTaskSummary),
	},
	AnalyzeCompetitor: {
		description: "Produce a short analysis of a competitor by name and website.",
		call:        decoded(analyzeCompetitor),
	},
	EstimateMarketSize: {
		description: "Estimate the total addressable market for an industry in a region.",
		call:        decoded(estimateMarketSize),
	},
	AssessCompetition: {
		description: "Assess a list of competitors with optional funding and traffic insights.",
		call:        decoded(assessCompetition),
	},
	EstimateRevenue: {
		description: "Estimate revenue from market size, market share percentage and price per unit.",
		call:        decoded(estimateRevenue),
	},
	CheckTrademarkAvailability: {
		description: "Check whether a brand name is available as a trademark in a region.",
		call:        decoded(checkTrademarkAvailability),
	},
	ValidateIdeaFeasibility: {
		description: "Score the feasibility of a startup idea from its problem, solution and target audience.",
		call:        decoded(validateIdeaFeasibility),
	},
	SearchIndustryTrends: {
		description: "List current trends for an industry.",
		call:        decoded(searchIndustryTrends),
	},
}

// FunctionInfo describes a registered function tool.
type FunctionInfo struct {
	Name        FunctionName
	Description string
}

// Functions lists all registered function tools sorted by name.
func Functions() []FunctionInfo {
	infos := make([]FunctionInfo, 0, len(functions))
	for name, fn := range functions {
		infos = append(infos, FunctionInfo{Name: name, Description: fn.description})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// IsFunction reports whether name is a registered function tool.
func IsFunction(name string) bool {
	_, ok := functions[FunctionName(name)]
	return ok
}

// Describe returns the description of a function tool.
func Describe(name string) (string, error) {
	fn, ok := functions[FunctionName(name)]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownFunction, name)
	}
	return fn.description, nil
}

// Call invokes a function tool with JSON-encoded arguments. Invalid arguments
// produce an error Result, not an error.
func Call(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	fn, ok := functions[FunctionName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFunction, name)
	}
	return fn.call(ctx, args), nil
}

// Location is a point given by latitude and longitude.
type Location struct {
	Lat  *float64 `json:"lat"`
	Long *float64 `json:"long"`
}

type fetchWeatherArgs struct {
	Location *Location `json:"location"`
}

func fetchWeather(_ context.Context, a fetchWeatherArgs) Result {
	if a.Location == nil || a.Location.Lat == nil || a.Location.Long == nil {
		return errorResult("'location' with 'lat' and 'long' is required.")
	}
	return Result{
		"location": map[string]float64{"lat": *a.Location.Lat, "long": *a.Location.Long},
		"forecast": fmt.Sprintf("Sunny at %g, %g", *a.Location.Lat, *a.Location.Long),
	}
}

type readFileArgs struct {
	Path      string `json:"path"`
	Directory string `json:"directory"`
}

func readFile(_ context.Context, a readFileArgs) Result {
	if a.Path == "" {
		return errorResult("'path' is required.")
	}
	dir := a.Directory
	if dir == "" {
		dir = "default directory"
	}
	return Result{"path": a.Path, "contents": fmt.Sprintf("Contents of %s in %s", a.Path, dir)}
}

type breakEvenArgs struct {
	FixedCosts          float64 `json:"fixed_costs"`
	VariableCostPerUnit float64 `json:"variable_cost_per_unit"`
	SellingPricePerUnit float64 `json:"selling_price_per_unit"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func calculateBreakEvenPoint(_ context.Context, a breakEvenArgs) Result {
	if a.FixedCosts < 0 {
		return errorResult("Fixed costs must be non-negative.")
	}
	if a.SellingPricePerUnit <= a.VariableCostPerUnit {
		return errorResult("Selling price must be greater than variable cost.")
	}
	units := a.FixedCosts / (a.SellingPricePerUnit - a.VariableCostPerUnit)
	return Result{
		"break_even_units":   round2(units),
		"break_even_revenue": round2(units * a.SellingPricePerUnit),
	}
}

// Customer is the recipient of a drafted email.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

type draftEmailArgs struct {
	Customer Customer `json:"customer"`
	Subject  string   `json:"subject"`
	Tone     string   `json:"tone"`
}

func draftCustomerEmail(_ context.Context, a draftEmailArgs) Result {
	if a.Customer.Name == "" || a.Customer.Email == "" {
		return errorResult("'customer' with 'name' and 'email' is required.")
	}
	if a.Subject == "" {
		return errorResult("'subject' is required.")
	}

	var greeting string
	switch a.Tone {
	case "friendly":
		greeting = "Hi " + a.Customer.Name + ","
	case "urgent":
		greeting = "Urgent: Dear " + a.Customer.Name + ","
	default:
		a.Tone = "professional"
		greeting = "Dear " + a.Customer.Name + ","
	}

	companyLine := ""
	if a.Customer.Company != "" {
		companyLine = " at " + a.Customer.Company
	}

	body := fmt.Sprintf("%s\n\nI hope this message finds you well%s. [Insert your message here regarding %s].\n\nBest regards,\nYour StartupCopilot Team",
		greeting, companyLine, a.Subject)

	return Result{"to": a.Customer.Email, "subject": a.Subject, "tone": a.Tone, "body": body}
}

// Task is an item in a task summary.
type Task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

type taskSummaryArgs struct {
	Tasks []Task `json:"tasks"`
}

func formatDueDate(s string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return "Invalid due date"
}

func generateTaskSummary(_ context.Context, a taskSummaryArgs) Result {
	if len(a.Tasks) == 0 {
		return Result{"summary": "No tasks provided."}
	}

	var b strings.Builder
	b.WriteString("Task Summary:\n")
	for i, t := range a.Tasks {
		fmt.Fprintf(&b, "%d. %s (Due: %s)\n   %s\n", i+1, t.Title, formatDueDate(t.DueDate), t.Description)
	}
	return Result{"summary": b.String(), "count": len(a.Tasks)}
}

// Competitor is a company to analyze.
type Competitor struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

type analyzeCompetitorArgs struct {
	Competitor Competitor `json:"competitor"`
}

func analyzeCompetitor(_ context.Context, a analyzeCompetitorArgs) Result {
	if a.Competitor.Name == "" {
		return errorResult("'competitor' with 'name' is required.")
	}
	website := "No website provided"
	if a.Competitor.Website != "" {
		website = "Website: " + a.Competitor.Website
	}
	return Result{
		"competitor": a.Competitor.Name,
		"analysis": fmt.Sprintf("Competitor Analysis for %s:\n- %s\n- [Placeholder: Add market position, strengths, weaknesses based on external data]",
			a.Competitor.Name, website),
	}
}

type marketSizeArgs struct {
	Industry string `json:"industry"`
	Region   string `json:"region"`
}

var regionBaseMarket = map[string]int64{
	"India": 100_000_000,
	"US":    500_000_000,
	"EU":    400_000_000,
}

const defaultBaseMarket = 200_000_000

// formatUSD renders a whole-dollar amount with thousands separators.
func formatUSD(v int64) string {
	s := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return "$" + b.String()
}

// hasWord reports whether s contains w as a whole word.
func hasWord(s, w string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return slices.Contains(words, w)
}

func estimateMarketSize(_ context.Context, a marketSizeArgs) Result {
	if a.Industry == "" || a.Region == "" {
		return errorResult("Both 'industry' and 'region' are required.")
	}

	base, ok := regionBaseMarket[a.Region]
	if !ok {
		base = defaultBaseMarket
	}

	industry := strings.ToLower(a.Industry)
	multiplier := 1.0
	switch {
	case hasWord(industry, "ai"):
		multiplier = 1.5
	case strings.Contains(industry, "health"):
		multiplier = 1.3
	case strings.Contains(industry, "edu"):
		multiplier = 1.2
	}

	estimate := formatUSD(int64(float64(base) * multiplier))
	return Result{
		"industry":                  a.Industry,
		"region":                    a.Region,
		"estimated_market_size_usd": estimate,
		"message": fmt.Sprintf("The estimated total addressable market (TAM) for %s in %s is approximately %s.",
			a.Industry, a.Region, estimate),
	}
}

// CompetitorQuery selects competitors and the insights to include.
type CompetitorQuery struct {
	Competitors []string `json:"competitors"`
	Options     struct {
		NumInsights    int  `json:"num_insights"`
		IncludeFunding bool `json:"include_funding"`
		IncludeTraffic bool `json:"include_traffic"`
	} `json:"options"`
}

type assessCompetitionArgs struct {
	Query CompetitorQuery `json:"query"`
}

func assessCompetition(_ context.Context, a assessCompetitionArgs) Result {
	if len(a.Query.Competitors) == 0 {
		return errorResult("No competitors provided for analysis.")
	}

	names := a.Query.Competitors
	if n := a.Query.Options.NumInsights; n > 0 && n < len(names) {
		names = names[:n]
	}

	insights := make(map[string]string, len(names))
	for _, name := range names {
		text := name + ": Market presence noted"
		if a.Query.Options.IncludeFunding {
			text += ", funding info [placeholder]"
		}
		if a.Query.Options.IncludeTraffic {
			text += ", web traffic data [placeholder]"
		}
		insights[name] = text
	}
	return Result{"insights": insights}
}

type estimateRevenueArgs struct {
	MarketSize   float64 `json:"market_size"`
	MarketShare  float64 `json:"market_share"`
	PricePerUnit float64 `json:"price_per_unit"`
}

func estimateRevenue(_ context.Context, a estimateRevenueArgs) Result {
	if a.MarketSize <= 0 || a.MarketShare <= 0 || a.PricePerUnit <= 0 {
		return errorResult("All inputs must be positive numbers.")
	}

	revenue := a.MarketSize * (a.MarketShare / 100) * a.PricePerUnit
	if revenue*100 >= math.MaxInt64 {
		return errorResult("Estimated revenue is too large to report.")
	}
	cents := int64(math.Round(revenue * 100))
	formatted := fmt.Sprintf("%s.%02d", formatUSD(cents/100), cents%100)

	return Result{
		"estimated_revenue_usd": formatted,
		"details": fmt.Sprintf("With a %g%% share of a market of %g units at $%.2f per unit, your projected revenue is approximately %s.",
			a.MarketShare, a.MarketSize, a.PricePerUnit, formatted),
	}
}

type trademarkArgs struct {
	BrandName string `json:"brand_name"`
	Region    string `json:"region"`
}

func checkTrademarkAvailability(_ context.Context, a trademarkArgs) Result {
	if a.BrandName == "" || a.Region == "" {
		return errorResult("Both 'brand_name' and 'region' are required.")
	}

	if strings.HasPrefix(strings.ToLower(a.BrandName), "z") {
		return Result{
			"brand_name": a.BrandName,
			"region":     a.Region,
			"available":  "No",
			"message":    fmt.Sprintf("The brand name '%s' is already registered or in use in %s.", a.BrandName, a.Region),
		}
	}
	return Result{
		"brand_name": a.BrandName,
		"region":     a.Region,
		"available":  "Yes",
		"message":    fmt.Sprintf("The brand name '%s' appears to be available for registration in %s.", a.BrandName, a.Region),
	}
}

type feasibilityArgs struct {
	Problem        string `json:"problem"`
	Solution       string `json:"solution"`
	TargetAudience string `json:"target_audience"`
}

var audienceTerms = []string{"consumer", "startup", "business", "enterprise", "student", "developer"}

func validateIdeaFeasibility(_ context.Context, a feasibilityArgs) Result {
	if a.Problem == "" || a.Solution == "" || a.TargetAudience == "" {
		return errorResult("All fields (problem, solution, target_audience) are required.")
	}

	feedback := []string{}
	if len(a.Problem) < 20 {
		feedback = append(feedback, "The problem statement seems too brief or underdeveloped.")
	}
	if len(a.Solution) < 20 {
		feedback = append(feedback, "The solution description lacks depth or implementation clarity.")
	}

	audience := strings.ToLower(a.TargetAudience)
	specific := false
	for _, term := range audienceTerms {
		if strings.Contains(audience, term) {
			specific = true
			break
		}
	}
	if !specific {
		feedback = append(feedback, "Target audience may be unclear or too broad. Be specific.")
	}

	score := 100
	switch {
	case len(feedback) >= 2:
		score = 60
	case len(feedback) == 1:
		score = 80
	}
	if len(feedback) == 0 {
		feedback = append(feedback, "The idea appears feasible and well-described.")
	}

	return Result{
		"problem":           a.Problem,
		"solution":          a.Solution,
		"target_audience":   a.TargetAudience,
		"feasibility_score": fmt.Sprintf("%d/100", score),
		"summary":           "Feasibility assessment completed.",
		"feedback":          feedback,
	}
}

type industryArgs struct {
	Industry string `json:"industry"`
}

var industryTrends = map[string][]string{
	"ai": {
		"Rise of generative AI in customer support",
		"AI-powered personalization in eCommerce",
		"Ethical concerns and AI governance",
	},
	"healthcare": {
		"Telemedicine adoption post-COVID",
		"AI diagnostics and wearable health tech",
		"Personalized genomics and precision medicine",
	},
	"education": {
		"AI tutors and adaptive learning platforms",
		"Gamification in online education",
		"EdTech funding is surging globally",
	},
}

func searchIndustryTrends(_ context.Context, a industryArgs) Result {
	if a.Industry == "" {
		return errorResult("Industry must be provided.")
	}

	trends, ok := industryTrends[strings.ToLower(a.Industry)]
	if !ok {
		trends = []string{
			"Growing interest in sustainable " + a.Industry,
			"Increased funding in " + a.Industry + " startups",
			"Technology integration in " + a.Industry + " processes",
		}
	}

	return Result{
		"industry":   a.Industry,
		"top_trends": trends,
		"summary":    fmt.Sprintf("Here are the current top trends emerging in the %s sector.", a.Industry),
	}
}
