package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mtlprog/agentdesk/docs" // Register swagger docs
	"github.com/mtlprog/agentdesk/internal/config"
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/guardrail"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/llm"
	"github.com/mtlprog/agentdesk/internal/middleware"
	"github.com/mtlprog/agentdesk/internal/quota"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/service"
	"github.com/mtlprog/agentdesk/internal/telemetry"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool *pgxpool.Pool
	cfg  *config.Config

	agentService     *service.AgentService
	toolService      *service.ToolService
	guardrailService *service.GuardrailService
	apiKeyService    *service.APIKeyService
	planService      *service.PlanService
	authService      *service.AuthService
	messageService   *service.MessageService
	settingsService  *service.SettingsService
	flowService      *service.FlowService
	feedbackService  *service.FeedbackService
	promptService    *service.PromptService
	runner           *service.AgentRunner

	agentRepo     *repository.AgentRepository
	toolRepo      *repository.ToolRepository
	guardrailRepo *repository.GuardrailRepository
	apiKeyRepo    *repository.APIKeyRepository
	planRepo      *repository.PlanRepository
	flowRepo      *repository.FlowRepository
	userRepo      *repository.UserRepository
	feedbackRepo  *repository.FeedbackRepository
	promptRepo    *repository.PromptRepository
	runLogRepo    *repository.RunLogRepository
	statsRepo     *repository.StatsRepository

	guardrails     *guardrail.Registry
	authMiddleware *middleware.AuthMiddleware
}

// Options carries the pluggable collaborators of a Handler. Nil fields get
// the defaults: a limiter counting stored messages and vendor model clients.
type Options struct {
	Limiter quota.Limiter
	LLM     llm.Factory
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, cfg *config.Config, opts Options) *Handler {
	// Create repositories
	agentRepo := repository.NewAgentRepository(pool)
	toolRepo := repository.NewToolRepository(pool)
	guardrailRepo := repository.NewGuardrailRepository(pool)
	apiKeyRepo := repository.NewAPIKeyRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	flowRepo := repository.NewFlowRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	promptRepo := repository.NewPromptRepository(pool)
	runLogRepo := repository.NewRunLogRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	if opts.Limiter == nil {
		opts.Limiter = quota.NewStoreLimiter(messageRepo, domain.FreeMonthlyMessageCap)
	}
	if opts.LLM == nil {
		opts.LLM = llm.NewFactory(llm.Options{
			OpenAIBaseURL:    cfg.OpenAIBaseURL,
			AnthropicBaseURL: cfg.AnthropicBaseURL,
		})
	}

	registry := guardrail.NewRegistry()

	// Create services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL)

	return &Handler{
		pool: pool,
		cfg:  cfg,

		agentService:     service.NewAgentService(agentRepo, toolRepo, guardrailRepo, apiKeyRepo),
		toolService:      service.NewToolService(toolRepo, agentRepo),
		guardrailService: service.NewGuardrailService(guardrailRepo, agentRepo, registry),
		apiKeyService:    service.NewAPIKeyService(apiKeyRepo, agentRepo),
		planService:      service.NewPlanService(pool, planRepo),
		authService:      authService,
		messageService:   service.NewMessageService(messageRepo, opts.Limiter),
		settingsService:  service.NewSettingsService(settingsRepo),
		flowService:      service.NewFlowService(flowRepo),
		feedbackService:  service.NewFeedbackService(feedbackRepo),
		promptService:    service.NewPromptService(promptRepo),
		runner:           service.NewAgentRunner(agentRepo, apiKeyRepo, guardrailRepo, runLogRepo, opts.LLM, registry),

		agentRepo:     agentRepo,
		toolRepo:      toolRepo,
		guardrailRepo: guardrailRepo,
		apiKeyRepo:    apiKeyRepo,
		planRepo:      planRepo,
		flowRepo:      flowRepo,
		userRepo:      userRepo,
		feedbackRepo:  feedbackRepo,
		promptRepo:    promptRepo,
		runLogRepo:    runLogRepo,
		statsRepo:     repository.NewStatsRepository(pool),

		guardrails:     registry,
		authMiddleware: middleware.NewAuthMiddleware(authService),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Public routes
	mux.HandleFunc("POST /api/v1/admin/login", h.handleAdminLogin)
	mux.HandleFunc("POST /api/v1/user-login", h.handleUserLogin)
	mux.HandleFunc("POST /api/v1/users", h.handleSignup)
	mux.HandleFunc("GET /api/v1/plans", h.handleListPlans)
	mux.HandleFunc("GET /api/v1/chat/agents", h.handleListChatAgents)
	mux.Handle("POST /api/v1/agents/{id}/run", h.authMiddleware.Optional(http.HandlerFunc(h.handleRunAgent)))
	mux.HandleFunc("POST /api/v1/messages", h.handleSendMessage)
	mux.HandleFunc("GET /api/v1/messages", h.handleListMessages)
	mux.Handle("POST /api/v1/feedback", h.authMiddleware.Optional(http.HandlerFunc(h.handleCreateFeedback)))
	mux.HandleFunc("GET /api/v1/settings/maintenance", h.handleGetMaintenance)

	// Authenticated, any role
	mux.Handle("GET /api/v1/me", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleMe)))

	// Agents
	h.admin(mux, "GET /api/v1/agents", h.handleListAgents)
	h.admin(mux, "POST /api/v1/agents", h.handleCreateAgent)
	h.admin(mux, "GET /api/v1/agents/search", h.handleSearchAgents)
	h.admin(mux, "GET /api/v1/agents/{id}", h.handleGetAgent)
	h.admin(mux, "PUT /api/v1/agents/{id}", h.handleUpdateAgent)
	h.admin(mux, "PATCH /api/v1/agents/{id}", h.handleUpdateAgent)
	h.admin(mux, "DELETE /api/v1/agents/{id}", h.handleDeleteAgent)

	// Tools
	h.admin(mux, "GET /api/v1/tools", h.handleListTools)
	h.admin(mux, "POST /api/v1/tools", h.handleCreateTool)
	h.admin(mux, "GET /api/v1/tools/functions", h.handleListFunctions)
	h.admin(mux, "GET /api/v1/tools/functions/{name}/description", h.handleDescribeFunction)
	h.admin(mux, "POST /api/v1/tools/functions/{name}/call", h.handleCallFunction)
	h.admin(mux, "GET /api/v1/tools/hosted", h.handleListHostedTools)
	h.admin(mux, "POST /api/v1/tools/hosted/{name}/execute", h.handleExecuteHostedTool)
	h.admin(mux, "GET /api/v1/tools/{id}", h.handleGetTool)
	h.admin(mux, "PUT /api/v1/tools/{id}", h.handleUpdateTool)
	h.admin(mux, "PATCH /api/v1/tools/{id}", h.handleUpdateTool)
	h.admin(mux, "DELETE /api/v1/tools/{id}", h.handleDeleteTool)

	// Guardrails
	h.admin(mux, "GET /api/v1/guardrails", h.handleListGuardrails)
	h.admin(mux, "POST /api/v1/guardrails", h.handleCreateGuardrail)
	h.admin(mux, "GET /api/v1/guardrails/logic", h.handleListGuardrailLogic)
	h.admin(mux, "GET /api/v1/guardrails/{id}", h.handleGetGuardrail)
	h.admin(mux, "PUT /api/v1/guardrails/{id}", h.handleUpdateGuardrail)
	h.admin(mux, "PATCH /api/v1/guardrails/{id}", h.handleUpdateGuardrail)
	h.admin(mux, "DELETE /api/v1/guardrails/{id}", h.handleDeleteGuardrail)

	// API keys
	h.admin(mux, "GET /api/v1/api-keys", h.handleListAPIKeys)
	h.admin(mux, "POST /api/v1/api-keys", h.handleCreateAPIKey)
	h.admin(mux, "GET /api/v1/api-keys/{id}", h.handleGetAPIKey)
	h.admin(mux, "PUT /api/v1/api-keys/{id}", h.handleUpdateAPIKey)
	h.admin(mux, "PATCH /api/v1/api-keys/{id}", h.handleUpdateAPIKey)
	h.admin(mux, "DELETE /api/v1/api-keys/{id}", h.handleDeleteAPIKey)

	// Plans
	h.admin(mux, "POST /api/v1/plans", h.handleCreatePlan)
	h.admin(mux, "PUT /api/v1/plans/bulk-update", h.handleBulkUpdatePlans)
	h.admin(mux, "GET /api/v1/plans/{id}", h.handleGetPlan)
	h.admin(mux, "PUT /api/v1/plans/{id}", h.handleUpdatePlan)
	h.admin(mux, "PATCH /api/v1/plans/{id}", h.handleUpdatePlan)
	h.admin(mux, "DELETE /api/v1/plans/{id}", h.handleDeletePlan)

	// Flows
	h.admin(mux, "GET /api/v1/flows", h.handleListFlows)
	h.admin(mux, "POST /api/v1/flows", h.handleCreateFlow)
	h.admin(mux, "GET /api/v1/flows/{id}", h.handleGetFlow)
	h.admin(mux, "PUT /api/v1/flows/{id}", h.handleUpdateFlow)
	h.admin(mux, "PATCH /api/v1/flows/{id}", h.handleUpdateFlow)
	h.admin(mux, "DELETE /api/v1/flows/{id}", h.handleDeleteFlow)

	// Users
	h.admin(mux, "GET /api/v1/users", h.handleListUsers)
	h.admin(mux, "POST /api/v1/admin/users", h.handleCreateUser)
	h.admin(mux, "GET /api/v1/users/{id}", h.handleGetUser)
	h.admin(mux, "PUT /api/v1/users/{id}", h.handleUpdateUser)
	h.admin(mux, "PATCH /api/v1/users/{id}", h.handleUpdateUser)
	h.admin(mux, "DELETE /api/v1/users/{id}", h.handleDeleteUser)

	// Settings
	h.admin(mux, "GET /api/v1/settings/{section}", h.handleGetSettings)
	h.admin(mux, "POST /api/v1/settings/{section}", h.handleSaveSettings)
	h.admin(mux, "PUT /api/v1/settings/{section}", h.handleSaveSettings)

	// Feedback
	h.admin(mux, "GET /api/v1/feedback", h.handleListFeedback)
	h.admin(mux, "GET /api/v1/feedback/{id}", h.handleGetFeedback)
	h.admin(mux, "DELETE /api/v1/feedback/{id}", h.handleDeleteFeedback)

	// Prompts
	h.admin(mux, "GET /api/v1/prompts", h.handleListPrompts)
	h.admin(mux, "POST /api/v1/prompts", h.handleCreatePrompt)
	h.admin(mux, "GET /api/v1/prompts/{id}", h.handleGetPrompt)
	h.admin(mux, "PUT /api/v1/prompts/{id}", h.handleUpdatePrompt)
	h.admin(mux, "PATCH /api/v1/prompts/{id}", h.handleUpdatePrompt)
	h.admin(mux, "DELETE /api/v1/prompts/{id}", h.handleDeletePrompt)

	// Messages
	h.admin(mux, "POST /api/v1/messages/replies", h.handleSendReply)

	// Run logs
	h.admin(mux, "GET /api/v1/logs", h.handleListLogs)
	h.admin(mux, "GET /api/v1/logs/{id}", h.handleGetLog)
	h.admin(mux, "DELETE /api/v1/logs/{id}", h.handleDeleteLog)

	// Stats
	h.admin(mux, "GET /api/v1/admin/stats", h.handleGetStats)
}

func (h *Handler) admin(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, h.authMiddleware.RequireAdmin(fn))
}

// Routes returns the full HTTP handler: all routes wrapped in request ids,
// panic recovery, CORS, tracing and access logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var next http.Handler = mux
	next = middleware.AccessLog(next)
	next = telemetry.Middleware(next)
	next = cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
	next = chimw.Recoverer(next)
	next = chimw.RealIP(next)
	next = chimw.RequestID(next)
	return next
}

// handleHealthz returns 200 OK if the database is reachable.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /healthz [get]
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unavailable")
		return
	}

	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps a service or repository error to the error envelope.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// decodeJSON decodes the request body into v.
// Returns false if the body is malformed (error already sent to client).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}

// extractID extracts and validates the {id} path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request, resource string) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", resource+" id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", resource+"_id must be a valid UUID")
		return "", false
	}

	return id, true
}

// parsePage reads ?limit= and ?offset=, ignoring malformed values.
func parsePage(r *http.Request) repository.Page {
	query := r.URL.Query()

	page := repository.Page{Limit: repository.DefaultLimit}
	if limitParam := query.Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= repository.MaxLimit {
			page.Limit = n
		}
	}
	if offsetParam := query.Get("offset"); offsetParam != "" {
		if n, err := strconv.Atoi(offsetParam); err == nil && n >= 0 {
			page.Offset = n
		}
	}
	return page
}

// callerID returns the authenticated user id, if any.
func callerID(r *http.Request) *string {
	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		return nil
	}
	return &principal.UserID
}
