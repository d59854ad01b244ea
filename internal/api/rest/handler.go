package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emberdao/soulforge/internal/api/middleware"
	"github.com/emberdao/soulforge/internal/api/shared/dto"
	"github.com/emberdao/soulforge/internal/api/shared/executor"
	"github.com/emberdao/soulforge/internal/domain"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// Login authenticates a user by wallet address and password
	// POST /api/auth/login
	Login(c *gin.Context)

	// AdminLogin authenticates a back-office admin
	// POST /api/auth/admin/login
	AdminLogin(c *gin.Context)

	// RegisterUser registers a new user
	// POST /api/users
	RegisterUser(c *gin.Context)

	// GetUserByWallet retrieves a user by wallet address
	// GET /api/users/wallet/:address
	GetUserByWallet(c *gin.Context)

	// GetUserSoulID retrieves a user's active Soul ID
	// GET /api/nfts/user/:userId
	GetUserSoulID(c *gin.Context)

	// MintSoulID mints a Soul ID for a user
	// POST /api/nfts
	MintSoulID(c *gin.Context)

	// ListBadges retrieves all badge definitions
	// GET /api/badges
	ListBadges(c *gin.Context)

	// GetUserBadges retrieves a user's earned badges
	// GET /api/users/:userId/badges
	GetUserBadges(c *gin.Context)

	// AssignBadge grants a badge to a user (admin only)
	// POST /api/users/:userId/badges
	AssignBadge(c *gin.Context)

	// ListContributionCategories retrieves all contribution categories
	// GET /api/contribution-categories
	ListContributionCategories(c *gin.Context)

	// GetFlameLog retrieves a user's contribution ledger
	// GET /api/users/:userId/flame-log?limit=<limit>
	GetFlameLog(c *gin.Context)

	// RecordContribution appends a flame log entry
	// POST /api/flame-log
	RecordContribution(c *gin.Context)

	// ListProposals retrieves proposals
	// GET /api/proposals?active=true
	ListProposals(c *gin.Context)

	// GetProposal retrieves a proposal by id
	// GET /api/proposals/:id
	GetProposal(c *gin.Context)

	// CreateProposal creates a proposal
	// POST /api/proposals
	CreateProposal(c *gin.Context)

	// CastVote casts a vote on a proposal
	// POST /api/votes
	CastVote(c *gin.Context)

	// ListTransferRequests retrieves transfer requests
	// GET /api/transfer-requests?status=<status>
	ListTransferRequests(c *gin.Context)

	// CreateTransferRequest submits a transfer request
	// POST /api/transfer-requests
	CreateTransferRequest(c *gin.Context)

	// ReviewTransferRequest approves or rejects a pending request (admin only)
	// PATCH /api/transfer-requests/:id
	ReviewTransferRequest(c *gin.Context)

	// GetDashboard retrieves the admin dashboard aggregates (admin only)
	// GET /api/admin/dashboard
	GetDashboard(c *gin.Context)

	// ListUsers retrieves all users (admin only)
	// GET /api/admin/users
	ListUsers(c *gin.Context)

	// CreateUser creates a user from the back office (admin only)
	// POST /api/admin/users
	CreateUser(c *gin.Context)

	// PromoteUser grants the admin role to a user (admin only)
	// POST /api/admin/promote/:userId
	PromoteUser(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{executor: exec}
}

// parseIDParam parses a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.Login(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.AdminLogin(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) RegisterUser(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	user, err := h.executor.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *handler) GetUserByWallet(c *gin.Context) {
	address := c.Param("address")
	if !domain.IsValidWalletAddress(address) {
		respondBadRequest(c, "Invalid wallet address")
		return
	}

	user, err := h.executor.GetUserByWallet(c.Request.Context(), address)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	if user == nil {
		respondNotFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) GetUserSoulID(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	soulID, err := h.executor.GetActiveSoulID(c.Request.Context(), userID)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	if soulID == nil {
		respondNotFound(c, "Soul ID not found for this user")
		return
	}
	c.JSON(http.StatusOK, soulID)
}

func (h *handler) MintSoulID(c *gin.Context) {
	var req dto.MintSoulIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	soulID, err := h.executor.MintSoulID(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, soulID)
}

func (h *handler) ListBadges(c *gin.Context) {
	badges, err := h.executor.ListBadges(c.Request.Context())
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, badges)
}

func (h *handler) GetUserBadges(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	badges, err := h.executor.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, badges)
}

func (h *handler) AssignBadge(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req dto.AssignBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	userBadge, err := h.executor.AssignBadge(c.Request.Context(), userID, req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userBadge)
}

func (h *handler) ListContributionCategories(c *gin.Context) {
	categories, err := h.executor.ListContributionCategories(c.Request.Context())
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *handler) GetFlameLog(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondBadRequest(c, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	entries, err := h.executor.GetFlameLog(c.Request.Context(), userID, limit)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *handler) RecordContribution(c *gin.Context) {
	var req dto.RecordContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.RecordContribution(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) ListProposals(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	proposals, err := h.executor.ListProposals(c.Request.Context(), activeOnly)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

func (h *handler) GetProposal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	proposal, err := h.executor.GetProposal(c.Request.Context(), id)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	if proposal == nil {
		respondNotFound(c, "Proposal not found")
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func (h *handler) CreateProposal(c *gin.Context) {
	var req dto.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	proposal, err := h.executor.CreateProposal(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

func (h *handler) CastVote(c *gin.Context) {
	var req dto.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	vote, err := h.executor.CastVote(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vote)
}

func (h *handler) ListTransferRequests(c *gin.Context) {
	status := domain.TransferStatus(c.Query("status"))
	if status != "" && status != domain.TransferStatusPending && !domain.IsTerminalTransferStatus(status) {
		respondBadRequest(c, "Invalid status filter")
		return
	}

	requests, err := h.executor.ListTransferRequests(c.Request.Context(), status)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *handler) CreateTransferRequest(c *gin.Context) {
	var req dto.CreateTransferRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	request, err := h.executor.CreateTransferRequest(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *handler) ReviewTransferRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewTransferRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	reviewer := middleware.CurrentUser(c)

	request, err := h.executor.ReviewTransferRequest(c.Request.Context(), id, req, reviewer)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *handler) GetDashboard(c *gin.Context) {
	resp, err := h.executor.GetDashboard(c.Request.Context())
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListUsers(c *gin.Context) {
	users, err := h.executor.ListUsers(c.Request.Context())
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handler) CreateUser(c *gin.Context) {
	var req dto.AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	user, err := h.executor.AdminCreateUser(c.Request.Context(), req)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *handler) PromoteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.executor.PromoteUser(c.Request.Context(), userID)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
