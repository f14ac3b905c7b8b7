package restapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio_viewer/internal/app/port"
	"portfolio_viewer/internal/domain/entity"
)

const (
	errInvalidAddress   = "Invalid Ethereum address"
	errInvalidMaxTokens = "Invalid maxTokens parameter"
	errPortfolioFailure = "Failed to fetch portfolio data"
)

// PortfolioHandler serves portfolio lookups.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	defaultMaxTokens int
	logger           *zap.Logger
}

func NewPortfolioHandler(ps port.PortfolioService, defaultMaxTokens int, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		defaultMaxTokens: defaultMaxTokens,
		logger:           logger.Named("PortfolioHandler"),
	}
}

// GetPortfolioHandler handles GET /portfolio/:address.
//
// Query parameters:
//   - maxTokens: positive integer, defaults to the configured limit; anything else is a 400
//   - includeZeroBalances: zero balances are kept unless this is exactly "false"
//   - includeNative: the native coin is added only when this is exactly "true"
func (h *PortfolioHandler) GetPortfolioHandler(c *gin.Context) {
	address := c.Param("address")
	if !entity.IsValidAddress(address) {
		newErrorResponse(c, http.StatusBadRequest, errInvalidAddress, "")
		return
	}

	maxTokens, err := h.parseMaxTokens(c.Query("maxTokens"))
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, errInvalidMaxTokens, err.Error())
		return
	}

	opts := entity.PortfolioOptions{
		MaxTokens:           maxTokens,
		IncludeZeroBalances: c.Query("includeZeroBalances") != "false",
		IncludeNative:       c.Query("includeNative") == "true",
	}

	portfolio, err := h.portfolioService.BuildPortfolio(c.Request.Context(), address, opts)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidAddress) {
			newErrorResponse(c, http.StatusBadRequest, errInvalidAddress, "")
			return
		}
		_ = c.Error(err)
		h.logger.Error("Failed to build portfolio", zap.String("address", address), zap.Error(err))
		newErrorResponse(c, http.StatusInternalServerError, errPortfolioFailure, err.Error())
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

func (h *PortfolioHandler) parseMaxTokens(raw string) (int, error) {
	if raw == "" {
		return h.defaultMaxTokens, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("maxTokens must be a positive integer, got %q", raw)
	}
	return n, nil
}

// HealthHandler answers liveness probes.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
