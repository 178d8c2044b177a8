package handlers

import (
	"net/http"
	"strconv"

	"pairquiz/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GameHandler struct {
	gameService  *services.GameService
	queryService *services.GameQueryService
}

func NewGameHandler(gameService *services.GameService, queryService *services.GameQueryService) *GameHandler {
	return &GameHandler{
		gameService:  gameService,
		queryService: queryService,
	}
}

func (h *GameHandler) Connect(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	game, err := h.gameService.Connect(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.gameService.Submit(userID, req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (h *GameHandler) GetCurrentGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	game, err := h.queryService.GetCurrentGame(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) GetGameByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	gameID := c.Param("id")
	if _, err := uuid.Parse(gameID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	game, err := h.queryService.GetGameByID(gameID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) GetMyGames(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page size"})
		return
	}

	sortBy := services.GamesSortBy(c.Query("sort_by"))
	switch sortBy {
	case services.GamesSortByDefault, services.GamesSortByStatus, services.GamesSortByCreatedDate:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort field"})
		return
	}

	direction := services.SortDirection(c.DefaultQuery("sort_direction", string(services.SortDesc)))
	if direction != services.SortAsc && direction != services.SortDesc {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort direction"})
		return
	}

	games, err := h.queryService.ListMyGames(userID, page, pageSize, sortBy, direction)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, games)
}
