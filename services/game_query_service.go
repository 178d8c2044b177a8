package services

import (
	"errors"
	"math"

	"pairquiz/apperrors"
	"pairquiz/models"

	"gorm.io/gorm"
)

// GameQueryService is the read-only surface: current game, game by id with
// access control, and the paginated history. No business rules live here
// beyond retrieval and ordering.
type GameQueryService struct {
	db    *gorm.DB
	cache GameViews
}

func NewGameQueryService(db *gorm.DB, cache GameViews) *GameQueryService {
	return &GameQueryService{db: db, cache: cache}
}

type GamesSortBy string

const (
	// GamesSortByDefault: unfinished games first, then most recently
	// finished. This is the default history ordering.
	GamesSortByDefault     GamesSortBy = ""
	GamesSortByStatus      GamesSortBy = "status"
	GamesSortByCreatedDate GamesSortBy = "createdDate"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const defaultPageSize = 10

// Ordering keys resolved before the query is built, so the sort policy is
// testable independent of gorm.
const (
	statusPriorityExpr  = "CASE games.status WHEN 'Active' THEN 0 WHEN 'PendingSecondPlayer' THEN 1 ELSE 2 END"
	unfinishedFirstExpr = "CASE WHEN games.finished_at IS NULL THEN 0 ELSE 1 END"
)

// orderingFor maps a sort selection to the concrete ORDER BY clauses.
func orderingFor(sortBy GamesSortBy, direction SortDirection) []string {
	dir := "DESC"
	if direction == SortAsc {
		dir = "ASC"
	}

	switch sortBy {
	case GamesSortByStatus:
		return []string{statusPriorityExpr + " " + dir, "games.created_at DESC"}
	case GamesSortByCreatedDate:
		return []string{"games.created_at " + dir}
	default:
		return []string{unfinishedFirstExpr + " ASC", "games.finished_at DESC", "games.created_at DESC"}
	}
}

// GetCurrentGame returns the user's single open game, pending or active.
func (s *GameQueryService) GetCurrentGame(userID string) (*GameView, error) {
	var game models.Game
	err := s.db.Model(&models.Game{}).
		Select("games.*").
		Joins("JOIN players AS me ON me.game_id = games.id AND me.user_id = ?", userID).
		Where("games.status IN ?", []string{models.GameStatusPendingSecondPlayer, models.GameStatusActive}).
		First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Game", "no open game for user")
	}
	if err != nil {
		return nil, err
	}

	return s.gameView(game.ID)
}

// GetGameByID returns the game for one of its participants. An unknown id
// is NotFound; an existing game without a seat for this user is Forbidden,
// so non-participants learn nothing about a game beyond a 403.
func (s *GameQueryService) GetGameByID(gameID, userID string) (*GameView, error) {
	if view := s.cache.Get(gameID); view != nil {
		if !view.HasParticipant(userID) {
			return nil, apperrors.Forbidden("Game", "user is not a participant of this game")
		}
		return view, nil
	}

	var game models.Game
	err := s.db.First(&game, "id = ?", gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Game", "game not found")
	}
	if err != nil {
		return nil, err
	}

	view, err := s.gameView(gameID)
	if err != nil {
		return nil, err
	}
	if !view.HasParticipant(userID) {
		return nil, apperrors.Forbidden("Game", "user is not a participant of this game")
	}
	return view, nil
}

// ListMyGames pages through every game the user participated in, any
// status, under the selected ordering.
func (s *GameQueryService) ListMyGames(userID string, page, pageSize int, sortBy GamesSortBy, direction SortDirection) (*PaginatedGamesView, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	var totalCount int64
	if err := s.db.Model(&models.Game{}).
		Joins("JOIN players AS me ON me.game_id = games.id AND me.user_id = ?", userID).
		Count(&totalCount).Error; err != nil {
		return nil, err
	}

	query := s.db.Model(&models.Game{}).
		Joins("JOIN players AS me ON me.game_id = games.id AND me.user_id = ?", userID)
	for _, clause := range orderingFor(sortBy, direction) {
		query = query.Order(clause)
	}

	var gameIDs []string
	if err := query.
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Pluck("games.id", &gameIDs).Error; err != nil {
		return nil, err
	}

	items := make([]*GameView, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		game, err := loadGameWithRelations(s.db, gameID)
		if err != nil {
			return nil, err
		}
		items = append(items, NewGameView(game))
	}

	return &PaginatedGamesView{
		PagesCount: int(math.Ceil(float64(totalCount) / float64(pageSize))),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		Items:      items,
	}, nil
}

// gameView projects without touching the cache. Reads never Store: between
// loading here and storing, a mutation could commit and invalidate, and the
// late store would then pin the pre-mutation snapshot until the TTL runs out.
func (s *GameQueryService) gameView(gameID string) (*GameView, error) {
	game, err := loadGameWithRelations(s.db, gameID)
	if err != nil {
		return nil, err
	}
	return NewGameView(game), nil
}
