package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"staff-directory/domain/directory"
	"staff-directory/domain/dto"
	"staff-directory/domain/services"
	websocketManager "staff-directory/infrastructure/websocket"
	websocketHandler "staff-directory/interfaces/api/websocket"
	"staff-directory/pkg/logger"
	"staff-directory/pkg/utils"
)

type DirectoryHandler struct {
	directoryService services.DirectoryService
	rosterService    services.RosterService
}

func NewDirectoryHandler(directoryService services.DirectoryService, rosterService services.RosterService) *DirectoryHandler {
	return &DirectoryHandler{
		directoryService: directoryService,
		rosterService:    rosterService,
	}
}

// SearchPeople filters the roster by name or email
// @Summary Search the staff directory
// @Tags Directory
// @Produce json
// @Param q query string false "Case-insensitive substring of name or email"
// @Success 200 {object} utils.Response
// @Router /api/v1/directory/people [get]
func (h *DirectoryHandler) SearchPeople(c *fiber.Ctx) error {
	query := c.Query("q")
	rows := h.directoryService.Search(c.UserContext(), query)
	return utils.SuccessResponse(c, "People retrieved successfully", dto.RowsToListResponse(query, rows))
}

// GetPerson returns one person and their locate action
// @Summary Get a person
// @Tags Directory
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/directory/people/{id} [get]
func (h *DirectoryHandler) GetPerson(c *fiber.Ctx) error {
	id, err := personID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid person ID", err)
	}

	row, err := h.directoryService.GetPerson(c.UserContext(), id)
	if err != nil {
		return directoryError(c, err)
	}
	return utils.SuccessResponse(c, "Person retrieved successfully", dto.RowToEntryResponse(*row))
}

// GetLocation resolves a person's location code
// @Summary Resolve a person's location
// @Tags Directory
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/directory/people/{id}/location [get]
func (h *DirectoryHandler) GetLocation(c *fiber.Ctx) error {
	id, err := personID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid person ID", err)
	}

	loc, err := h.directoryService.ResolveLocation(c.UserContext(), id)
	if err != nil {
		return directoryError(c, err)
	}
	return utils.SuccessResponse(c, "Location resolved", dto.LocationToLocationResponse(*loc))
}

// GetSeatMap returns the person's floor map with their seat highlighted
// @Summary Get a person's seat map
// @Tags Directory
// @Produce image/svg+xml
// @Param id path int true "Person ID"
// @Success 200 {string} string "SVG document"
// @Failure 409 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /api/v1/directory/people/{id}/seat-map [get]
func (h *DirectoryHandler) GetSeatMap(c *fiber.Ctx) error {
	id, err := personID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid person ID", err)
	}

	seatMap, err := h.directoryService.RenderSeatMap(c.UserContext(), id)
	if err != nil {
		return directoryError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/svg+xml")
	c.Set("X-Floor-Id", seatMap.FloorID)
	c.Set("X-Seat-Highlighted", strconv.FormatBool(seatMap.Highlighted))
	return c.Send(seatMap.SVG)
}

// ListFloors returns the floors that have a map configured
// @Summary List floor maps
// @Tags Directory
// @Produce json
// @Success 200 {object} utils.Response
// @Router /api/v1/directory/floors [get]
func (h *DirectoryHandler) ListFloors(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Floors retrieved successfully", dto.FloorsToFloorResponses(h.directoryService.Floors()))
}

// GetRosterStatus describes the current roster snapshot
// @Summary Roster status
// @Tags Directory
// @Produce json
// @Success 200 {object} utils.Response
// @Router /api/v1/directory/roster [get]
func (h *DirectoryHandler) GetRosterStatus(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Roster status retrieved", h.rosterService.Status())
}

// RefreshRoster reloads the roster from the store
// @Summary Refresh the roster
// @Tags Directory
// @Security AdminToken
// @Produce json
// @Success 200 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /api/v1/directory/roster/refresh [post]
func (h *DirectoryHandler) RefreshRoster(c *fiber.Ctx) error {
	roster, err := h.rosterService.Refresh(c.UserContext())
	if err != nil {
		return directoryError(c, err)
	}

	logger.Roster("manual_refresh", "Roster refreshed on request", map[string]interface{}{"size": len(roster), "ip": c.IP()})
	websocketManager.Manager.Broadcast(websocketHandler.MessageRosterRefresh, fiber.Map{"size": len(roster)})

	return utils.SuccessResponse(c, "Roster refreshed", h.rosterService.Status())
}

func personID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("person ID must be positive")
	}
	return uint(id), nil
}

// directoryError maps directory failures to HTTP responses. Anything else
// goes to the central error handler.
func directoryError(c *fiber.Ctx, err error) error {
	var mapErr *directory.MapFetchError
	var fetchErr *directory.DataFetchError

	switch {
	case errors.Is(err, directory.ErrPersonNotFound):
		return utils.NotFoundResponse(c, "Person not found")
	case errors.Is(err, directory.ErrNotActionable):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Location cannot be shown on a floor map", err)
	case errors.As(err, &mapErr):
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Floor map unavailable", err)
	case errors.As(err, &fetchErr):
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Directory store unavailable", err)
	default:
		return err
	}
}
