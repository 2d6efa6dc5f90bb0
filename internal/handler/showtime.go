package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/clock"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/service"
)

// ShowtimeHandler serves the public movie catalogue and seat
// availability lookups.
type ShowtimeHandler struct {
	inventory service.SeatInventory
	clock     clock.Clock
}

// NewShowtimeHandler returns a handler over the given inventory.
func NewShowtimeHandler(inventory service.SeatInventory, clk clock.Clock) *ShowtimeHandler {
	return &ShowtimeHandler{inventory: inventory, clock: clk}
}

type showtimeResponse struct {
	ID             uint64  `json:"id"`
	ShowDate       string  `json:"showDate"`
	ShowTime       string  `json:"showTime"`
	Hall           string  `json:"hall"`
	TotalSeats     uint32  `json:"totalSeats"`
	AvailableSeats uint32  `json:"availableSeats"`
	Price          float64 `json:"price"`
}

type movieResponse struct {
	ID          uint64             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	DurationMin uint32             `json:"durationMin"`
	Genre       []string           `json:"genre"`
	Language    string             `json:"language"`
	Rating      float64            `json:"rating"`
	ShowTimes   []showtimeResponse `json:"showTimes"`
}

func toShowtimeResponse(s model.Showtime) showtimeResponse {
	return showtimeResponse{
		ID:             s.ID,
		ShowDate:       s.ShowDate.Format("2006-01-02"),
		ShowTime:       s.ShowTime,
		Hall:           s.Hall,
		TotalSeats:     s.TotalSeats,
		AvailableSeats: s.AvailableSeats,
		Price:          centsToAmount(s.PriceCents),
	}
}

// ListMovies handles GET /v1/movies.
func (h *ShowtimeHandler) ListMovies(c echo.Context) error {
	movies, err := h.inventory.ListActiveMovies(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]movieResponse, 0, len(movies))
	for _, m := range movies {
		mr := movieResponse{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			DurationMin: m.DurationMin,
			Genre:       m.Genre,
			Language:    m.Language,
			Rating:      m.Rating,
			ShowTimes:   make([]showtimeResponse, 0, len(m.ShowTimes)),
		}
		for _, s := range m.ShowTimes {
			mr.ShowTimes = append(mr.ShowTimes, toShowtimeResponse(s))
		}
		out = append(out, mr)
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": out})
}

type availabilityResponse struct {
	Available      bool    `json:"available"`
	AvailableSeats uint32  `json:"availableSeats"`
	Price          float64 `json:"price"`
	StartsAt       string  `json:"startsAt"`
}

// GetAvailability handles
// GET /v1/movies/:movieId/showtimes/:showtimeId/availability.  A
// showtime that has already started reports available=false regardless
// of remaining seats.
func (h *ShowtimeHandler) GetAvailability(c echo.Context) error {
	movieID, err := pathID(c, "movieId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	showtimeID, err := pathID(c, "showtimeId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}

	st, err := h.inventory.GetShowtime(c.Request().Context(), movieID, showtimeID)
	if err != nil {
		return writeError(c, err)
	}

	startsAt := st.StartsAt()
	available := st.AvailableSeats > 0 && startsAt.After(h.clock.Now())
	return c.JSON(http.StatusOK, availabilityResponse{
		Available:      available,
		AvailableSeats: st.AvailableSeats,
		Price:          centsToAmount(st.PriceCents),
		StartsAt:       startsAt.UTC().Format(time.RFC3339),
	})
}
