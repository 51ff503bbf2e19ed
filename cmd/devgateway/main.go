// devgateway is a development stand-in for the nano-midea backend: it
// serves fixture data in the real REST envelope shapes and replays a
// scripted event stream over the websocket endpoint, so the client SDK can
// be exercised end-to-end without production services.
package main

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/events"
	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/anonto42/nano-midea/appclient/internal/notifications"
	"github.com/anonto42/nano-midea/appclient/validators"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// Fixtures is the dataset the gateway serves and replays.
type Fixtures struct {
	Notifications []notifications.Wire              `json:"notifications"`
	UnreadCount   int                               `json:"unread_count"`
	Blocks        map[uint]models.BlockRelationship `json:"blocks"`
	Posts         []models.Post                     `json:"posts"`
	Rooms         []models.Room                     `json:"rooms"`
	Messages      map[string][]models.Message       `json:"messages"`
	Sessions      []models.Session                  `json:"sessions"`
	Events        []events.Envelope                 `json:"events"`

	// ReplayDelayMS spaces the replayed events out.
	ReplayDelayMS int `json:"replay_delay_ms"`
}

func loadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Fixtures
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.ReplayDelayMS <= 0 {
		f.ReplayDelayMS = 100
	}
	return &f, nil
}

type server struct {
	fixtures *Fixtures
	upgrader websocket.Upgrader
}

func main() {
	port := getEnv("PORT", "8081")
	fixturePath := getEnv("FIXTURES", "./fixtures.json")

	fixtures, err := loadFixtures(fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	s := &server{
		fixtures: fixtures,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	e := echo.New()
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Validator = validators.NewValidator()

	api := e.Group("/api/v1")
	api.GET("/notifications", s.getNotifications)
	api.GET("/notifications/unread-count", s.getUnreadCount)
	api.PUT("/notifications/:id/read", okHandler)
	api.PUT("/notifications/read-all", okHandler)
	api.GET("/users/blocks", s.getBlocks)
	api.GET("/feed", s.getFeed)
	api.GET("/users/:id/posts", s.getUserPosts)
	api.GET("/chat/rooms", s.getRooms)
	api.GET("/chat/rooms/:id/messages", s.getRoomMessages)
	api.GET("/sessions/history", s.getSessions)
	api.GET("/sessions/:id/status", s.getSessionStatus)

	e.GET("/ws", s.serveWS)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	e.Logger.Fatal(e.Start(":" + port))
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// page slices items for the requested page and builds the standard meta
// block.
func page[T any](c echo.Context, items []T) ([]T, echo.Map) {
	pageNum, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 || limit > 500 {
		limit = 20
	}

	total := len(items)
	start := (pageNum - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	meta := echo.Map{
		"currentPage":     pageNum,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     pageNum < totalPages,
		"hasPreviousPage": pageNum > 1,
	}
	return items[start:end], meta
}

func (s *server) getNotifications(c echo.Context) error {
	items, meta := page(c, s.fixtures.Notifications)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"notifications": items},
		"meta":    meta,
	})
}

func (s *server) getUnreadCount(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"count": s.fixtures.UnreadCount},
	})
}

func (s *server) getBlocks(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"blocks": s.fixtures.Blocks},
	})
}

func (s *server) getFeed(c echo.Context) error {
	items, meta := page(c, s.fixtures.Posts)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": items},
		"meta":    meta,
	})
}

func (s *server) getUserPosts(c echo.Context) error {
	items, meta := page(c, s.fixtures.Posts)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": items},
		"meta":    meta,
	})
}

func (s *server) getRooms(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"rooms": s.fixtures.Rooms},
	})
}

func (s *server) getRoomMessages(c echo.Context) error {
	items, meta := page(c, s.fixtures.Messages[c.Param("id")])
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"messages": items},
		"meta":    meta,
	})
}

func (s *server) getSessions(c echo.Context) error {
	items, meta := page(c, s.fixtures.Sessions)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"sessions": items},
		"meta":    meta,
	})
}

func (s *server) getSessionStatus(c echo.Context) error {
	id := c.Param("id")
	for _, sess := range s.fixtures.Sessions {
		if sess.ID == id {
			return c.JSON(http.StatusOK, echo.Map{
				"success": true,
				"data": models.SessionStatus{
					ID:      sess.ID,
					Ended:   sess.EndedAt != nil,
					EndedAt: sess.EndedAt,
				},
			})
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Session not found")
}

// serveWS upgrades the connection and replays the scripted events in order.
func (s *server) serveWS(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	delay := time.Duration(s.fixtures.ReplayDelayMS) * time.Millisecond
	for _, env := range s.fixtures.Events {
		if err := conn.WriteJSON(env); err != nil {
			return nil
		}
		time.Sleep(delay)
	}

	// Script done; keep the connection open and answer pings until the
	// client hangs up.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
