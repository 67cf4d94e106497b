package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ServerArgs are the mandatory args to instantiate the Server.
type ServerArgs struct {
	// Profiles is the profile usecase.
	Profiles profileUsecase

	// Matches is the match-listing usecase.
	Matches matchUsecase

	// Rooms is the room usecase.
	Rooms roomUsecase

	// Connections is the connection usecase.
	Connections connectionUsecase

	// Concerts is the concert-listing usecase.
	Concerts concertUsecase
}

// NewServer creates the HTTP transport and wires its routes.
func NewServer(args ServerArgs) *Server {
	s := &Server{
		profiles:    args.Profiles,
		matches:     args.Matches,
		rooms:       args.Rooms,
		connections: args.Connections,
		concerts:    args.Concerts,
	}

	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())

	router.GET("/healthz", s.health)

	api := router.Group("/api")
	{
		api.POST("/users", s.saveProfile)
		api.GET("/users/:email", s.getProfile)
		api.POST("/users/:email/taste-sync", s.syncTaste)

		api.GET("/matches", s.listMatches)

		api.POST("/rooms/join", s.joinRoom)
		api.GET("/rooms/joined", s.roomJoined)
		api.GET("/rooms/people", s.listRoomMatches)
		api.GET("/rooms/:concertID/messages", s.listMessages)
		api.POST("/rooms/:concertID/messages", s.postMessage)

		api.POST("/connect", s.requestConnection)
		api.GET("/connect/status", s.connectionStatus)
		api.POST("/connections/:id/accept", s.acceptConnection)
		api.GET("/connections", s.listConnections)

		api.GET("/events", s.upcomingConcerts)
	}

	s.router = router
	return s
}

// Server implements the HTTP API on top of the core usecases.
type Server struct {
	router      *gin.Engine
	profiles    profileUsecase
	matches     matchUsecase
	rooms       roomUsecase
	connections connectionUsecase
	concerts    concertUsecase
}

// Handler exposes the router for an http.Server or test harness.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type saveProfileRequest struct {
	Email            string                  `json:"email" binding:"required"`
	Name             string                  `json:"name"`
	MusicPreferences *model.MusicPreferences `json:"music_preferences"`
	Budget           string                  `json:"budget"`
	ConcertVibes     []string                `json:"concert_vibes"`
	ProfileImage     string                  `json:"profile_image"`
}

func (s *Server) saveProfile(c *gin.Context) {
	var req saveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.profiles.SaveProfile(c.Request.Context(), model.SaveProfileArgs{
		Email:            req.Email,
		Name:             req.Name,
		MusicPreferences: req.MusicPreferences,
		Budget:           model.Budget(req.Budget),
		ConcertVibes:     req.ConcertVibes,
		ProfileImage:     req.ProfileImage,
	})
	if err != nil {
		abortWithError(c, "SaveProfile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": resp.Profile})
}

func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.profiles.GetProfile(c.Request.Context(), c.Param("email"))
	if err != nil {
		abortWithError(c, "GetProfile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

type syncTasteRequest struct {
	Username string `json:"username" binding:"required"`
}

func (s *Server) syncTaste(c *gin.Context) {
	var req syncTasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.profiles.SyncTaste(c.Request.Context(), model.SyncTasteArgs{
		Email:    c.Param("email"),
		Username: req.Username,
	})
	if err != nil {
		abortWithError(c, "SyncTaste", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"music_preferences": resp.Preferences})
}

func (s *Server) listMatches(c *gin.Context) {
	email := c.Query("email")
	concertID := c.Query("concert_id")

	var resp *model.ListMatchesResponse
	var err error
	if concertID != "" {
		resp, err = s.matches.ListRoomMatches(c.Request.Context(), model.ListRoomMatchesArgs{
			RequesterEmail: email,
			ConcertID:      concertID,
		})
	} else {
		resp, err = s.matches.ListMatches(c.Request.Context(), model.ListMatchesArgs{RequesterEmail: email})
	}
	if err != nil {
		abortWithError(c, "ListMatches", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": resp.Matches})
}

func (s *Server) listRoomMatches(c *gin.Context) {
	resp, err := s.matches.ListRoomMatches(c.Request.Context(), model.ListRoomMatchesArgs{
		RequesterEmail: c.Query("email"),
		ConcertID:      c.Query("concert_id"),
	})
	if err != nil {
		abortWithError(c, "ListRoomMatches", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": resp.Matches})
}

type joinRoomRequest struct {
	Email       string `json:"email" binding:"required"`
	ConcertID   string `json:"concert_id" binding:"required"`
	ConcertName string `json:"concert_name"`
}

func (s *Server) joinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.rooms.Join(c.Request.Context(), model.JoinRoomArgs{
		Email:       req.Email,
		ConcertID:   req.ConcertID,
		ConcertName: req.ConcertName,
	}); err != nil {
		abortWithError(c, "JoinRoom", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": true})
}

func (s *Server) roomJoined(c *gin.Context) {
	joined, err := s.rooms.IsMember(c.Request.Context(), c.Query("email"), c.Query("concert_id"))
	if err != nil {
		abortWithError(c, "RoomJoined", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": joined})
}

func (s *Server) listMessages(c *gin.Context) {
	msgs, err := s.rooms.Messages(c.Request.Context(), c.Param("concertID"))
	if err != nil {
		abortWithError(c, "ListMessages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type postMessageRequest struct {
	SenderEmail string `json:"sender_email" binding:"required"`
	Text        string `json:"text" binding:"required"`
}

func (s *Server) postMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.rooms.PostMessage(c.Request.Context(), model.PostMessageArgs{
		ConcertID:   c.Param("concertID"),
		SenderEmail: req.SenderEmail,
		Text:        req.Text,
	})
	if err != nil {
		abortWithError(c, "PostMessage", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": resp.Message})
}

type requestConnectionRequest struct {
	Requester string `json:"requester" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
	ConcertID string `json:"concert_id" binding:"required"`
}

func (s *Server) requestConnection(c *gin.Context) {
	var req requestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.connections.Request(c.Request.Context(), model.RequestConnectionArgs{
		Requester: req.Requester,
		Recipient: req.Recipient,
		ConcertID: req.ConcertID,
	})
	if err != nil {
		abortWithError(c, "RequestConnection", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connection": resp.Connection, "created": resp.Created})
}

func (s *Server) connectionStatus(c *gin.Context) {
	resp, err := s.connections.Status(c.Request.Context(), model.ConnectionStatusArgs{
		Requester: c.Query("requester"),
		Recipient: c.Query("recipient"),
		ConcertID: c.Query("concert_id"),
	})
	if err != nil {
		abortWithError(c, "ConnectionStatus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connection": resp.Connection, "status": resp.Connection.Status})
}

type acceptConnectionRequest struct {
	ActorEmail string `json:"actor_email"`
}

func (s *Server) acceptConnection(c *gin.Context) {
	var req acceptConnectionRequest
	// the body is optional in permissive mode
	_ = c.ShouldBindJSON(&req)

	resp, err := s.connections.Accept(c.Request.Context(), model.AcceptConnectionArgs{
		ConnectionID: c.Param("id"),
		ActorEmail:   req.ActorEmail,
	})
	if err != nil {
		abortWithError(c, "AcceptConnection", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connection": resp.Connection})
}

func (s *Server) listConnections(c *gin.Context) {
	conns, err := s.connections.List(c.Request.Context(), c.Query("email"))
	if err != nil {
		abortWithError(c, "ListConnections", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": conns})
}

func (s *Server) upcomingConcerts(c *gin.Context) {
	var maxResults int
	if raw := c.Query("max_results"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_results must be an integer"})
			return
		}
		maxResults = parsed
	}

	resp, err := s.concerts.Upcoming(c.Request.Context(), model.UpcomingConcertsArgs{
		Query:      c.Query("q"),
		MaxResults: maxResults,
	})
	if err != nil {
		abortWithError(c, "UpcomingConcerts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"concerts": resp.Concerts})
}

// abortWithError maps core errors onto HTTP statuses. Unexpected errors are
// logged and hidden behind a generic message.
func abortWithError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, model.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service unavailable"})
	default:
		log.WithError(err).Errorf("error invoking usecase %s", operation)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type profileUsecase interface {
	// SaveProfile merges a profile write.
	SaveProfile(ctx context.Context, args model.SaveProfileArgs) (*model.SaveProfileResponse, error)

	// GetProfile reads one profile.
	GetProfile(ctx context.Context, email string) (*model.UserProfile, error)

	// SyncTaste pulls listening history into the profile.
	SyncTaste(ctx context.Context, args model.SyncTasteArgs) (*model.SyncTasteResponse, error)
}

type matchUsecase interface {
	// ListMatches ranks the global population.
	ListMatches(ctx context.Context, args model.ListMatchesArgs) (*model.ListMatchesResponse, error)

	// ListRoomMatches ranks one room's roster.
	ListRoomMatches(ctx context.Context, args model.ListRoomMatchesArgs) (*model.ListMatchesResponse, error)
}

type roomUsecase interface {
	// Join adds a user to a concert room.
	Join(ctx context.Context, args model.JoinRoomArgs) error

	// IsMember reports room membership.
	IsMember(ctx context.Context, email, concertID string) (bool, error)

	// PostMessage appends a chat message.
	PostMessage(ctx context.Context, args model.PostMessageArgs) (*model.PostMessageResponse, error)

	// Messages lists a room's chat.
	Messages(ctx context.Context, concertID string) ([]model.RoomMessage, error)
}

type connectionUsecase interface {
	// Request creates or reports the pair's connection.
	Request(ctx context.Context, args model.RequestConnectionArgs) (*model.RequestConnectionResponse, error)

	// Accept marks a connection accepted.
	Accept(ctx context.Context, args model.AcceptConnectionArgs) (*model.AcceptConnectionResponse, error)

	// Status reads the pair's connection state.
	Status(ctx context.Context, args model.ConnectionStatusArgs) (*model.ConnectionStatusResponse, error)

	// List returns a user's connections.
	List(ctx context.Context, email string) ([]model.Connection, error)
}

type concertUsecase interface {
	// Upcoming lists cleaned upcoming concerts.
	Upcoming(ctx context.Context, args model.UpcomingConcertsArgs) (*model.UpcomingConcertsResponse, error)
}
