package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devshowcase/showcase-api/internal/api/middleware"
	"github.com/devshowcase/showcase-api/internal/core/ports"
	"github.com/devshowcase/showcase-api/internal/realtime"
)

// RealtimeHandler upgrades authenticated clients to the notification channel.
type RealtimeHandler struct {
	resolver ports.IdentityResolver
	projects ports.ProjectVisibility
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewRealtimeHandler accepts browser origins listed in allowedOrigins; "*"
// accepts any origin. Comment rooms can only be joined for projects the
// connected user may read.
func NewRealtimeHandler(resolver ports.IdentityResolver, projects ports.ProjectVisibility, hub *realtime.Hub, allowedOrigins []string, log zerolog.Logger) *RealtimeHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	_, allowAll := origins["*"]

	return &RealtimeHandler{
		resolver: resolver,
		projects: projects,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowAll {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		log: log.With().Str("component", "realtime").Logger(),
	}
}

// Connect handles GET /ws. The token comes from the handshake Authorization
// header, bare or as "Bearer <token>". Failed checks answer 401 without
// upgrading.
//
// @Summary      Open the realtime notification channel
// @Description  Send {"event":"comment","data":"<projectId>"} to follow a project's comments and {"event":"leave","data":"<projectId>"} to stop. New comments arrive as {"event":"newComment","data":{...}}.
// @Tags         realtime
// @Security     BearerAuth
// @Success      101
// @Failure      401  {object}  errorResponse
// @Router       /ws [get]
func (h *RealtimeHandler) Connect(c echo.Context) error {
	token := middleware.TokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication error")
	}
	user, err := h.resolver.Authenticate(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication error")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	guard := func(projectID string) bool {
		return h.projects.Visible(context.Background(), projectID, user) == nil
	}
	realtime.Serve(conn, h.hub.Register(user.ID, realtime.WithJoinGuard(guard)), h.log)
	return nil
}
