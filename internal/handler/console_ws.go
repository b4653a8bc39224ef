package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"clamio/config"
	"clamio/internal/auth"
	"clamio/internal/domain"
	"clamio/internal/repository"
	"clamio/internal/triage"
	"clamio/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// consoleCommand is one operator action on the triage console.
type consoleCommand struct {
	Action   string `json:"action"` // filter | page | refresh | open | notes | resolve | dismiss
	Status   string `json:"status"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	ID       uint   `json:"id"`
	Notes    string `json:"notes"`
	Reason   string `json:"reason"`
}

// socketStats pushes fresh aggregate counts to one console session after a
// resolve confirms.
type socketStats struct {
	repo *repository.NotificationRepository
	send func(payload interface{})
}

func (s *socketStats) RefreshStats() {
	stats, err := s.repo.Stats()
	if err != nil {
		return
	}
	s.send(map[string]interface{}{"kind": "stats", "stats": stats})
}

// UpgradeConsoleWS runs one triage presenter per admin console connection.
// Commands arrive as JSON; page updates and command results stream back.
func UpgradeConsoleWS(cfg *config.Config, repo *repository.NotificationRepository) gin.HandlerFunc {
	consoleUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     ws.OriginChecker(cfg.Server.AllowedOrigin),
	}
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(&cfg.JWT, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.Role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		conn, err := consoleUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		out := make(chan []byte, 64)
		send := func(payload interface{}) {
			data, _ := json.Marshal(payload)
			select {
			case out <- data:
			default:
			}
		}

		presenter := triage.NewPresenter(repo, &socketStats{repo: repo, send: send}, claims.UserID)
		presenter.OnUpdate(func(page triage.Page) {
			items := make([]map[string]interface{}, 0, len(page.Items))
			for _, n := range page.Items {
				items = append(items, map[string]interface{}{
					"notification":   n,
					"severity_icon":  triage.SeverityIcon(n.Severity),
					"severity_color": triage.SeverityColor(n.Severity),
					"status_icon":    triage.StatusIcon(n.Status),
					"status_color":   triage.StatusColor(n.Status),
				})
			}
			send(map[string]interface{}{"kind": "page", "items": items, "total": page.Total})
		})

		go consoleWritePump(conn, out)
		defer close(out)

		presenter.Refresh()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				presenter.Wait()
				return
			}
			var cmd consoleCommand
			if err := json.Unmarshal(data, &cmd); err != nil {
				send(map[string]interface{}{"kind": "error", "error": "malformed command"})
				continue
			}
			handleConsoleCommand(presenter, cmd, send)
		}
	}
}

func handleConsoleCommand(p *triage.Presenter, cmd consoleCommand, send func(interface{})) {
	switch cmd.Action {
	case "filter":
		p.SetStatus(cmd.Status)
		p.SetType(cmd.Type)
		p.SetSeverity(cmd.Severity)
		p.SetSearch(cmd.Search)
		p.Refresh()
	case "page":
		p.SetPage(cmd.Page)
		p.Refresh()
	case "refresh":
		p.Refresh()
	case "open":
		n, err := p.Open(cmd.ID)
		if err != nil {
			send(map[string]interface{}{"kind": "error", "error": err.Error()})
			return
		}
		send(map[string]interface{}{"kind": "detail", "notification": n})
	case "notes":
		p.SetNotes(cmd.Notes)
	case "resolve":
		if err := p.Resolve(cmd.ID, cmd.Notes); err != nil {
			send(map[string]interface{}{"kind": "error", "error": err.Error()})
			return
		}
		send(map[string]interface{}{"kind": "resolved", "id": cmd.ID})
		p.Refresh()
	case "dismiss":
		if err := p.Dismiss(cmd.ID, cmd.Reason); err != nil {
			send(map[string]interface{}{"kind": "error", "error": err.Error()})
			return
		}
		send(map[string]interface{}{"kind": "dismissed", "id": cmd.ID})
		p.Refresh()
	default:
		send(map[string]interface{}{"kind": "error", "error": "unknown action"})
	}
}

func consoleWritePump(conn *websocket.Conn, out <-chan []byte) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-out:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
