package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AngelCh415/marketing-dashboard/internal/dashboard"
	"github.com/AngelCh415/marketing-dashboard/internal/models"
	"github.com/AngelCh415/marketing-dashboard/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096}

// wsCommand is sent by clients. Type is one of "filter", "sort", "toggle".
type wsCommand struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type wsFrame struct {
	Type string `json:"type"`
	snapshot
	Error string `json:"error,omitempty"`
}

// serveWS streams a snapshot on connect and after every dashboard change.
// Filter input is debounced per connection.
func serveWS(log *slog.Logger, quiet time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := dashboard.FromContext(r.Context())
		rid := utils.RID(r.Context())

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", slog.String("rid", rid), slog.String("err", err.Error()))
			return
		}
		defer conn.Close()

		updates, cancel := d.Subscribe()
		defer cancel()

		deb := dashboard.NewDebouncer(quiet, func(v string) {
			d.SetFilter(models.FilterPatch{Channel: &v})
		})
		defer deb.Stop()

		errs := make(chan string, 8)
		done := make(chan struct{})
		go writePump(conn, d, updates, errs, done)
		defer close(done)

		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		for {
			var cmd wsCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("ws read", slog.String("rid", rid), slog.String("err", err.Error()))
				}
				return
			}
			switch cmd.Type {
			case "filter":
				deb.Push(cmd.Value)
			case "sort":
				col, err := models.ParseSortColumn(cmd.Value)
				if err != nil {
					report(errs, err.Error())
					continue
				}
				d.SetSort(col)
			case "toggle":
				d.ToggleRegion(cmd.Value)
			default:
				report(errs, "unknown command type "+cmd.Type)
			}
		}
	}
}

// writePump is the only writer on conn.
func writePump(conn *websocket.Conn, d *dashboard.Dashboard, updates <-chan struct{}, errs <-chan string, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	send := func(f wsFrame) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(f) == nil
	}
	state := func() wsFrame {
		return wsFrame{Type: "state", snapshot: snapshot{State: d.State(), Totals: d.Totals()}}
	}

	if !send(state()) {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-updates:
			if !send(state()) {
				return
			}
		case msg := <-errs:
			if !send(wsFrame{Type: "error", Error: msg}) {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func report(errs chan<- string, msg string) {
	select {
	case errs <- msg:
	default:
	}
}
