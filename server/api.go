package server

import (
	"net/http"
	"time"

	"github.com/cyclopcam/halo/server/detect"
	"github.com/cyclopcam/halo/server/overlay"
	"github.com/cyclopcam/halo/server/www"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type statusJSON struct {
	State          overlay.State            `json:"state"`
	Recent         []detect.RecentDetection `json:"recent"`
	Viewers        int                      `json:"viewers"`
	Debug          bool                     `json:"debug"`
	AvgRenderMS    float64                  `json:"avgRenderMS"`
	AvgDetectMS    float64                  `json:"avgDetectMS"`
	UptimeSeconds  float64                  `json:"uptimeSeconds"`
	ViewportWidth  int                      `json:"viewportWidth"`
	ViewportHeight int                      `json:"viewportHeight"`
}

type debugJSON struct {
	Debug bool `json:"debug"`
}

// port example: ":8080"
func (s *Server) SetupHTTP(port string) error {
	router := httprouter.New()
	www.Handle(s.Log, router, "GET", "/api/status", s.httpStatus)
	www.Handle(s.Log, router, "GET", "/api/snapshot", s.httpSnapshot)
	www.Handle(s.Log, router, "POST", "/api/debug", s.httpSetDebug)
	www.Handle(s.Log, router, "GET", "/ws/live", s.httpLiveWebSocket)

	s.Log.Infof("Listening on %v", port)
	return http.ListenAndServe(port, router)
}

func (s *Server) httpStatus(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	www.SendJSON(w, &statusJSON{
		State:          s.exchange.Snapshot(),
		Recent:         s.runner.Recent(),
		Viewers:        s.hub.NumViewers(),
		Debug:          s.loop.Debug(),
		AvgRenderMS:    float64(s.loop.AvgTimeNSPerRender) / 1e6,
		AvgDetectMS:    float64(s.runner.AvgTimeNSPerDetection) / 1e6,
		UptimeSeconds:  time.Now().Sub(s.startedAt).Seconds(),
		ViewportWidth:  s.Config.ViewportWidth,
		ViewportHeight: s.Config.ViewportHeight,
	})
}

func (s *Server) httpSnapshot(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	jpg := s.hub.LastJPEG()
	if jpg == nil {
		www.PanicNotFound()
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(jpg)
}

func (s *Server) httpSetDebug(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	body := debugJSON{}
	www.ReadJSON(r, &body)
	s.loop.SetDebug(body.Debug)
	www.SendOK(w)
}

func (s *Server) httpLiveWebSocket(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	s.hub.HandleConnection(conn)
}
