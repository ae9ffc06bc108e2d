package streamer

import (
	"sync"
	"time"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/logs"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Number of encoded frames we will buffer per viewer before dropping.
// A slow viewer drops frames; it never stalls the display loop.
const viewerSendBufferSize = 8

const jpegQuality = 85

// Hub is the presentation surface: it receives each composited frame from
// the display loop, JPEG-encodes it once, and fans it out to all connected
// websocket viewers. It also caches the latest encoded frame for the
// snapshot API.
type Hub struct {
	Log logs.Log

	lock     sync.Mutex
	viewers  map[uuid.UUID]*viewer
	lastJPEG []byte

	nFramesDropped int64
	nFramesSent    int64
	lastDropMsg    time.Time
}

type viewer struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func NewHub(logger logs.Log) *Hub {
	return &Hub{
		Log:     logger,
		viewers: map[uuid.UUID]*viewer{},
	}
}

// Present implements overlay.Presenter. It must not hold onto img, so the
// encode happens here, before fan-out.
func (h *Hub) Present(img *cimg.Image) error {
	jpg, err := cimg.Compress(img, cimg.MakeCompressParams(cimg.Sampling420, jpegQuality, 0))
	if err != nil {
		return err
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	h.lastJPEG = jpg
	for _, v := range h.viewers {
		select {
		case v.send <- jpg:
			h.nFramesSent++
		default:
			h.nFramesDropped++
			if time.Now().Sub(h.lastDropMsg) > 5*time.Second {
				h.Log.Infof("Dropped %v/%v frames to slow viewers", h.nFramesDropped, h.nFramesDropped+h.nFramesSent)
				h.lastDropMsg = time.Now()
			}
		}
	}
	return nil
}

// LastJPEG returns the most recently presented frame, encoded, or nil
func (h *Hub) LastJPEG() []byte {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.lastJPEG
}

// NumViewers returns the number of connected websocket viewers
func (h *Hub) NumViewers() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.viewers)
}

// HandleConnection serves one viewer until the socket dies. Runs on the HTTP
// handler's goroutine.
func (h *Hub) HandleConnection(conn *websocket.Conn) {
	v := &viewer{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, viewerSendBufferSize),
		done: make(chan struct{}),
	}
	h.lock.Lock()
	h.viewers[v.id] = v
	h.lock.Unlock()
	h.Log.Infof("Viewer %v connected", v.id)

	go h.readLoop(v)
	h.writeLoop(v)

	h.lock.Lock()
	delete(h.viewers, v.id)
	h.lock.Unlock()
	conn.Close()
	h.Log.Infof("Viewer %v disconnected", v.id)
}

// We don't expect meaningful messages from viewers; reading just detects closure.
// The send channel is never closed, so Present can't race a close; the done
// channel ends the write loop instead.
func (h *Hub) readLoop(v *viewer) {
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			close(v.done)
			return
		}
	}
}

func (h *Hub) writeLoop(v *viewer) {
	for {
		select {
		case jpg := <-v.send:
			if err := v.conn.WriteMessage(websocket.BinaryMessage, jpg); err != nil {
				return
			}
		case <-v.done:
			return
		}
	}
}
