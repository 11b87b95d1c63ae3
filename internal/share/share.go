// Package share serves a paper to read-only viewers on the local network.
package share

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/papers/internal/export"
	"github.com/example/papers/internal/library"
	"github.com/example/papers/internal/shape"
)

const (
	writeWait = 10 * time.Second
	// sendBuffer is how many updates a viewer may fall behind before it is
	// dropped.
	sendBuffer = 8
)

// Message is what viewers receive on every change of the paper.
type Message struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Shapes []shape.Shape `json:"shapes"`
}

type viewer struct {
	conn *websocket.Conn
	send chan []byte
}

// Server streams one paper of a library.
type Server struct {
	lib     *library.Library
	paperID string

	upgrader websocket.Upgrader

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	closed  bool
	stop    func()
}

// New starts watching paperID in lib.
func New(lib *library.Library, paperID string) *Server {
	s := &Server{
		lib:     lib,
		paperID: paperID,
		viewers: map[*viewer]struct{}{},
		upgrader: websocket.Upgrader{
			// Viewers are read-only; any page may show the paper.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.stop = lib.Watch(s.changed)
	return s
}

// Handler serves /paper.svg, /paper.json and the /ws update stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/paper.svg", s.serveSVG)
	mux.HandleFunc("/paper.json", s.serveJSON)
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// Viewers is the number of connected websocket viewers.
func (s *Server) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// Close disconnects every viewer and stops watching the library.
func (s *Server) Close() {
	s.stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for v := range s.viewers {
		close(v.send)
		delete(s.viewers, v)
	}
}

func (s *Server) message() (Message, error) {
	p, err := s.lib.Paper(s.paperID)
	if err != nil {
		return Message{}, err
	}
	return Message{ID: p.ID, Name: p.Name, Shapes: p.Shapes}, nil
}

func (s *Server) serveSVG(w http.ResponseWriter, r *http.Request) {
	m, err := s.message()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	err = export.Export(&buf, m.Shapes, export.Options{Type: export.SVG})
	if errors.Is(err, export.ErrEmptyPaper) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("share: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (s *Server) serveJSON(w http.ResponseWriter, r *http.Request) {
	m, err := s.message()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	m, err := s.message()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	first, err := json.Marshal(m)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("share: upgrade: %v", err)
		return
	}
	v := &viewer{conn: conn, send: make(chan []byte, sendBuffer)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.viewers[v] = struct{}{}
	v.send <- first
	s.mu.Unlock()

	go s.writeLoop(v)
	s.readLoop(v)
}

// readLoop only notices the viewer going away.
func (s *Server) readLoop(v *viewer) {
	defer s.drop(v)
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(v *viewer) {
	defer v.conn.Close()
	for msg := range v.send {
		v.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.drop(v)
			return
		}
	}
	v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) drop(v *viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.viewers[v]; ok {
		delete(s.viewers, v)
		close(v.send)
	}
}

func (s *Server) changed(p library.Paper) {
	if p.ID != s.paperID {
		return
	}
	msg, err := json.Marshal(Message{ID: p.ID, Name: p.Name, Shapes: p.Shapes})
	if err != nil {
		log.Printf("share: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for v := range s.viewers {
		select {
		case v.send <- msg:
		default:
			log.Printf("share: dropping slow viewer %s", v.conn.RemoteAddr())
			delete(s.viewers, v)
			close(v.send)
		}
	}
}
