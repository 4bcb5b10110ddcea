package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mogaika/mdx_browser/viewer"
)

// poseUpdate is one streamed playback tick.
type poseUpdate struct {
	Frame float64
	Time  time.Time
	Pose  []viewer.JointPoseInfo
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[web] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[web] ws write ping error: %v", err)
				return
			}
		}
	}
}

var (
	streamLock sync.Mutex
	streamList = make(map[*client]bool)
)

func registerClient(c *client) {
	streamLock.Lock()
	defer streamLock.Unlock()
	streamList[c] = true
}

func unregisterClient(c *client) {
	streamLock.Lock()
	defer streamLock.Unlock()
	if _, ok := streamList[c]; ok {
		delete(streamList, c)
		close(c.send)
	}
}

func broadcast(data []byte) {
	streamLock.Lock()
	defer streamLock.Unlock()
	for c := range streamList {
		select {
		case c.send <- data:
		default:
			// slow client, drop the tick instead of blocking playback
		}
	}
}

func hasClients() bool {
	streamLock.Lock()
	defer streamLock.Unlock()
	return len(streamList) != 0
}

// streamInterval is the playback tick period for websocket clients.
const streamInterval = time.Second / 30

// startPoseStream runs the playback loop: while any client is connected
// and the viewer is playing, advance the frame cursor and broadcast the
// evaluated pose.
func startPoseStream(v *viewer.Viewer) {
	go func() {
		ticker := time.NewTicker(streamInterval)
		defer ticker.Stop()
		last := time.Now()
		for now := range ticker.C {
			dt := now.Sub(last).Seconds()
			last = now

			if !hasClients() {
				continue
			}
			frame, pose, ok := v.Advance(dt)
			if !ok {
				continue
			}
			data, err := json.Marshal(&poseUpdate{
				Frame: frame,
				Time:  now,
				Pose:  pose,
			})
			if err != nil {
				panic(err)
			}
			broadcast(data)
		}
	}()
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerWsPose(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
}
