package engine

// TickSource delivers the frame delta, in seconds, to its subscribers.
type TickSource interface {
	Connect(fn func(deltaTime float32)) *Connection
}

// Connection is one live subscription to a Heartbeat.
type Connection struct {
	heartbeat *Heartbeat
	fn        func(deltaTime float32)
	connected bool
}

// Disconnect stops further deliveries. Safe to call more than once and from
// inside the subscriber itself.
func (c *Connection) Disconnect() {
	if c == nil || !c.connected {
		return
	}
	c.connected = false
	c.heartbeat.remove(c)
}

func (c *Connection) Connected() bool {
	return c != nil && c.connected
}

// Heartbeat fans out one Step per rendered frame to every connection in
// connect order.
type Heartbeat struct {
	connections []*Connection
	frame       uint64
}

func NewHeartbeat() *Heartbeat {
	return &Heartbeat{}
}

func (h *Heartbeat) Connect(fn func(deltaTime float32)) *Connection {
	c := &Connection{heartbeat: h, fn: fn, connected: fn != nil}
	if c.connected {
		h.connections = append(h.connections, c)
	}
	return c
}

// Step delivers deltaTime to all connections. Connections made during the
// step start receiving on the next one; connections dropped during the step
// are skipped.
func (h *Heartbeat) Step(deltaTime float32) {
	h.frame++
	if len(h.connections) == 0 {
		return
	}
	snapshot := make([]*Connection, len(h.connections))
	copy(snapshot, h.connections)
	for _, c := range snapshot {
		if !c.connected {
			continue
		}
		c.fn(deltaTime)
	}
}

// Frame is the number of steps taken so far.
func (h *Heartbeat) Frame() uint64 {
	return h.frame
}

// Len returns the number of live connections.
func (h *Heartbeat) Len() int {
	return len(h.connections)
}

func (h *Heartbeat) remove(c *Connection) {
	for i, existing := range h.connections {
		if existing == c {
			h.connections = append(h.connections[:i], h.connections[i+1:]...)
			return
		}
	}
}
