package chat

import "sync"

// Conn is the slice of a live connection the registry needs. Satisfied by
// socketio.Conn and by fakes in tests.
type Conn interface {
	ID() string
	Emit(event string, args ...interface{})
}

// Registry is the shared membership index: room id -> connections.
// Membership is additive per connection and discarded wholesale on
// disconnect. All methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]Conn            // conn id -> conn
	owner  map[string]string          // conn id -> user id
	users  map[string]map[string]Conn // user id -> conn id -> conn
	rooms  map[string]map[string]Conn // room id -> conn id -> conn
	joined map[string]map[string]bool // conn id -> room ids
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]Conn),
		owner:  make(map[string]string),
		users:  make(map[string]map[string]Conn),
		rooms:  make(map[string]map[string]Conn),
		joined: make(map[string]map[string]bool),
	}
}

// Connect registers an authenticated connection and subscribes it to the
// owner's personal channel (room name = user id), so notifications reach
// every active device without an explicit join.
func (r *Registry) Connect(c Conn, userID string) {
	r.mu.Lock()
	connID := c.ID()
	r.conns[connID] = c
	r.owner[connID] = userID
	if r.users[userID] == nil {
		r.users[userID] = make(map[string]Conn)
	}
	r.users[userID][connID] = c
	r.joined[connID] = make(map[string]bool)
	r.mu.Unlock()

	r.Join(connID, userID)
}

// Disconnect drops every subscription held by a connection.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.joined[connID] {
		delete(r.rooms[room], connID)
		if len(r.rooms[room]) == 0 {
			delete(r.rooms, room)
		}
	}
	if userID, ok := r.owner[connID]; ok {
		delete(r.users[userID], connID)
		if len(r.users[userID]) == 0 {
			delete(r.users, userID)
		}
	}
	delete(r.joined, connID)
	delete(r.owner, connID)
	delete(r.conns, connID)
}

// Join subscribes a connection to a room. Unknown connections are ignored.
func (r *Registry) Join(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[connID]
	if !ok {
		return
	}
	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]Conn)
	}
	r.rooms[room][connID] = c
	r.joined[connID][room] = true
}

// InRoom reports whether a specific connection is subscribed to a room.
func (r *Registry) InRoom(connID, room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.joined[connID][room]
}

// IsUserInRoom reports whether any of a user's connections is subscribed to
// a room.
func (r *Registry) IsUserInRoom(userID, room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for connID := range r.users[userID] {
		if r.joined[connID][room] {
			return true
		}
	}
	return false
}

// IsUserOnline reports whether the user has at least one live connection.
func (r *Registry) IsUserOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID]) > 0
}

// OnlineUsers returns the ids of all users with a live connection.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.users))
	for userID := range r.users {
		users = append(users, userID)
	}
	return users
}

// Broadcast delivers an event to every connection in a room.
func (r *Registry) Broadcast(room, event string, args ...interface{}) {
	for _, c := range r.snapshot(room, "") {
		c.Emit(event, args...)
	}
}

// BroadcastExcept delivers an event to every connection in a room except
// one, typically the originating connection of a typing signal.
func (r *Registry) BroadcastExcept(room, exceptConnID, event string, args ...interface{}) {
	for _, c := range r.snapshot(room, exceptConnID) {
		c.Emit(event, args...)
	}
}

// Emit satisfies the notification transport contract: best-effort delivery
// to a user's personal channel.
func (r *Registry) Emit(room, event string, data interface{}) {
	r.Broadcast(room, event, data)
}

// snapshot copies the room's connections so emits run outside the lock.
func (r *Registry) snapshot(room, exceptConnID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]Conn, 0, len(r.rooms[room]))
	for connID, c := range r.rooms[room] {
		if connID == exceptConnID {
			continue
		}
		conns = append(conns, c)
	}
	return conns
}
