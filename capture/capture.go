package capture

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/EfeIsmail21/live-translation/model"
	"github.com/EfeIsmail21/live-translation/queue"
)

var (
	// ErrDeviceUnavailable means the capture device could not be acquired:
	// permission denied, no device, or already held by another process.
	ErrDeviceUnavailable = errors.New("recording device unavailable")

	// ErrAlreadyRecording means the role already has an active session; the
	// caller must stop it first.
	ErrAlreadyRecording = errors.New("already recording")
)

// State is the recording session lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateFinalizing
)

// Device is one recording source. Acquire starts capture and delivers audio
// fragments through emit until Release; implementations deliver fragments
// from their own goroutine, never from inside Acquire.
type Device interface {
	Acquire(emit func(fragment []byte)) error
	Release() error
	ContentType() string
}

type session struct {
	mu     sync.Mutex
	state  State
	device Device
	frags  *queue.Queue[[]byte]
}

func (s *session) push(frag []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Fragments still count while finalizing: the device flushes its tail
	// between the stop request and Release returning.
	if s.state == StateIdle {
		return
	}
	s.frags.Enqueue(frag)
}

// Manager owns the per-role recording sessions. Each role records
// independently; at most one session per role is active at a time.
type Manager struct {
	mu        sync.Mutex
	sessions  map[model.Role]*session
	newDevice func(model.Role) Device
}

// NewManager builds a manager that acquires devices through newDevice.
func NewManager(newDevice func(model.Role) Device) *Manager {
	return &Manager{
		sessions:  make(map[model.Role]*session),
		newDevice: newDevice,
	}
}

// Begin acquires the role's recording device and starts buffering fragments.
func (m *Manager) Begin(role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, active := m.sessions[role]; active {
		return ErrAlreadyRecording
	}

	s := &session{
		state:  StateRecording,
		device: m.newDevice(role),
		frags:  queue.New[[]byte](),
	}
	if err := s.device.Acquire(s.push); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	m.sessions[role] = s
	return nil
}

// Append adds one fragment to the role's active session, for capture sources
// that stream audio in over the network instead of through a Device. Ignored
// when the role is not recording.
func (m *Manager) Append(role model.Role, fragment []byte) {
	m.mu.Lock()
	s, active := m.sessions[role]
	m.mu.Unlock()
	if active {
		s.push(fragment)
	}
}

// State reports the role's session state.
func (m *Manager) State(role model.Role) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, active := m.sessions[role]; active {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.state
	}
	return StateIdle
}

// End finalizes the role's session: stops the device, concatenates the
// buffered fragments into one clip, and returns it. Ending a role that is
// not recording is a no-op and reports false.
func (m *Manager) End(role model.Role) (model.Clip, bool, error) {
	m.mu.Lock()
	s, active := m.sessions[role]
	if !active {
		m.mu.Unlock()
		return model.Clip{}, false, nil
	}
	delete(m.sessions, role)
	m.mu.Unlock()

	s.mu.Lock()
	s.state = StateFinalizing
	s.mu.Unlock()

	err := s.device.Release()

	s.mu.Lock()
	var buf bytes.Buffer
	for _, frag := range s.frags.Drain() {
		buf.Write(frag)
	}
	s.state = StateIdle
	s.mu.Unlock()

	if err != nil {
		return model.Clip{}, true, fmt.Errorf("release device: %w", err)
	}

	return model.Clip{
		Bytes:       buf.Bytes(),
		ContentType: s.device.ContentType(),
	}, true, nil
}
