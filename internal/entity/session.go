package entity

import "time"

// PhotoSlot names one of the two expected captures.
type PhotoSlot string

const (
	SlotFront PhotoSlot = "front"
	SlotSide  PhotoSlot = "side"
)

func (s PhotoSlot) Valid() bool {
	return s == SlotFront || s == SlotSide
}

// Other returns the slot still missing after this one was filled.
func (s PhotoSlot) Other() PhotoSlot {
	if s == SlotFront {
		return SlotSide
	}
	return SlotFront
}

type SessionState uint8

const (
	SessionEmpty SessionState = iota
	SessionHasFront
	SessionComplete
)

var sessionStateMap = map[SessionState]string{
	SessionEmpty:    "EMPTY",
	SessionHasFront: "HAS_FRONT",
	SessionComplete: "COMPLETE",
}

func (s SessionState) String() string {
	return sessionStateMap[s]
}

// UserSession tracks which of the two expected photos a user has sent.
// It is keyed by the platform user ID and consumed exactly once: the moment
// both slots are filled the pair is handed to analysis and the session is
// reset.
type UserSession struct {
	UserID    string    `json:"user_id"`
	Expect    PhotoSlot `json:"expect,omitempty"`
	Front     []byte    `json:"front,omitempty"`
	Side      []byte    `json:"side,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *UserSession) Fill(slot PhotoSlot, image []byte, now time.Time) {
	switch slot {
	case SlotFront:
		s.Front = image
	case SlotSide:
		s.Side = image
	}
	s.Expect = ""
	s.UpdatedAt = now
}

func (s *UserSession) State() SessionState {
	switch {
	case len(s.Front) > 0 && len(s.Side) > 0:
		return SessionComplete
	case len(s.Front) > 0:
		return SessionHasFront
	default:
		return SessionEmpty
	}
}

// Expired reports whether the session has been idle longer than ttl.
// Stale slots are discarded lazily on the next event rather than by a
// background sweeper.
func (s *UserSession) Expired(now time.Time, ttl time.Duration) bool {
	return !s.UpdatedAt.IsZero() && now.Sub(s.UpdatedAt) > ttl
}

func (s *UserSession) Reset(now time.Time) {
	s.Expect = ""
	s.Front = nil
	s.Side = nil
	s.UpdatedAt = now
}
