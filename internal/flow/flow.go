// Package flow holds the per-user confirmation state machine that turns
// extracted plan candidates into a confirmed set ready for persistence.
// It is a pure value type: all I/O (extraction, time resolution, sending)
// stays with the caller.
package flow

import (
	"time"

	"planbot/internal/ai"
)

// Stage enumerates the states of the confirmation flow.
type Stage int

const (
	// StageCollecting waits for free-form text describing the day's plans.
	StageCollecting Stage = iota
	// StageAskingTime prompts for the scheduled time of one candidate.
	StageAskingTime
	// StageConfirming presents the full candidate set for accept/retry/cancel.
	StageConfirming
)

// Reply is a user's answer while the flow is active. Exactly two cases
// exist: typed (or transcribed) text and an inline-button press.
type Reply interface{ isReply() }

// TextReply carries typed or voice-transcribed text.
type TextReply struct{ Text string }

// ButtonReply carries inline-keyboard callback data.
type ButtonReply struct{ Data string }

func (TextReply) isReply()   {}
func (ButtonReply) isReply() {}

// Session is one user's in-flight confirmation flow.
type Session struct {
	stage    Stage
	drafts   []ai.PlanDraft
	askQueue []string // titles still needing a time, in candidate order
	askIndex int
	touched  time.Time
}

// NewSession starts a flow in StageCollecting.
func NewSession(now time.Time) *Session {
	return &Session{stage: StageCollecting, touched: now}
}

func (s *Session) Stage() Stage { return s.stage }

// Drafts returns the current candidate set.
func (s *Session) Drafts() []ai.PlanDraft { return s.drafts }

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.touched) > ttl
}

// SetDrafts installs extraction results. An empty set keeps the session in
// StageCollecting so the caller can re-prompt. Otherwise the session moves
// to StageAskingTime if any candidate lacks a time, or straight to
// StageConfirming.
func (s *Session) SetDrafts(drafts []ai.PlanDraft, now time.Time) Stage {
	s.touched = now
	if len(drafts) == 0 {
		return s.stage
	}
	s.drafts = drafts
	s.askQueue = s.askQueue[:0]
	s.askIndex = 0
	for _, d := range drafts {
		if d.ScheduledTime == "" {
			s.askQueue = append(s.askQueue, d.Title)
		}
	}
	if len(s.askQueue) == 0 {
		s.stage = StageConfirming
	} else {
		s.stage = StageAskingTime
	}
	return s.stage
}

// CurrentQuestion returns the title being asked about, valid only in
// StageAskingTime.
func (s *Session) CurrentQuestion() (string, bool) {
	if s.stage != StageAskingTime || s.askIndex >= len(s.askQueue) {
		return "", false
	}
	return s.askQueue[s.askIndex], true
}

// ApplyTime writes a resolved time into the candidate currently being asked
// about. Matching is by exact title and still-missing time; the first match
// wins, which keeps duplicate-titled candidates well defined. The ask index
// then advances.
func (s *Session) ApplyTime(clock string, now time.Time) Stage {
	title, ok := s.CurrentQuestion()
	if !ok {
		return s.stage
	}
	for i := range s.drafts {
		if s.drafts[i].Title == title && s.drafts[i].ScheduledTime == "" {
			s.drafts[i].ScheduledTime = clock
			break
		}
	}
	return s.advance(now)
}

// SkipTime leaves the current candidate without a time and advances.
func (s *Session) SkipTime(now time.Time) Stage {
	if s.stage != StageAskingTime {
		return s.stage
	}
	return s.advance(now)
}

// KeepAsking records an unresolved answer: the index does not move, the
// same candidate is asked again.
func (s *Session) KeepAsking(now time.Time) Stage {
	s.touched = now
	return s.stage
}

func (s *Session) advance(now time.Time) Stage {
	s.touched = now
	s.askIndex++
	if s.askIndex >= len(s.askQueue) {
		s.stage = StageConfirming
	}
	return s.stage
}

// Accept finalizes the flow and hands back the confirmed drafts. Valid only
// in StageConfirming; the caller clears the session afterwards.
func (s *Session) Accept() ([]ai.PlanDraft, bool) {
	if s.stage != StageConfirming {
		return nil, false
	}
	return s.drafts, true
}

// Retry discards the candidates and returns to StageCollecting.
func (s *Session) Retry(now time.Time) Stage {
	s.drafts = nil
	s.askQueue = nil
	s.askIndex = 0
	s.stage = StageCollecting
	s.touched = now
	return s.stage
}
