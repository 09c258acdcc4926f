package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"moments_copywriter/generator"
	"moments_copywriter/metrics"
)

// sessionStore 按会话 ID 保存每个用户独立的状态，空闲超时后淘汰。
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*generator.Session
	agent    *generator.Agent
	idleTTL  time.Duration
	now      func() time.Time
}

func newStore(agent *generator.Agent, idleTTL time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*generator.Session),
		agent:    agent,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// create 新建会话，顺带清理过期会话。
func (s *sessionStore) create() *generator.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	sess := generator.NewSession(uuid.NewString(), s.agent)
	s.sessions[sess.ID] = sess
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return sess
}

func (s *sessionStore) get(id string) (*generator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		s.removeLocked(id)
		return nil, false
	}
	sess.Touch()
	return sess, true
}

// delete 结束会话并清空其状态。
func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) expired(sess *generator.Session) bool {
	return s.idleTTL > 0 && s.now().Sub(sess.IdleSince()) > s.idleTTL
}

func (s *sessionStore) sweepLocked() {
	for id, sess := range s.sessions {
		if s.expired(sess) {
			s.removeLocked(id)
		}
	}
}

func (s *sessionStore) removeLocked(id string) {
	if sess, ok := s.sessions[id]; ok {
		sess.Reset()
		delete(s.sessions, id)
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}
