// Package assistant maintains one ongoing conversation per (course, date)
// context. Transcripts live in Redis together with a fingerprint of the
// attendance snapshot; when the snapshot changes, the conversation resets.
package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"academiapulse/internal/aiclient"
	"academiapulse/internal/roster"
)

type session struct {
	Fingerprint string             `json:"fingerprint"`
	Messages    []aiclient.Message `json:"messages"`
}

// Store persists conversation transcripts.
type Store interface {
	Load(ctx context.Context, key string) (session, bool, error)
	Save(ctx context.Context, key string, s session) error
	Delete(ctx context.Context, key string) error
}

// Service runs the conversational assistant on top of the AI client.
type Service struct {
	ai    *aiclient.Client
	store Store
}

// New creates an assistant service.
func New(ai *aiclient.Client, store Store) *Service {
	return &Service{ai: ai, store: store}
}

func sessionKey(courseID, date string) string {
	return fmt.Sprintf("assistant:%s:%s", courseID, date)
}

func fingerprint(preamble string) string {
	sum := sha256.Sum256([]byte(preamble))
	return hex.EncodeToString(sum[:])
}

// Send appends one user turn, streams the model reply through onChunk, and
// returns the reply plus the full transcript after this exchange. A changed
// attendance snapshot discards any prior transcript first.
func (s *Service) Send(ctx context.Context, students []roster.Student, record roster.Record,
	course roster.Course, date, userText string, onChunk func(string)) (string, []aiclient.Message, error) {

	preamble := aiclient.AssistantPreamble(students, record, course, date)
	fp := fingerprint(preamble)
	key := sessionKey(course.ID, date)

	sess, found, err := s.store.Load(ctx, key)
	if err != nil || !found || sess.Fingerprint != fp {
		sess = session{Fingerprint: fp}
	}

	sess.Messages = append(sess.Messages, aiclient.Message{Role: "user", Text: userText})

	reply, err := s.ai.Chat(ctx, preamble, sess.Messages, onChunk)
	if err != nil {
		return "", sess.Messages, err
	}

	sess.Messages = append(sess.Messages, aiclient.Message{Role: "model", Text: reply})
	if err := s.store.Save(ctx, key, sess); err != nil {
		// The exchange already happened; a lost transcript only costs context.
		return reply, sess.Messages, nil
	}
	return reply, sess.Messages, nil
}

// Reset drops the transcript for a (course, date) context.
func (s *Service) Reset(ctx context.Context, courseID, date string) error {
	return s.store.Delete(ctx, sessionKey(courseID, date))
}
