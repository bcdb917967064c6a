package onboarding

import (
	"context"
	"errors"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/join"
	"go.uber.org/zap"
)

// WriteOutcome reports one document write.
type WriteOutcome struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id"`
	Rev   string `json:"rev,omitempty"`
	Error string `json:"error,omitempty"`
}

// WriteResult holds the outcome of the three writes that finish a tier change.
// Any subset may have failed; nothing is rolled back.
type WriteResult struct {
	User    WriteOutcome `json:"user"`
	Profile WriteOutcome `json:"profile"`
	Invite  WriteOutcome `json:"invite"`
}

// Failed reports whether any write failed.
func (r *WriteResult) Failed() bool {
	return !r.User.OK || !r.Profile.OK || !r.Invite.OK
}

func write[T any, PT interface {
	*T
	docstore.Document
}](c docstore.Client[T], doc *T) join.Task[WriteOutcome] {
	id := PT(doc).DocID()
	return func(ctx context.Context) (WriteOutcome, error) {
		saved, err := c.Upsert(ctx, doc)
		if err != nil {
			msg := "write_failed"
			if errors.Is(err, docstore.ErrConflict) {
				msg = "conflict"
			}
			return WriteOutcome{ID: id, Error: msg}, err
		}
		return WriteOutcome{OK: true, ID: id, Rev: PT(saved).DocRev()}, nil
	}
}

// writeAll issues the three writes together and waits for all of them.
func (s *Service) writeAll(ctx context.Context, workflow string, user, profile, invite join.Task[WriteOutcome]) *WriteResult {
	out := join.All(ctx, user, profile, invite)
	res := &WriteResult{User: out[0].Value, Profile: out[1].Value, Invite: out[2].Value}

	if err := join.Err(out); err != nil {
		s.log.Warn("partial write",
			zap.String("workflow", workflow),
			zap.Bool("user_ok", res.User.OK),
			zap.Bool("profile_ok", res.Profile.OK),
			zap.Bool("invite_ok", res.Invite.OK),
			zap.Error(err))
	}
	return res
}
