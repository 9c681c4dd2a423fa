package sequencer

import (
	"context"
	"errors"

	"gitship/internal/hosting"
)

// releaseStage asks the hosting provider for a redeploy and interprets the
// response. It only runs after a successful push.
func (s *Sequencer) releaseStage(ctx context.Context, req Request, emit emitFn) Outcome {
	emit(LevelInfo, "Requesting redeploy...")

	deploy, err := s.release.TriggerDeploy(ctx, req.ServiceID)
	if err != nil {
		var statusErr *hosting.StatusError
		if errors.As(err, &statusErr) {
			return abort(emit, "Redeploy rejected (HTTP %d): %s", statusErr.StatusCode, statusErr.Body)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return abort(emit, "Redeploy request timed out.")
		}
		return abort(emit, "Redeploy request failed: %v", err)
	}

	if deploy != nil && deploy.ID != "" {
		emit(LevelInfo, "Redeploy accepted (deploy %s).", deploy.ID)
	} else {
		emit(LevelInfo, "Redeploy accepted.")
	}
	return Outcome{Succeeded: true, Message: "Deploy finished successfully."}
}
