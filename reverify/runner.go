package reverify

import (
	"context"
	"fmt"

	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/discourse"
	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/logger"
)

// Directory is the slice of the Discourse client the runner needs.
type Directory interface {
	ListUsers(ctx context.Context, filter string, page int) ([]discourse.User, error)
	DeactivateUser(ctx context.Context, userID int64) error
}

// Report summarizes one batch run.
type Report struct {
	Pages       int
	Scanned     int
	Targeted    int
	Deactivated int
	Failed      int
}

// Runner walks the paginated user directory sequentially and deactivates
// matching accounts. One request is in flight at a time; ordering is the
// natural issuance order.
type Runner struct {
	dir      Directory
	criteria Criteria
	filter   string
	dryRun   bool
	logger   logger.Logger
	progress func(page, scanned int)
}

// NewRunner creates a Runner over the given directory client.
func NewRunner(dir Directory, criteria Criteria, filter string, dryRun bool, log logger.Logger) *Runner {
	return &Runner{
		dir:      dir,
		criteria: criteria,
		filter:   filter,
		dryRun:   dryRun,
		logger:   log,
	}
}

// OnProgress registers a callback invoked after each page is processed.
func (r *Runner) OnProgress(fn func(page, scanned int)) {
	r.progress = fn
}

// Run pages through the directory until an empty page. A failed deactivation
// is logged and counted, never aborts the batch; a failed page listing does
// abort, since continuing would silently skip every remaining user. The
// partial report is returned either way.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	for page := 0; ; page++ {
		users, err := r.dir.ListUsers(ctx, r.filter, page)
		if err != nil {
			return report, fmt.Errorf("list users page %d: %w", page, err)
		}
		if len(users) == 0 {
			break
		}
		report.Pages++

		for _, user := range users {
			report.Scanned++
			if !r.criteria.ShouldTarget(user) {
				continue
			}
			report.Targeted++

			if r.dryRun {
				r.logger.Info().
					Int64("user_id", user.ID).
					Str("username", user.Username).
					Str("last_seen_at", user.LastSeenAt).
					Msg("would deactivate user (dry run)")
				continue
			}

			if err := r.dir.DeactivateUser(ctx, user.ID); err != nil {
				report.Failed++
				r.logger.Error().
					Err(err).
					Int64("user_id", user.ID).
					Str("username", user.Username).
					Msg("failed to deactivate user")
				continue
			}
			report.Deactivated++
			r.logger.Info().
				Int64("user_id", user.ID).
				Str("username", user.Username).
				Msg("deactivated user")
		}

		if r.progress != nil {
			r.progress(page, report.Scanned)
		}
	}

	return report, nil
}
