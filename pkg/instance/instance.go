package instance

import "github.com/brandquill/brandquill-backend/pkg/env"

// GetID returns the identifier for this process so log lines from
// concurrent replicas can be told apart. Heroku-style dynos expose DYNO;
// container deployments set WORKER_ID explicitly.
func GetID() string {
	return env.First("worker-0", "DYNO", "WORKER_ID")
}
