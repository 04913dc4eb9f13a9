package authorize

import (
	"fmt"
	"sync/atomic"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// policyLoadHealthy tracks whether the in-memory policy set was seeded
// successfully. Readiness probes key off this.
var policyLoadHealthy atomic.Bool

func init() {
	policyLoadHealthy.Store(true)
}

// IsPolicyHealthy reports whether the policy set is usable.
func IsPolicyHealthy() bool {
	return policyLoadHealthy.Load()
}

// MarkPolicyHealth records the outcome of a policy load or seed attempt.
func MarkPolicyHealth(healthy bool) {
	policyLoadHealthy.Store(healthy)
}

// NewEnforcer builds a DistributedEnforcer from the model file at modelPath.
// Policies live in memory only; SeedDefaultPolicies fills them in at startup
// and role grants are re-derived from stored profiles, so nothing needs a
// persistence adapter.
func NewEnforcer(modelPath string) (*casbin.DistributedEnforcer, error) {
	m, err := model.NewModelFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}

	e, err := casbin.NewDistributedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	return e, nil
}
