package builtin

import "gitship/internal/checks"

// Registration order is execution order: ignore rule first, then the
// credential, then the tracked secrets file.
func init() {
	checks.Register(&IgnoreRuleCheck{})
	checks.Register(&CredentialCheck{})
	checks.Register(&SecretTrackedCheck{})
}
