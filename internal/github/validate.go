package github

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultValidateTimeout = 7 * time.Second

// Validator checks a repository secret against the identity endpoint.
// Concurrent validations of the same token are coalesced so an interactive
// precheck and an in-flight sequence share one API call.
type Validator struct {
	timeout time.Duration
	opts    []Option
	group   singleflight.Group
}

type ValidatorOption func(*Validator)

func WithTimeout(d time.Duration) ValidatorOption {
	return func(v *Validator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithClientOptions forwards options to the underlying API client
// (verbose logging, base URL override in tests).
func WithClientOptions(opts ...Option) ValidatorOption {
	return func(v *Validator) {
		v.opts = append(v.opts, opts...)
	}
}

func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{timeout: defaultValidateTimeout}
	for _, apply := range opts {
		if apply != nil {
			apply(v)
		}
	}
	return v
}

type validation struct {
	valid bool
	login string
}

// Validate reports whether token can authenticate against the identity
// endpoint, and the account login when it can. Network failures, timeouts,
// and non-success statuses all report invalid; the error return carries the
// cause for display but is never fatal to callers by contract.
func (v *Validator) Validate(ctx context.Context, token string) (valid bool, login string, err error) {
	if token == "" {
		return false, "", nil
	}

	res, err, _ := v.group.Do(token, func() (any, error) {
		out, cause := v.validateOnce(ctx, token)
		return out, cause
	})
	val, _ := res.(validation)
	return val.valid, val.login, err
}

func (v *Validator) validateOnce(ctx context.Context, token string) (validation, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	client, err := NewClient(ctx, token, v.opts...)
	if err != nil {
		return validation{}, err
	}

	user, resp, err := client.Client.Users.Get(ctx, "")
	if err != nil {
		return validation{}, err
	}
	if resp == nil || resp.StatusCode != http.StatusOK {
		return validation{}, nil
	}
	return validation{valid: true, login: user.GetLogin()}, nil
}
