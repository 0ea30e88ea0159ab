// Package contactform drives the contact form: it holds in-progress input and
// field errors, validates on submit, sends through the submission store and
// turns the outcome into a notification.
package contactform

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/domain"
	"github.com/skynix/contact-service/internal/submission"
	"github.com/skynix/contact-service/internal/validation"
)

// State is the controller's position in the submit state machine.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// Outcome summarises one Submit call.
type Outcome string

const (
	OutcomeSubmitted Outcome = "submitted"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeFailed    Outcome = "failed"
	// OutcomeIgnored: the submit control was disabled, or the form was unmounted before the result arrived.
	OutcomeIgnored Outcome = "ignored"
)

// Result is returned by Submit. Errors never escape the controller as Go errors;
// Err is informational.
type Result struct {
	Outcome Outcome
	ID      int64
	Errors  validation.Errors
	Err     error
}

// Submitter sends a normalized request. *submission.Store satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req submission.SubmitRequest) (int64, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithTransitionListener observes every state change, in order. It runs outside the controller lock.
func WithTransitionListener(fn func(State)) Option {
	return func(c *Controller) {
		c.onTransition = fn
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the form state. It is the only writer of values and errors.
type Controller struct {
	submitter    Submitter
	notifier     Notifier
	logger       *zap.Logger
	onTransition func(State)

	mu        sync.Mutex
	values    validation.Values
	errors    validation.Errors
	state     State
	unmounted bool
}

// New builds a mounted controller with an empty form.
func New(submitter Submitter, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		submitter: submitter,
		notifier:  notifier,
		logger:    zap.NewNop(),
		errors:    validation.Errors{},
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = LogNotifier{Logger: c.logger}
	}
	return c
}

// Values returns the current input.
func (c *Controller) Values() validation.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// Errors returns a copy of the field error map.
func (c *Controller) Errors() validation.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Disabled reports whether inputs and the submit control are disabled.
func (c *Controller) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateSubmitting
}

// Change records an edit and clears that field's error. Edits are rejected
// while submitting and after unmount.
func (c *Controller) Change(field validation.Field, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted || c.state == StateSubmitting {
		return false
	}
	c.values = c.values.With(field, value)
	delete(c.errors, field)
	return true
}

// Reset empties the form and its errors.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = validation.Values{}
	c.errors = validation.Errors{}
}

// Unmount detaches the form. A submission still in flight keeps running, but
// its result is dropped when it arrives.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unmounted = true
}

// Submit validates the form and, when valid, sends it. It blocks until the
// backend answers.
func (c *Controller) Submit(ctx context.Context) Result {
	c.mu.Lock()
	if c.unmounted || c.state == StateSubmitting {
		c.mu.Unlock()
		return Result{Outcome: OutcomeIgnored}
	}

	c.state = StateValidating
	trail := []State{StateValidating}
	errs := validation.Validate(c.values)
	if !errs.Valid() {
		c.errors = errs
		c.state = StateIdle
		c.mu.Unlock()
		c.emit(append(trail, StateIdle)...)
		c.notifier.Notify(invalidNotice)
		return Result{Outcome: OutcomeInvalid, Errors: errs.Clone()}
	}

	req := normalize(c.values)
	c.state = StateSubmitting
	c.mu.Unlock()
	c.emit(append(trail, StateSubmitting)...)

	id, err := c.submitter.Submit(ctx, req)

	c.mu.Lock()
	if c.unmounted {
		c.state = StateIdle
		c.mu.Unlock()
		c.logger.Debug("contact form unmounted; dropping submission result", zap.Int64("id", id), zap.Error(err))
		return Result{Outcome: OutcomeIgnored, ID: id, Err: err}
	}

	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.emit(StateFailed, StateIdle)
		c.logFailure(err)
		c.notifier.Notify(failureNotice)
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	c.values = validation.Values{}
	c.errors = validation.Errors{}
	c.state = StateIdle
	c.mu.Unlock()
	c.emit(StateSuccess, StateIdle)
	c.notifier.Notify(successNotice)
	return Result{Outcome: OutcomeSubmitted, ID: id}
}

func (c *Controller) emit(states ...State) {
	if c.onTransition == nil {
		return
	}
	for _, s := range states {
		c.onTransition(s)
	}
}

func (c *Controller) logFailure(err error) {
	switch {
	case errors.Is(err, submission.ErrNotInitialized):
		c.logger.Warn("contact form submitted before backend session was ready", zap.Error(err))
	default:
		c.logger.Error("contact form error", zap.Error(err))
	}
}

// normalize trims every field and turns blank optional fields into Absent.
func normalize(v validation.Values) submission.SubmitRequest {
	return submission.SubmitRequest{
		Name:        validation.Trim(v.Name),
		Email:       validation.Trim(v.Email),
		PhoneNumber: optional(v.PhoneNumber),
		CompanyName: optional(v.CompanyName),
		Message:     validation.Trim(v.Message),
	}
}

func optional(s string) domain.Optional[string] {
	s = validation.Trim(s)
	if s == "" {
		return domain.Absent[string]()
	}
	return domain.Present(s)
}
