package build

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitebook/internal/logfields"
	"git.home.luguber.info/inful/sitebook/internal/metrics"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, st *State) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// runStages executes stages in order, recording timing and stopping on the
// first fatal error or cancellation.
func runStages(ctx context.Context, st *State, stages []StageDef) error {
	for _, def := range stages {
		if err := ctx.Err(); err != nil {
			return st.fail(&StageError{Kind: StageErrorCanceled, Stage: def.Name, Err: err})
		}

		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)
		st.Report.StageDurations[def.Name] = dur
		st.recorder.ObserveStageDuration(string(def.Name), dur)
		st.log.Debug("Stage finished", logfields.Stage(string(def.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000))

		if err == nil {
			st.recorder.IncStageResult(string(def.Name), metrics.ResultSuccess)
			continue
		}

		var se *StageError
		if !stdErrors.As(err, &se) {
			kind := StageErrorFatal
			if stdErrors.Is(err, context.Canceled) || stdErrors.Is(err, context.DeadlineExceeded) {
				kind = StageErrorCanceled
			}
			se = &StageError{Kind: kind, Stage: def.Name, Err: err}
		}
		return st.fail(se)
	}
	return nil
}

func (st *State) fail(se *StageError) error {
	st.Report.StageErrorKinds[se.Stage] = se.Kind
	st.Report.Errors = append(st.Report.Errors, se)
	result := metrics.ResultFatal
	if se.Kind == StageErrorCanceled {
		result = metrics.ResultCanceled
	}
	st.recorder.IncStageResult(string(se.Stage), result)
	st.log.Error("Stage failed", logfields.Stage(string(se.Stage)), logfields.Error(se.Err))
	return se
}
