/*
 * MIT License
 *
 * Copyright (c) 2026 The Mues Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package questionnaire implements the multi-step prompted-dialog filter
// (C9): an ordered list of steps, each validated a different way, driven by
// the same input/output event contract every other filter uses.
package questionnaire

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
)

// Kind selects how a Step's answer is validated.
type Kind uint8

const (
	KindNone Kind = iota
	KindProc
	KindPattern
	KindSet
	KindMap
)

// Suspend is returned by a Proc validator to request that the questionnaire
// block pending an out-of-band Restart call (§4.8 "blocking").
type Suspend struct{}

// ProcFunc is a Proc-kind validator: called with the questionnaire and the
// raw answer text. Returning false asks again; true accepts data unchanged;
// a Suspend value pauses the stream until Restart is called; any other
// value is taken as the accepted answer.
type ProcFunc func(q *Questionnaire, data string) interface{}

// Validator describes how one step's answer is checked and converted.
type Validator struct {
	Kind    Kind
	Proc    ProcFunc
	Pattern *regexp.Regexp
	Set     map[string]bool
	Map     map[string]interface{}
}

// Step is one question in the dialog.
type Step struct {
	Name      string
	Prompt    interface{} // string, func(*Questionnaire) string, or event.Event
	Hidden    bool
	Blocking  bool
	Validator *Validator
	Default   interface{}
	ErrorMsg  string
	OnUndo    func(q *Questionnaire)
	OnSkip    func(q *Questionnaire) interface{}
}

// Finalizer is invoked once every step has been answered. It may return
// events/filters for the caller to propagate (a common pattern: installing
// the next filter once the dialog completes).
type Finalizer func(q *Questionnaire) []event.Event

// Questionnaire is the filter itself.
type Questionnaire struct {
	filter.Base

	name      string
	steps     []Step
	finalizer Finalizer

	mu         sync.Mutex
	idx        int
	answers    map[string]interface{}
	inProgress bool
	delayed    []event.Event
	restart    chan interface{}
}

// New constructs a questionnaire filter over the given ordered steps.
func New(pos filter.SortPos, name string, steps []Step, finalizer Finalizer, log mueslog.Logger) *Questionnaire {
	return &Questionnaire{
		Base:      filter.NewBase(pos, log),
		name:      name,
		steps:     steps,
		finalizer: finalizer,
		answers:   make(map[string]interface{}),
	}
}

// Answers returns a snapshot of everything accepted so far.
func (q *Questionnaire) Answers() map[string]interface{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make(map[string]interface{}, len(q.answers))
	for k, v := range q.answers {
		out[k] = v
	}
	return out
}

func (q *Questionnaire) Start(s filter.StreamHandle) []event.Event {
	q.Attach(s)
	q.mu.Lock()
	q.inProgress = true
	q.idx = 0
	q.mu.Unlock()
	q.askCurrent()
	return nil
}

func (q *Questionnaire) Stop(s filter.StreamHandle) []event.Event {
	q.Detach()
	return nil
}

func (q *Questionnaire) askCurrent() {
	q.mu.Lock()
	if q.idx >= len(q.steps) {
		q.mu.Unlock()
		q.finish()
		return
	}
	step := q.steps[q.idx]
	q.mu.Unlock()
	q.ask(step)
}

func (q *Questionnaire) ask(step Step) {
	switch v := step.Prompt.(type) {
	case func(*Questionnaire) string:
		q.emitPrompt(v(q), step.Hidden)
	case string:
		q.emitPrompt(v, step.Hidden)
	case event.Event:
		q.QueueOutput(v)
	default:
		q.emitPrompt(strings.ToUpper(step.Name[:1])+step.Name[1:]+": ", step.Hidden)
	}
}

func (q *Questionnaire) emitPrompt(text string, hidden bool) {
	if hidden {
		q.QueueOutput(event.NewHiddenPrompt(text))
		return
	}
	q.QueueOutput(event.NewPrompt(text))
}

// HandleInput consumes input while the dialog is in progress; once
// finished, input passes through unchanged.
func (q *Questionnaire) HandleInput(in []event.Event) []event.Event {
	var passthrough []event.Event
	for _, e := range in {
		ie, ok := e.(event.InputEvent)
		if !ok {
			passthrough = append(passthrough, e)
			continue
		}

		q.mu.Lock()
		active := q.inProgress
		q.mu.Unlock()
		if !active {
			passthrough = append(passthrough, e)
			continue
		}

		q.handleAnswer(ie.Data)
	}
	return passthrough
}

// HandleOutput buffers OutputEvents while the dialog is active (released on
// finish or abort) but lets ErrorOutputEvents through immediately.
func (q *Questionnaire) HandleOutput(out []event.Event) []event.Event {
	q.mu.Lock()
	active := q.inProgress
	q.mu.Unlock()
	if !active {
		return out
	}

	var passthrough []event.Event
	for _, e := range out {
		if _, ok := e.(event.ErrorOutputEvent); ok {
			passthrough = append(passthrough, e)
			continue
		}
		q.mu.Lock()
		q.delayed = append(q.delayed, e)
		q.mu.Unlock()
	}
	return passthrough
}

func (q *Questionnaire) currentStep() Step {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.steps[q.idx]
}

func (q *Questionnaire) handleAnswer(data string) {
	step := q.currentStep()

	if step.Validator == nil {
		if data == "" {
			if step.Default != nil {
				q.accept(step, step.Default)
				return
			}
			q.Abort("No answer given and no default available.")
			return
		}
		q.accept(step, data)
		return
	}

	switch step.Validator.Kind {
	case KindProc:
		q.runProc(step, step.Validator.Proc, data)
	case KindPattern:
		q.runPattern(step, data)
	case KindSet:
		q.runSet(step, data)
	case KindMap:
		q.runMap(step, data)
	default:
		q.accept(step, data)
	}
}

func (q *Questionnaire) runProc(step Step, fn ProcFunc, data string) {
	result := fn(q, data)
	switch v := result.(type) {
	case bool:
		if v {
			q.accept(step, data)
		} else {
			q.reask(step)
		}
	case Suspend:
		if step.Blocking {
			q.suspend(step, data, fn)
		} else {
			q.reask(step)
		}
	default:
		q.accept(step, v)
	}
}

// suspend pauses the stream and waits (on its own goroutine so the filter's
// calling goroutine is never blocked) for an external Restart call.
func (q *Questionnaire) suspend(step Step, data string, fn ProcFunc) {
	q.mu.Lock()
	q.restart = make(chan interface{}, 1)
	ch := q.restart
	q.mu.Unlock()

	s := q.Stream()
	if s != nil {
		s.Pause()
	}

	go func() {
		v := <-ch
		if s != nil {
			s.Unpause()
		}
		switch r := v.(type) {
		case bool:
			if r {
				q.accept(step, data)
			} else {
				q.reask(step)
			}
		default:
			q.accept(step, r)
		}
	}()
}

// Restart resumes a blocked Proc validator with the out-of-band decision
// value, as if the validator itself had returned it.
func (q *Questionnaire) Restart(value interface{}) {
	q.mu.Lock()
	ch := q.restart
	q.restart = nil
	q.mu.Unlock()
	if ch != nil {
		ch <- value
	}
}

func (q *Questionnaire) runPattern(step Step, data string) {
	m := step.Validator.Pattern.FindStringSubmatch(data)
	if m == nil {
		q.validationFailed(step)
		return
	}
	if len(m) > 1 {
		captures := make([]string, len(m)-1)
		copy(captures, m[1:])
		q.accept(step, captures)
		return
	}
	q.accept(step, m[0])
}

func (q *Questionnaire) runSet(step Step, data string) {
	if step.Validator.Set[data] {
		q.accept(step, data)
		return
	}
	q.validationFailed(step)
}

func (q *Questionnaire) runMap(step Step, data string) {
	if v, ok := step.Validator.Map[data]; ok {
		q.accept(step, v)
		return
	}
	q.validationFailed(step)
}

func (q *Questionnaire) validationFailed(step Step) {
	msg := step.ErrorMsg
	if msg == "" {
		msg = fmt.Sprintf("Invalid answer for %q.\r\n", step.Name)
	}
	q.QueueOutput(event.NewError("InputValidation", msg))
	q.reask(step)
}

func (q *Questionnaire) reask(step Step) {
	q.ask(step)
}

func (q *Questionnaire) accept(step Step, answer interface{}) {
	q.mu.Lock()
	q.answers[step.Name] = answer
	q.idx++
	q.mu.Unlock()
	q.askCurrent()
}

func (q *Questionnaire) finish() {
	q.mu.Lock()
	q.inProgress = false
	delayed := q.delayed
	q.delayed = nil
	q.mu.Unlock()

	q.release(delayed)

	if q.finalizer != nil {
		produced := q.finalizer(q)
		if len(produced) > 0 {
			q.QueueOutput(produced...)
		}
	}
	q.MarkFinished()
}

func (q *Questionnaire) release(delayed []event.Event) {
	if len(delayed) > 0 {
		q.QueueOutput(delayed...)
	}
}

// UndoSteps rewinds the dialog n steps, invoking each step's OnUndo hook and
// discarding its recorded answer. It never rewinds past the first step.
func (q *Questionnaire) UndoSteps(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := 0; i < n && q.idx > 0; i++ {
		q.idx--
		step := q.steps[q.idx]
		delete(q.answers, step.Name)
		if step.OnUndo != nil {
			step.OnUndo(q)
		}
	}
}

// SkipSteps advances the dialog n steps without asking, recording each
// skipped step's OnSkip/Default/sentinel answer. It never advances past the
// last step.
func (q *Questionnaire) SkipSteps(n int) {
	q.mu.Lock()
	for i := 0; i < n && q.idx < len(q.steps); i++ {
		step := q.steps[q.idx]
		switch {
		case step.OnSkip != nil:
			q.answers[step.Name] = step.OnSkip(q)
		case step.Default != nil:
			q.answers[step.Name] = step.Default
		default:
			q.answers[step.Name] = skipped{}
		}
		q.idx++
	}
	q.mu.Unlock()
	q.askCurrent()
}

// skipped is the sentinel value recorded for a skipped step with neither an
// OnSkip hook nor a Default.
type skipped struct{}

// Abort ends the dialog immediately, emitting msg and finishing the filter
// without calling the finalizer.
func (q *Questionnaire) Abort(msg string) {
	q.QueueOutput(event.OutputEvent{Data: msg})
	q.mu.Lock()
	q.inProgress = false
	delayed := q.delayed
	q.delayed = nil
	q.mu.Unlock()
	q.release(delayed)
	q.MarkFinished()
}

