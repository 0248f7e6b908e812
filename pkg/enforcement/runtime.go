/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package enforcement

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the runtime lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateLoadingConfig
	StatePrompting
	StateEnforcing
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateLoadingConfig:
		return "LOADING_CONFIG"
	case StatePrompting:
		return "PROMPTING"
	case StateEnforcing:
		return "ENFORCING"
	default:
		return "UNKNOWN"
	}
}

const (
	fetchAttempts    = 3
	fetchBackoffBase = 500 * time.Millisecond

	// NecessaryCategory is always allowed regardless of any decision.
	NecessaryCategory = "necessary"
)

// ErrNotEnforcing is returned by Decide when the runtime has not loaded a
// configuration yet.
var ErrNotEnforcing = errors.New("runtime has not finished loading its configuration")

// Options configure a Runtime instance. The fields mirror the embed script's
// data attributes.
type Options struct {
	// Hostname of the embedding page. Configuration is always fetched by
	// hostname; the service independently resolves it against the domain
	// registry.
	Hostname string
	// DomainID from the embed snippet, used for consent calls when the
	// delivery payload is unavailable.
	DomainID string
	// VisitorID is the stable anonymous identifier minted on first visit.
	VisitorID string
	// DoNotTrack reports the browser's DNT signal.
	DoNotTrack bool
}

// Runtime gates script execution on a host page by consent category. One
// instance lives per page for the page's lifetime. All methods are safe for
// concurrent use; callbacks and queued functions are invoked outside the
// runtime's lock.
type Runtime struct {
	client ConfigClient
	opts   Options

	mu        sync.Mutex
	state     State
	settings  *Settings
	decisions map[string]bool
	lastErr   error
	// queued holds functions waiting for their category to be allowed.
	queued    map[string][]func()
	listeners []func(map[string]bool)
	promptFn  func(*Settings)
}

// NewRuntime creates a runtime in UNINITIALIZED. No network calls happen
// until Init.
func NewRuntime(client ConfigClient, opts Options) *Runtime {
	return &Runtime{
		client: client,
		opts:   opts,
		state:  StateUninitialized,
		queued: make(map[string][]func()),
	}
}

// OnPrompt registers the hook that renders the banner when the runtime enters
// PROMPTING. Must be set before Init for the initial prompt to render.
func (rt *Runtime) OnPrompt(fn func(*Settings)) {
	rt.mu.Lock()
	rt.promptFn = fn
	rt.mu.Unlock()
}

// OnConsentChange registers a hook fired whenever the decision map changes.
func (rt *Runtime) OnConsentChange(fn func(map[string]bool)) {
	rt.mu.Lock()
	rt.listeners = append(rt.listeners, fn)
	rt.mu.Unlock()
}

// Init loads the configuration and resolves the initial state. It fetches
// with bounded retries, then either replays an existing valid decision
// (ENFORCING) or prompts the visitor (PROMPTING). The context cancels
// in-flight requests when the host page navigates away.
func (rt *Runtime) Init(ctx context.Context) {

	rt.mu.Lock()
	if rt.state != StateUninitialized {
		rt.mu.Unlock()
		return
	}
	rt.state = StateLoadingConfig
	rt.mu.Unlock()

	rt.load(ctx)
}

// load fetches the configuration and resolves the runtime state from it.
// Shared by Init and by RefreshConfig when the initial load never succeeded.
func (rt *Runtime) load(ctx context.Context) {

	settings, err := rt.fetchWithRetry(ctx)
	if errors.Is(err, ErrConfigNotFound) {
		// Registered domain with no saved configuration: prompt with the
		// built-in default banner. Decisions are not version-bound.
		settings = defaultSettings(rt.opts.DomainID, rt.opts.Hostname)
		err = nil
	}
	if err != nil {
		rt.failLoad(err)
		return
	}

	// DNT skips prompting entirely. Optional categories are declined locally
	// and nothing is written to the ledger.
	if settings.Config.RespectDNT && rt.opts.DoNotTrack {
		rt.applyDecisions(settings, declineAll(settings.Config), StateEnforcing)
		return
	}

	decision, err := rt.client.GetDecision(ctx, settings.DomainID, rt.opts.VisitorID)
	if err == nil && decision != nil && decision.ConfigVersionID == settings.ConfigVersionID {
		rt.applyDecisions(settings, decision.Decisions, StateEnforcing)
		return
	}

	rt.prompt(settings)
}

// Decide records the visitor's decision and transitions to ENFORCING. Under
// DNT the decision is applied locally without a ledger write.
func (rt *Runtime) Decide(ctx context.Context, decisions map[string]bool) error {

	rt.mu.Lock()
	settings := rt.settings
	rt.mu.Unlock()
	if settings == nil {
		return ErrNotEnforcing
	}

	if settings.Config.RespectDNT && rt.opts.DoNotTrack {
		rt.applyDecisions(settings, declineAll(settings.Config), StateEnforcing)
		return nil
	}

	recorded, err := rt.client.RecordDecision(ctx, settings.DomainID, rt.opts.VisitorID,
		settings.ConfigVersionID, decisions)
	if err != nil {
		rt.mu.Lock()
		rt.lastErr = err
		rt.mu.Unlock()
		return err
	}

	rt.applyDecisions(settings, recorded.Decisions, StateEnforcing)
	return nil
}

// IsAllowed reports whether scripts of the category may run. The necessary
// category is always allowed once a configuration is loaded.
func (rt *Runtime) IsAllowed(category string) bool {

	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.isAllowedLocked(category)
}

// RunWhenAllowed executes fn immediately when the category is already
// allowed, otherwise queues it until a decision allows the category. A
// queued function runs at most once.
func (rt *Runtime) RunWhenAllowed(category string, fn func()) {

	rt.mu.Lock()
	if rt.isAllowedLocked(category) {
		rt.mu.Unlock()
		fn()
		return
	}
	rt.queued[category] = append(rt.queued[category], fn)
	rt.mu.Unlock()
}

// ShowConsentModal re-opens the prompt so the visitor can revise their
// decision. Enforcement of the current decision continues until a new one is
// recorded.
func (rt *Runtime) ShowConsentModal() {

	rt.mu.Lock()
	settings := rt.settings
	promptFn := rt.promptFn
	rt.mu.Unlock()
	if settings != nil && promptFn != nil {
		promptFn(settings)
	}
}

// RefreshConfig re-fetches the configuration. When the version changed
// mid-session the visitor is prompted again, since the stored decision no
// longer matches what the banner described.
func (rt *Runtime) RefreshConfig(ctx context.Context) {

	rt.mu.Lock()
	if rt.settings == nil {
		state := rt.state
		rt.mu.Unlock()
		// A failed startup fetch left the page fail-closed with nothing
		// loaded. Re-polling is the only way out, so retry the full load.
		if state != StateUninitialized {
			rt.load(ctx)
		}
		return
	}
	currentVersion := rt.settings.ConfigVersionID
	rt.mu.Unlock()

	settings, err := rt.client.FetchSettings(ctx, rt.opts.Hostname)
	if err != nil {
		rt.mu.Lock()
		rt.lastErr = err
		rt.mu.Unlock()
		return
	}
	if settings.ConfigVersionID == currentVersion {
		return
	}
	rt.prompt(settings)
}

// State returns the current lifecycle state.
func (rt *Runtime) State() State {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.state
}

// Decisions returns a copy of the current decision map.
func (rt *Runtime) Decisions() map[string]bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	out := make(map[string]bool, len(rt.decisions))
	for k, v := range rt.decisions {
		out[k] = v
	}
	return out
}

// LastError returns the most recent transport error. Fetch failures are
// absorbed into the fail-open/fail-closed policy and never surfaced to the
// host page's error handlers.
func (rt *Runtime) LastError() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.lastErr
}

func (rt *Runtime) fetchWithRetry(ctx context.Context) (*Settings, error) {

	var lastErr error
	backoff := fetchBackoffBase
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		settings, err := rt.client.FetchSettings(ctx, rt.opts.Hostname)
		if err == nil {
			return settings, nil
		}
		// A definitive miss is not retried.
		if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrDomainNotRegistered) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// failLoad applies the fail-open/fail-closed policy after fetch retries are
// exhausted. With no configuration the blocking flag is unknown, so the
// runtime stays closed: only the necessary category runs.
func (rt *Runtime) failLoad(err error) {

	rt.mu.Lock()
	rt.lastErr = err
	rt.state = StateEnforcing
	rt.decisions = map[string]bool{NecessaryCategory: true}
	flush := rt.takeAllowedLocked()
	rt.mu.Unlock()
	for _, fn := range flush {
		fn()
	}
}

func (rt *Runtime) prompt(settings *Settings) {

	rt.mu.Lock()
	rt.settings = settings
	rt.state = StatePrompting
	promptFn := rt.promptFn
	rt.mu.Unlock()
	if promptFn != nil {
		promptFn(settings)
	}
}

// applyDecisions installs a decision map, flushes newly allowed queued
// functions and notifies listeners.
func (rt *Runtime) applyDecisions(settings *Settings, decisions map[string]bool, next State) {

	rt.mu.Lock()
	rt.settings = settings
	rt.decisions = decisions
	rt.state = next
	flush := rt.takeAllowedLocked()
	listeners := make([]func(map[string]bool), len(rt.listeners))
	copy(listeners, rt.listeners)
	snapshot := make(map[string]bool, len(decisions))
	for k, v := range decisions {
		snapshot[k] = v
	}
	rt.mu.Unlock()

	for _, fn := range flush {
		fn()
	}
	for _, listener := range listeners {
		listener(snapshot)
	}
}

func (rt *Runtime) isAllowedLocked(category string) bool {

	if rt.state != StateEnforcing {
		return false
	}
	if category == NecessaryCategory {
		return true
	}
	return rt.decisions[category]
}

func (rt *Runtime) takeAllowedLocked() []func() {

	var flush []func()
	for category, fns := range rt.queued {
		if rt.isAllowedLocked(category) {
			flush = append(flush, fns...)
			delete(rt.queued, category)
		}
	}
	return flush
}

// defaultSettings is the documented fallback banner used when a registered
// domain has not saved a configuration yet.
func defaultSettings(domainID, hostname string) *Settings {
	return &Settings{
		DomainID: domainID,
		Hostname: hostname,
		Config: Config{
			Layout:   "bar",
			Position: "bottom-center",
			Theme:    "light",
			Categories: []Category{
				{Key: NecessaryCategory, DisplayName: "Strictly necessary", Required: true},
				{Key: "analytics", DisplayName: "Analytics"},
				{Key: "marketing", DisplayName: "Marketing"},
			},
			ExpiryDays:       180,
			AutoBlockCookies: true,
			RespectDNT:       true,
		},
	}
}

func declineAll(config Config) map[string]bool {

	decisions := make(map[string]bool, len(config.Categories))
	for _, category := range config.Categories {
		decisions[category.Key] = category.Required
	}
	return decisions
}
