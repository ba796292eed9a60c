// The generation pipeline: runs the module builders sequentially against one
// application, tracking per-module status and isolating failures so one bad
// module never takes down the run.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-jobcoach/internal/gaps"
	"go-jobcoach/internal/keywords"
	"go-jobcoach/internal/models"
	"go-jobcoach/internal/modules"
	"go-jobcoach/internal/quality"
	"go-jobcoach/internal/tasks"
	"go-jobcoach/internal/versions"
)

var (
	// ErrRunInProgress is returned when a second generation request arrives
	// while one is already running for the same application.
	ErrRunInProgress = errors.New("a generation run is already in progress for this application")

	// ErrFactsNotLocked is returned when generation is requested before the
	// user confirmed their facts.
	ErrFactsNotLocked = errors.New("confirmed facts must be locked before generating")
)

// Store is the persistence collaborator. Every call is an atomic field
// update; no cross-field transaction is assumed.
type Store interface {
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	SetModuleStatus(ctx context.Context, appID string, key models.ModuleKey, st models.ModuleStatus) error
	SaveModulePayload(ctx context.Context, appID string, key models.ModuleKey, payload any) error
	SaveDocument(ctx context.Context, appID string, kind models.DocKind, doc models.Document) error
	SaveScores(ctx context.Context, appID string, s models.Scores) error
	SetApplicationStatus(ctx context.Context, appID string, st models.ApplicationStatus) error
	UpsertTask(ctx context.Context, t *models.Task) error
}

// RunResult accumulates the outputs of one run in memory. The scorecard
// reads sibling payloads from here instead of re-reading the store, so it
// always sees this run's fresh values.
type RunResult struct {
	Keywords     []string
	Quality      models.QualityReport
	Benchmark    *models.BenchmarkPayload
	Gaps         *models.GapsPayload
	LearningPlan *models.LearningPlanPayload
	CV           *models.DocSeedPayload
	CoverLetter  *models.DocSeedPayload
	Scorecard    *models.Scores
	Scores       models.Scores
	ModuleErrors map[models.ModuleKey]string
	Statuses     models.ModuleStatusSet
}

// Failed reports whether any requested module ended in error.
func (r *RunResult) Failed() bool {
	return len(r.ModuleErrors) > 0
}

type Option func(*Pipeline)

// WithClock fixes the pipeline's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithKeywordMax bounds the extracted keyword set.
func WithKeywordMax(max int) Option {
	return func(p *Pipeline) { p.keywordMax = max }
}

type Pipeline struct {
	store      Store
	extractor  *keywords.Extractor
	keywordMax int
	now        func() time.Time
	locks      *runLocks
}

func New(store Store, extractor *keywords.Extractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      store,
		extractor:  extractor,
		keywordMax: keywords.DefaultMax,
		now:        time.Now,
		locks:      newRunLocks(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run generates the requested modules (all six when keys is empty) in
// canonical order. A module failure is recorded on that module's status and
// the run continues with the next one.
func (p *Pipeline) Run(ctx context.Context, appID string, keys ...models.ModuleKey) (*RunResult, error) {
	if !p.locks.acquire(appID) {
		return nil, ErrRunInProgress
	}
	defer p.locks.release(appID)

	app, err := p.store.GetApplication(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app.Facts == nil || !app.FactsLocked {
		return nil, ErrFactsNotLocked
	}

	requested := selectModules(keys)

	kws := p.extractor.Extract(app.Facts.JobDescription, p.keywordMax)
	qual := quality.Evaluate(app.Facts.JobDescription, kws)
	ev := gaps.Evaluate(app.Facts, kws)

	res := &RunResult{
		Keywords:     kws,
		Quality:      qual,
		ModuleErrors: map[models.ModuleKey]string{},
	}

	for _, key := range requested {
		if err := p.setStatus(ctx, app, key, models.StateQueued, 0, ""); err != nil {
			return nil, err
		}
	}

	for _, key := range requested {
		if err := p.runModule(ctx, app, key, ev, res); err != nil {
			res.ModuleErrors[key] = err.Error()
			if stErr := p.setStatus(ctx, app, key, models.StateError, 0, err.Error()); stErr != nil {
				log.Printf("⚠️ Failed to record error status for %s: %v", key, stErr)
			}
			continue
		}
		p.synthesizeTasks(ctx, app.ID, key, res)
	}

	res.Scores = p.aggregateScores(app, res, ev)
	if err := p.store.SaveScores(ctx, appID, res.Scores); err != nil {
		log.Printf("⚠️ Failed to persist aggregate scores for %s: %v", appID, err)
	}
	if err := p.store.SetApplicationStatus(ctx, appID, models.StatusActive); err != nil {
		log.Printf("⚠️ Failed to activate application %s: %v", appID, err)
	}

	res.Statuses = app.Modules
	return res, nil
}

// RegenerateModule re-runs exactly one module. Other modules' statuses and
// payloads are untouched.
func (p *Pipeline) RegenerateModule(ctx context.Context, appID string, key models.ModuleKey) (*RunResult, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("unknown module key %d", int(key))
	}
	return p.Run(ctx, appID, key)
}

// runModule executes steps queued→generating→ready for one module. Any
// failure (builder panic included) surfaces as the returned error and is
// handled at this boundary only.
func (p *Pipeline) runModule(ctx context.Context, app *models.Application, key models.ModuleKey, ev gaps.Result, res *RunResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s builder panicked: %v", key, r)
		}
	}()

	if err := p.setStatus(ctx, app, key, models.StateGenerating, 10, ""); err != nil {
		return err
	}

	facts := app.Facts
	now := p.now()

	var payload any
	switch key {
	case models.ModuleBenchmark:
		b := modules.BuildBenchmark(facts, res.Keywords, now)
		res.Benchmark = b
		payload = b
	case models.ModuleGaps:
		g := modules.BuildGaps(ev, len(res.Keywords), now)
		res.Gaps = g
		payload = g
	case models.ModuleLearningPlan:
		lp := modules.BuildLearningPlan(ev.Missing, now)
		res.LearningPlan = lp
		payload = lp
	case models.ModuleCV:
		cv := modules.BuildCVSeed(facts, res.Keywords, baseResumeHTML(facts), now)
		res.CV = cv
		payload = cv
	case models.ModuleCoverLetter:
		cl := modules.BuildCoverLetterSeed(facts, res.Keywords, now)
		res.CoverLetter = cl
		payload = cl
	case models.ModuleScorecard:
		sc := p.buildScorecard(app, res, ev, now)
		res.Scorecard = sc
		payload = sc
	default:
		return fmt.Errorf("unknown module key %d", int(key))
	}

	if err := p.setStatus(ctx, app, key, models.StateGenerating, 70, ""); err != nil {
		return err
	}

	if err := p.store.SaveModulePayload(ctx, app.ID, key, payload); err != nil {
		return fmt.Errorf("failed to persist %s payload: %w", key, err)
	}
	if err := p.persistSeedDocument(ctx, app, key, res); err != nil {
		return err
	}

	return p.setStatus(ctx, app, key, models.StateReady, 100, "")
}

// persistSeedDocument writes the generated seed into the editable document.
// Existing edited content is snapshotted first so a regenerate never silently
// destroys the user's work.
func (p *Pipeline) persistSeedDocument(ctx context.Context, app *models.Application, key models.ModuleKey, res *RunResult) error {
	var doc *models.Document
	var kind models.DocKind
	var seed string

	switch key {
	case models.ModuleCV:
		doc, kind, seed = &app.CVDoc, models.DocCV, res.CV.HTML
	case models.ModuleCoverLetter:
		doc, kind, seed = &app.CoverLetterDoc, models.DocCoverLetter, res.CoverLetter.HTML
	default:
		return nil
	}

	if doc.ContentHTML != "" && doc.ContentHTML != seed {
		versions.Snapshot(doc, "Before regenerate", p.now())
	}
	doc.ContentHTML = seed
	if err := p.store.SaveDocument(ctx, app.ID, kind, *doc); err != nil {
		return fmt.Errorf("failed to persist %s document: %w", kind, err)
	}
	return nil
}

func (p *Pipeline) buildScorecard(app *models.Application, res *RunResult, ev gaps.Result, now time.Time) *models.Scores {
	cvHTML := app.CVDoc.ContentHTML
	if res.CV != nil {
		cvHTML = res.CV.HTML
	}

	evidence := 0
	if len(res.Keywords) > 0 {
		evidence = len(ev.Strengths) * 100 / len(res.Keywords)
	}

	return modules.BuildScorecard(modules.ScorecardInput{
		Match:    modules.ComputeMatchScore(app.Facts, res.Keywords),
		ATS:      modules.DocumentCoverage(cvHTML, res.Keywords),
		Scan:     res.Quality.Score,
		Evidence: evidence,
		TopFix:   modules.DeriveTopFix(ev.Missing, res.Quality),
	}, now)
}

// aggregateScores recomputes the dashboard snapshot after a run. When the
// scorecard module produced output this run, that is the snapshot; otherwise
// it is rebuilt from whatever is available.
func (p *Pipeline) aggregateScores(app *models.Application, res *RunResult, ev gaps.Result) models.Scores {
	if res.Scorecard != nil {
		return *res.Scorecard
	}
	return *p.buildScorecard(app, res, ev, p.now())
}

// synthesizeTasks upserts derived todo items after the gaps and learning
// plan modules complete. Upsert failures are logged, never fatal to the run.
func (p *Pipeline) synthesizeTasks(ctx context.Context, appID string, key models.ModuleKey, res *RunResult) {
	var derived []models.Task
	switch key {
	case models.ModuleGaps:
		derived = tasks.FromGaps(appID, res.Gaps.MissingKeywords, p.now())
	case models.ModuleLearningPlan:
		derived = tasks.FromLearningPlan(appID, res.LearningPlan.Focus, p.now())
	default:
		return
	}
	for i := range derived {
		if err := p.store.UpsertTask(ctx, &derived[i]); err != nil {
			log.Printf("⚠️ Failed to upsert task %s: %v", derived[i].ID, err)
		}
	}
}

// setStatus validates the transition against the module's current state,
// persists it, and mirrors it into the in-memory application.
func (p *Pipeline) setStatus(ctx context.Context, app *models.Application, key models.ModuleKey, state models.ModuleState, progress int, errMsg string) error {
	current := app.Modules.Get(key)
	if !current.State.CanTransition(state) {
		return fmt.Errorf("illegal %s transition %s -> %s", key, current.State, state)
	}
	st := models.ModuleStatus{State: state, Progress: progress, Error: errMsg, UpdatedAt: p.now()}
	if err := p.store.SetModuleStatus(ctx, app.ID, key, st); err != nil {
		return fmt.Errorf("failed to persist %s status: %w", key, err)
	}
	app.Modules.Set(key, st)
	return nil
}

// selectModules returns the requested keys in canonical order, defaulting to
// all six. Duplicates and out-of-order requests are normalized.
func selectModules(keys []models.ModuleKey) []models.ModuleKey {
	if len(keys) == 0 {
		return models.CanonicalModuleOrder()
	}
	want := [models.ModuleCount]bool{}
	for _, k := range keys {
		if k.Valid() {
			want[k] = true
		}
	}
	var out []models.ModuleKey
	for _, k := range models.CanonicalModuleOrder() {
		if want[k] {
			out = append(out, k)
		}
	}
	return out
}

func baseResumeHTML(facts *models.ConfirmedFacts) string {
	if facts.Resume.Text == "" {
		return ""
	}
	return modules.ResumeTextToHTML(facts.Resume.Text)
}
