package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobcoach/internal/models"
)

// ErrNotFound is returned when a row id does not exist.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- APPLICATION OPERATIONS ----------------

const applicationColumns = `id, user_id, title, status, facts, facts_locked, modules,
	benchmark, gaps, learning_plan, cv, cover_letter, scorecard, scores,
	cv_html, cv_versions, cover_letter_html, cover_letter_versions,
	created_at, updated_at`

// CreateApplication inserts a fresh draft with every module idle.
func (r *Repository) CreateApplication(ctx context.Context, userID, title string) (*models.Application, error) {
	modules, err := json.Marshal(models.NewModuleStatusSet())
	if err != nil {
		return nil, fmt.Errorf("failed to encode module statuses: %w", err)
	}

	query := `
		INSERT INTO applications (id, user_id, title, status, modules, cv_html, cv_versions, cover_letter_html, cover_letter_versions)
		VALUES ($1, $2, $3, $4, $5, '', '[]', '', '[]')
		RETURNING ` + applicationColumns

	row := r.db.QueryRow(ctx, query, uuid.NewString(), userID, title, models.StatusDraft, modules)
	app, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

func (r *Repository) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

func (r *Repository) ListApplications(ctx context.Context, userID string) ([]models.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// SaveFacts writes the confirmed facts and the lock flag in one update.
func (r *Repository) SaveFacts(ctx context.Context, id string, facts *models.ConfirmedFacts, locked bool) error {
	data, err := json.Marshal(facts)
	if err != nil {
		return fmt.Errorf("failed to encode facts: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`UPDATE applications SET facts = $1, facts_locked = $2, updated_at = now() WHERE id = $3`,
		data, locked, id)
	if err != nil {
		return fmt.Errorf("failed to save facts: %w", err)
	}
	return nil
}

func (r *Repository) SetApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	_, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

// SetModuleStatus writes one module's status entry via jsonb_set, so a
// sibling module's entry is never touched by this update.
func (r *Repository) SetModuleStatus(ctx context.Context, appID string, key models.ModuleKey, st models.ModuleStatus) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode module status: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`UPDATE applications
		 SET modules = jsonb_set(modules, ARRAY[$1], $2::jsonb, true), updated_at = now()
		 WHERE id = $3`,
		key.String(), data, appID)
	if err != nil {
		return fmt.Errorf("failed to set %s status: %w", key, err)
	}
	return nil
}

var payloadColumns = map[models.ModuleKey]string{
	models.ModuleBenchmark:    "benchmark",
	models.ModuleGaps:         "gaps",
	models.ModuleLearningPlan: "learning_plan",
	models.ModuleCV:           "cv",
	models.ModuleCoverLetter:  "cover_letter",
	models.ModuleScorecard:    "scorecard",
}

// SaveModulePayload writes one module's payload column.
func (r *Repository) SaveModulePayload(ctx context.Context, appID string, key models.ModuleKey, payload any) error {
	column, ok := payloadColumns[key]
	if !ok {
		return fmt.Errorf("unknown module key %d", int(key))
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", key, err)
	}
	_, err = r.db.Exec(ctx,
		`UPDATE applications SET `+column+` = $1, updated_at = now() WHERE id = $2`, data, appID)
	if err != nil {
		return fmt.Errorf("failed to save %s payload: %w", key, err)
	}
	return nil
}

// SaveDocument writes one editable document's content and version list.
func (r *Repository) SaveDocument(ctx context.Context, appID string, kind models.DocKind, doc models.Document) error {
	var contentCol, versionsCol string
	switch kind {
	case models.DocCV:
		contentCol, versionsCol = "cv_html", "cv_versions"
	case models.DocCoverLetter:
		contentCol, versionsCol = "cover_letter_html", "cover_letter_versions"
	default:
		return fmt.Errorf("unknown document kind %q", kind)
	}
	versionsData, err := json.Marshal(doc.Versions)
	if err != nil {
		return fmt.Errorf("failed to encode versions: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`UPDATE applications SET `+contentCol+` = $1, `+versionsCol+` = $2, updated_at = now() WHERE id = $3`,
		doc.ContentHTML, versionsData, appID)
	if err != nil {
		return fmt.Errorf("failed to save %s document: %w", kind, err)
	}
	return nil
}

func (r *Repository) SaveScores(ctx context.Context, appID string, s models.Scores) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`UPDATE applications SET scores = $1, updated_at = now() WHERE id = $2`, data, appID)
	return err
}

// ---------------- TASK OPERATIONS ----------------

// UpsertTask inserts a derived task or refreshes its title/priority. Status
// and completed_at belong to the user and are deliberately NOT overwritten
// on conflict, so regeneration never un-completes a task.
func (r *Repository) UpsertTask(ctx context.Context, t *models.Task) error {
	query := `
		INSERT INTO tasks (id, application_id, title, source, keyword, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET title = EXCLUDED.title, priority = EXCLUDED.priority, updated_at = now()
		RETURNING id, application_id, title, source, keyword, priority, status, completed_at, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		t.ID, t.ApplicationID, t.Title, t.Source, t.Keyword, t.Priority, t.Status).
		Scan(&t.ID, &t.ApplicationID, &t.Title, &t.Source, &t.Keyword, &t.Priority, &t.Status,
			&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert task: %w", err)
	}
	return nil
}

func (r *Repository) SetTaskStatus(ctx context.Context, id string, status models.TaskStatus, completedAt *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET status = $1, completed_at = $2, updated_at = now() WHERE id = $3`,
		status, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to set task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	err := r.db.QueryRow(ctx,
		`SELECT id, application_id, title, source, keyword, priority, status, completed_at, created_at, updated_at
		 FROM tasks WHERE id = $1`, id).
		Scan(&t.ID, &t.ApplicationID, &t.Title, &t.Source, &t.Keyword, &t.Priority, &t.Status,
			&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &t, nil
}

func (r *Repository) ListTasks(ctx context.Context, applicationID string) ([]models.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, application_id, title, source, keyword, priority, status, completed_at, created_at, updated_at
		 FROM tasks WHERE application_id = $1 ORDER BY created_at`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.ApplicationID, &t.Title, &t.Source, &t.Keyword, &t.Priority,
			&t.Status, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ---------------- EVIDENCE OPERATIONS ----------------

func (r *Repository) CreateEvidence(ctx context.Context, e *models.Evidence) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO evidence (id, user_id, kind, title, url, skills, tools, tags, application_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		e.ID, e.UserID, e.Kind, e.Title, e.URL, e.Skills, e.Tools, e.Tags, e.ApplicationID).
		Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create evidence: %w", err)
	}
	return nil
}

func (r *Repository) ListEvidence(ctx context.Context, userID string) ([]models.Evidence, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, kind, title, url, skills, tools, tags, application_id, created_at
		 FROM evidence WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence: %w", err)
	}
	defer rows.Close()

	var out []models.Evidence
	for rows.Next() {
		var e models.Evidence
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Title, &e.URL, &e.Skills, &e.Tools,
			&e.Tags, &e.ApplicationID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evidence: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ---------------- SCANNING ----------------

func scanApplication(row pgx.Row) (*models.Application, error) {
	var (
		app           models.Application
		facts         []byte
		modules       []byte
		benchmark     []byte
		gapsData      []byte
		learningPlan  []byte
		cv            []byte
		coverLetter   []byte
		scorecard     []byte
		scores        []byte
		cvVersions    []byte
		coverVersions []byte
	)

	err := row.Scan(&app.ID, &app.UserID, &app.Title, &app.Status, &facts, &app.FactsLocked, &modules,
		&benchmark, &gapsData, &learningPlan, &cv, &coverLetter, &scorecard, &scores,
		&app.CVDoc.ContentHTML, &cvVersions, &app.CoverLetterDoc.ContentHTML, &coverVersions,
		&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}

	app.Modules = models.NewModuleStatusSet()
	if err := decodeInto(modules, &app.Modules); err != nil {
		return nil, fmt.Errorf("bad modules column: %w", err)
	}
	if err := decodeInto(facts, &app.Facts); err != nil {
		return nil, fmt.Errorf("bad facts column: %w", err)
	}
	if err := decodeInto(benchmark, &app.Benchmark); err != nil {
		return nil, fmt.Errorf("bad benchmark column: %w", err)
	}
	if err := decodeInto(gapsData, &app.Gaps); err != nil {
		return nil, fmt.Errorf("bad gaps column: %w", err)
	}
	if err := decodeInto(learningPlan, &app.LearningPlan); err != nil {
		return nil, fmt.Errorf("bad learning_plan column: %w", err)
	}
	if err := decodeInto(cv, &app.CV); err != nil {
		return nil, fmt.Errorf("bad cv column: %w", err)
	}
	if err := decodeInto(coverLetter, &app.CoverLetter); err != nil {
		return nil, fmt.Errorf("bad cover_letter column: %w", err)
	}
	if err := decodeInto(scorecard, &app.Scorecard); err != nil {
		return nil, fmt.Errorf("bad scorecard column: %w", err)
	}
	if err := decodeInto(scores, &app.Scores); err != nil {
		return nil, fmt.Errorf("bad scores column: %w", err)
	}
	if err := decodeInto(cvVersions, &app.CVDoc.Versions); err != nil {
		return nil, fmt.Errorf("bad cv_versions column: %w", err)
	}
	if err := decodeInto(coverVersions, &app.CoverLetterDoc.Versions); err != nil {
		return nil, fmt.Errorf("bad cover_letter_versions column: %w", err)
	}

	return &app, nil
}

// decodeInto unmarshals a nullable jsonb column, leaving the target zero
// when the column is NULL.
func decodeInto(data []byte, target any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
