package sqlite

// schema is applied on every open. All statements are idempotent so an
// existing database is upgraded in place without a migration step.
const schema = `
-- Plans holds one row per named plan. The content column is the canonical
-- JSON form of the plan (lifecycle fields excluded), so content_hash can be
-- recomputed from it at any time.
CREATE TABLE IF NOT EXISTS plans (
    name         TEXT PRIMARY KEY,
    content      TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    iteration    INTEGER NOT NULL DEFAULT 0,
    status       TEXT NOT NULL DEFAULT 'draft',
    created_at   TEXT NOT NULL,
    updated_at   TEXT NOT NULL,
    approved_at  TEXT,
    approved_by  TEXT NOT NULL DEFAULT ''
);

-- Runs is the validation history. Rows are pruned per plan beyond the
-- configured retention count, newest kept.
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    plan_name    TEXT NOT NULL REFERENCES plans(name) ON DELETE CASCADE,
    content_hash TEXT NOT NULL,
    valid        INTEGER NOT NULL,
    violations   INTEGER NOT NULL,
    warnings     INTEGER NOT NULL,
    report       TEXT NOT NULL,
    created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_plan_created ON runs(plan_name, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_plans_updated ON plans(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status);
`
