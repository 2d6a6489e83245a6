package store

const schema = `
CREATE TABLE IF NOT EXISTS training_runs (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    source TEXT,
    total_baskets INTEGER NOT NULL,
    unique_products INTEGER NOT NULL,
    unique_pairs INTEGER NOT NULL,
    rule_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
    position INTEGER PRIMARY KEY,
    run_id TEXT NOT NULL,
    product_a TEXT NOT NULL,
    product_b TEXT NOT NULL,
    count INTEGER NOT NULL,
    support REAL NOT NULL,
    confidence_a_to_b REAL NOT NULL,
    confidence_b_to_a REAL NOT NULL,
    lift REAL NOT NULL,
    FOREIGN KEY (run_id) REFERENCES training_runs(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_rules_pair ON rules(product_a, product_b);
CREATE INDEX IF NOT EXISTS idx_rules_product_b ON rules(product_b);
CREATE INDEX IF NOT EXISTS idx_runs_created ON training_runs(created_at);
`
