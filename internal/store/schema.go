package store

const schema = `
CREATE TABLE IF NOT EXISTS knowledge_profiles (
	student_id       TEXT NOT NULL,
	area_id          TEXT NOT NULL,
	mastery          REAL NOT NULL,
	confidence       REAL NOT NULL,
	assessment_count INTEGER NOT NULL DEFAULT 0,
	last_assessed    TIMESTAMP,
	needs_review     INTEGER NOT NULL DEFAULT 0,
	version          INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (student_id, area_id)
);

CREATE TABLE IF NOT EXISTS sessions (
	id                 TEXT PRIMARY KEY,
	student_id         TEXT NOT NULL,
	subject            TEXT NOT NULL,
	grade_level        INTEGER NOT NULL,
	assessment_type    TEXT NOT NULL,
	status             TEXT NOT NULL,
	total_questions    INTEGER NOT NULL DEFAULT 0,
	questions_answered INTEGER NOT NULL DEFAULT 0,
	overall_score      REAL,
	recommendations    TEXT,
	created_at         TIMESTAMP NOT NULL,
	completed_at       TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sessions_student ON sessions (student_id);

CREATE TABLE IF NOT EXISTS items (
	id               TEXT PRIMARY KEY,
	session_id       TEXT NOT NULL REFERENCES sessions (id),
	area_id          TEXT NOT NULL,
	question_number  INTEGER NOT NULL,
	difficulty_level TEXT NOT NULL,
	question         TEXT NOT NULL,
	student_answer   TEXT,
	is_correct       INTEGER,
	score            REAL,
	feedback         TEXT,
	time_taken       INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL,
	answered_at      TIMESTAMP,
	UNIQUE (session_id, question_number)
);

CREATE TABLE IF NOT EXISTS llm_events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	purpose       TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms    INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);
`
