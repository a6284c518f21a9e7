package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// The SQL is written once for every backend. {{seq}} and {{timestamp}}
// are replaced with the dialect's column types before execution, and
// statements are run one at a time.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS users (
	id         VARCHAR(36) NOT NULL PRIMARY KEY,
	username   VARCHAR(64) NOT NULL UNIQUE,
	password   VARCHAR(128) NOT NULL,
	created_at {{timestamp}} NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	seq         {{seq}},
	id          VARCHAR(36) NOT NULL UNIQUE,
	user_id     VARCHAR(36) NOT NULL,
	task_date   VARCHAR(10) NOT NULL,
	description VARCHAR(150) NOT NULL,
	done        BOOLEAN NOT NULL DEFAULT FALSE,
	important   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  {{timestamp}} NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX idx_tasks_user_date ON tasks(user_id, task_date, created_at);

CREATE TABLE IF NOT EXISTS sessions (
	id            VARCHAR(36) NOT NULL PRIMARY KEY,
	slot          INTEGER NOT NULL DEFAULT 1 UNIQUE CHECK (slot = 1),
	user_id       VARCHAR(36) NOT NULL,
	last_activity {{timestamp}} NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)
`,
	},
}
