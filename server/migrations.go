package server

// migrate runs database migrations
func (s *Server) migrate() error {
	migrations := []string{
		migrationAccounts,
		migrationUsers,
		migrationSessions,
		migrationPasswordResets,
		migrationPeople,
		migrationPlans,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

const migrationAccounts = `
CREATE TABLE IF NOT EXISTS accounts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    status VARCHAR(32) NOT NULL DEFAULT 'active',
    created_at TIMESTAMP DEFAULT NOW()
);
`

const migrationUsers = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    account_id UUID NOT NULL REFERENCES accounts(id),
    username VARCHAR(255) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(32) NOT NULL DEFAULT 'user',
    email_verified_at TIMESTAMP,
    last_login_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
`

const migrationSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id),
    token VARCHAR(64) UNIQUE NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
`

const migrationPasswordResets = `
CREATE TABLE IF NOT EXISTS password_resets (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id),
    jti VARCHAR(64) UNIQUE NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    used BOOLEAN DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW()
);
`

const migrationPeople = `
CREATE TABLE IF NOT EXISTS people (
    account_id UUID NOT NULL REFERENCES accounts(id),
    id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    timezone TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    status VARCHAR(32) NOT NULL DEFAULT 'active',
    details JSONB,
    login_time TEXT NOT NULL DEFAULT '',
    login_time_ago TEXT NOT NULL DEFAULT '',
    position INT NOT NULL DEFAULT 0,
    archived_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (account_id, id)
);
`

const migrationPlans = `
CREATE TABLE IF NOT EXISTS person_goals (
    account_id UUID NOT NULL,
    person_id TEXT NOT NULL,
    goals JSONB NOT NULL DEFAULT '[]',
    updated_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (account_id, person_id),
    FOREIGN KEY (account_id, person_id) REFERENCES people(account_id, id)
);

CREATE TABLE IF NOT EXISTS day_plans (
    account_id UUID NOT NULL,
    person_id TEXT NOT NULL,
    day VARCHAR(16) NOT NULL,
    plan JSONB NOT NULL,
    updated_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (account_id, person_id, day),
    FOREIGN KEY (account_id, person_id) REFERENCES people(account_id, id)
);
`
