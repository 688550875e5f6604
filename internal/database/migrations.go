package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		provider VARCHAR(50) NOT NULL,
		provider_id VARCHAR(255) NOT NULL,
		subscription_tier VARCHAR(50) NOT NULL DEFAULT 'free',
		subscription_status VARCHAR(50) NOT NULL DEFAULT 'inactive',
		is_whitelisted BOOLEAN NOT NULL DEFAULT FALSE,
		workspace_addons INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`CREATE TABLE IF NOT EXISTS workspaces (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS workspace_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role VARCHAR(50) NOT NULL DEFAULT 'member',
		can_manage_team BOOLEAN NOT NULL DEFAULT FALSE,
		can_manage_settings BOOLEAN NOT NULL DEFAULT FALSE,
		can_delete_posts BOOLEAN NOT NULL DEFAULT FALSE,
		can_approve_posts BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(workspace_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS workspace_invitations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		email VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'member',
		inviter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// One live invitation per address per workspace. The read-then-insert
	// window in the invite flow is closed here, not in application code.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_workspace_invitations_pending
		ON workspace_invitations(workspace_id, lower(email)) WHERE status = 'pending'`,

	`CREATE TABLE IF NOT EXISTS agency_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		member_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		can_manage_agency BOOLEAN NOT NULL DEFAULT FALSE,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(agency_owner_id, member_user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS agency_roster (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		agency_owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		email VARCHAR(255) NOT NULL,
		member_user_id UUID REFERENCES users(id) ON DELETE SET NULL,
		default_role VARCHAR(50) NOT NULL DEFAULT 'member',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS uq_agency_roster_email
		ON agency_roster(agency_owner_id, lower(email))`,

	`CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		scheduled_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_workspaces_owner_id ON workspaces(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workspace_members_workspace_id ON workspace_members(workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workspace_members_user_id ON workspace_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workspace_invitations_workspace_id ON workspace_invitations(workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workspace_invitations_email ON workspace_invitations(lower(email))`,
	`CREATE INDEX IF NOT EXISTS idx_agency_members_member_user_id ON agency_members(member_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_agency_roster_owner_id ON agency_roster(agency_owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_workspace_id ON posts(workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,

	// Migration: legacy deployments stored the historical five-role scheme
	// (admin/editor/client/view_only). Rows are left as-is; roles are
	// normalized in code on every read.
	`ALTER TABLE workspace_members ALTER COLUMN role TYPE VARCHAR(50)`,

	// Migration: final-approval flag arrived after the other four overrides
	`ALTER TABLE workspace_members ADD COLUMN IF NOT EXISTS can_final_approval BOOLEAN NOT NULL DEFAULT FALSE`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
