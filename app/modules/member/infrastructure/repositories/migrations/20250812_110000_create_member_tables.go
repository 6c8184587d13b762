package membermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating member, membership and change tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS members (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					photo_url TEXT,
					name VARCHAR(150) NOT NULL,
					surname VARCHAR(150) NOT NULL,
					house_number VARCHAR(50) NOT NULL,
					street VARCHAR(100) NOT NULL,
					city VARCHAR(100) NOT NULL,
					zip_code VARCHAR(20) NOT NULL,
					date_of_birth DATE NOT NULL,
					nationality VARCHAR(2) NOT NULL,
					affiliation_year INTEGER NOT NULL,
					account_uuid UUID,
					roles TEXT[] NOT NULL DEFAULT '{}',
					exams TEXT[] NOT NULL DEFAULT '{}',
					js_qualifications TEXT[] NOT NULL DEFAULT '{}',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create members table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS memberships (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					member_uuid UUID NOT NULL REFERENCES members(uuid) ON DELETE CASCADE,
					club_uuid UUID NOT NULL REFERENCES clubs(uuid) ON DELETE CASCADE,
					license_no INTEGER NOT NULL CHECK (license_no BETWEEN 1 AND 999),
					transfer_date DATE,
					applicant_uuid UUID,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				-- One current membership per member, and unique license numbers
				-- among a club's current memberships: the final integrity guard.
				CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_current_member
					ON memberships(member_uuid) WHERE transfer_date IS NULL;
				CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_current_license
					ON memberships(club_uuid, license_no) WHERE transfer_date IS NULL;
			`); err != nil {
				return fmt.Errorf("failed to create memberships table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS member_changes (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					member_uuid UUID REFERENCES members(uuid) ON DELETE CASCADE,
					photo_url TEXT,
					name VARCHAR(150) NOT NULL,
					surname VARCHAR(150) NOT NULL,
					house_number VARCHAR(50) NOT NULL,
					street VARCHAR(100) NOT NULL,
					city VARCHAR(100) NOT NULL,
					zip_code VARCHAR(20) NOT NULL,
					date_of_birth DATE NOT NULL,
					nationality VARCHAR(2) NOT NULL,
					affiliation_year INTEGER NOT NULL,
					account_uuid UUID,
					roles TEXT[] NOT NULL DEFAULT '{}',
					exams TEXT[] NOT NULL DEFAULT '{}',
					js_qualifications TEXT[] NOT NULL DEFAULT '{}',
					applicant_uuid UUID NOT NULL,
					responder_uuid UUID,
					status VARCHAR(10) NOT NULL DEFAULT 'Pending',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_member_changes_member_status
					ON member_changes(member_uuid, status, created_at);
			`); err != nil {
				return fmt.Errorf("failed to create member_changes table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS membership_changes (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					membership_uuid UUID REFERENCES memberships(uuid) ON DELETE CASCADE,
					member_change_uuid UUID UNIQUE REFERENCES member_changes(uuid) ON DELETE CASCADE,
					club_uuid UUID NOT NULL REFERENCES clubs(uuid) ON DELETE CASCADE,
					license_no INTEGER NOT NULL CHECK (license_no BETWEEN 1 AND 999),
					transfer_date DATE,
					applicant_uuid UUID NOT NULL,
					responder_uuid UUID,
					status VARCHAR(10) NOT NULL DEFAULT 'Pending',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create membership_changes table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping member, membership and change tables...")
		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS membership_changes;
			DROP TABLE IF EXISTS member_changes;
			DROP TABLE IF EXISTS memberships;
			DROP TABLE IF EXISTS members;
		`)
		return err
	})
}
