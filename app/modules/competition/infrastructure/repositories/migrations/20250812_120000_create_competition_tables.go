package competitionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating team, competition and registration tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS teams (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name VARCHAR(100) NOT NULL,
					club_uuid UUID NOT NULL REFERENCES clubs(uuid) ON DELETE CASCADE,
					photo_url TEXT,
					description TEXT NOT NULL DEFAULT '',
					member_uuids UUID[] NOT NULL DEFAULT '{}',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create teams table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS competitions (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name VARCHAR(100) NOT NULL,
					due_date TIMESTAMPTZ NOT NULL,
					creation_date DATE NOT NULL DEFAULT CURRENT_DATE,
					status VARCHAR(50) NOT NULL DEFAULT 'Open',
					description TEXT NOT NULL DEFAULT ''
				);
			`); err != nil {
				return fmt.Errorf("failed to create competitions table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS disciplines (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					competition_uuid UUID NOT NULL REFERENCES competitions(uuid) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					min_members INTEGER,
					max_members INTEGER
				);
			`); err != nil {
				return fmt.Errorf("failed to create disciplines table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS divisions (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					discipline_uuid UUID NOT NULL REFERENCES disciplines(uuid) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					required_exams TEXT[] NOT NULL DEFAULT '{}'
				);

				CREATE TABLE IF NOT EXISTS year_rules (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					division_uuid UUID NOT NULL REFERENCES divisions(uuid) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					option VARCHAR(50) NOT NULL,
					condition VARCHAR(50) NOT NULL,
					value DOUBLE PRECISION NOT NULL,
					description TEXT NOT NULL DEFAULT ''
				);
			`); err != nil {
				return fmt.Errorf("failed to create division tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS competition_registrations (
					uuid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					competition_uuid UUID NOT NULL REFERENCES competitions(uuid) ON DELETE CASCADE,
					discipline_uuid UUID NOT NULL REFERENCES disciplines(uuid) ON DELETE CASCADE,
					division_uuid UUID REFERENCES divisions(uuid) ON DELETE CASCADE,
					team_uuid UUID NOT NULL REFERENCES teams(uuid) ON DELETE CASCADE,
					club_uuid UUID NOT NULL REFERENCES clubs(uuid) ON DELETE CASCADE,
					status VARCHAR(50) NOT NULL DEFAULT 'Draft',
					creation_date DATE NOT NULL DEFAULT CURRENT_DATE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				-- One registration per team and discipline.
				CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_team_discipline
					ON competition_registrations(team_uuid, discipline_uuid);
			`); err != nil {
				return fmt.Errorf("failed to create competition_registrations table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping team, competition and registration tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS competition_registrations;
			DROP TABLE IF EXISTS year_rules;
			DROP TABLE IF EXISTS divisions;
			DROP TABLE IF EXISTS disciplines;
			DROP TABLE IF EXISTS competitions;
			DROP TABLE IF EXISTS teams;
		`)
		return err
	})
}
