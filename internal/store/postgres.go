package store

import (
    "context"
    "database/sql"
    "errors"

    _ "github.com/jackc/pgx/v5/stdlib"

    "bookhub/internal/model"
)

// Postgres backs the account store with a database via the pgx stdlib driver.
type Postgres struct {
    db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    if err := db.Ping(); err != nil {
        return nil, err
    }
    return &Postgres{db: db}, nil
}

// Bootstrap creates the accounts table if missing (dev helper).
func (p *Postgres) Bootstrap(ctx context.Context) error {
    _, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS accounts (
        id TEXT PRIMARY KEY,
        display_name TEXT NOT NULL DEFAULT '',
        email TEXT NOT NULL DEFAULT ''
    )`)
    return err
}

func (p *Postgres) GetAccount(ctx context.Context, id string) (model.Account, error) {
    var a model.Account
    err := p.db.QueryRowContext(ctx,
        `SELECT id, display_name, email FROM accounts WHERE id=$1`, id,
    ).Scan(&a.ID, &a.DisplayName, &a.Email)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Account{}, ErrAccountNotFound
    }
    if err != nil {
        return model.Account{}, err
    }
    return a, nil
}

func (p *Postgres) PutAccount(ctx context.Context, a model.Account) error {
    _, err := p.db.ExecContext(ctx,
        `INSERT INTO accounts (id, display_name, email) VALUES ($1,$2,$3)
         ON CONFLICT (id) DO UPDATE SET display_name=EXCLUDED.display_name, email=EXCLUDED.email`,
        a.ID, a.DisplayName, a.Email)
    return err
}

func (p *Postgres) Close() error { return p.db.Close() }
