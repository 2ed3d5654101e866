package sqlite

import (
	"context"

	"github.com/google/uuid"
	"github.com/tracknorth/basecamp/internal/auth/domain"
)

type clientsRepo struct {
	q dbtx
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id uuid.UUID) (domain.ClientApplication, error) {
	var (
		c   domain.ClientApplication
		raw string
	)
	row := r.q.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM client_applications WHERE id = ?`, id.String())
	if err := row.Scan(&raw, &c.Name, &c.CreatedAt); err != nil {
		return domain.ClientApplication{}, mapNotFound(err)
	}

	parsed, err := uuid.Parse(raw)
	if err != nil {
		return domain.ClientApplication{}, err
	}
	c.ID = parsed
	return c, nil
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.ClientApplication) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO client_applications (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID.String(), c.Name, c.CreatedAt,
	)
	return mapUnique(err)
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.ClientApplication, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, created_at FROM client_applications ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.ClientApplication
	for rows.Next() {
		var (
			c   domain.ClientApplication
			raw string
		)
		if err := rows.Scan(&raw, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.ID, err = uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
