package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"smartTextVision/models"
)

const userColumns = `id, name, email, password, role`

type UserDAO struct {
	db      *sql.DB
	timeout time.Duration
}

func NewUserDAO(db *sql.DB) *UserDAO {
	return &UserDAO{db: db, timeout: 3 * time.Second}
}

// InsertUser stores u and returns the generated ID. An empty role falls back to 'user'.
// u.ID is updated in place.
func (d *UserDAO) InsertUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, errors.New("nil user")
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password, role) VALUES (?, ?, ?, ?)`,
		u.Name, u.Email, u.Password, role)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = id
	u.Role = role
	return id, nil
}

// GetUserByEmail returns nil, nil when no row matches. Emails are not unique;
// the oldest account wins.
func (d *UserDAO) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? ORDER BY id LIMIT 1`, email)
	return scanUser(row)
}

func (d *UserDAO) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (d *UserDAO) GetAllUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*d.timeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *UserDAO) DeleteUserByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

// DeleteUser removes the row matching u's primary key.
func (d *UserDAO) DeleteUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	return d.DeleteUserByID(ctx, u.ID)
}

// UpdateRole sets the role for the given user id.
// Used when seeding administrators.
func (d *UserDAO) UpdateRole(ctx context.Context, id int64, role string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	return err
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
