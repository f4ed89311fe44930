// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/cafe-directory/internal/models"
)

const cafeColumns = `id, user_id, name, map_url, img_url, location, has_toilet, has_wifi,
	has_sockets, can_take_calls, seats, coffee_price, created_at`

// CreateCafe inserts a cafe and fills in its ID and creation time.
func (r *Repository) CreateCafe(ctx context.Context, cafe *models.Cafe) error {
	res, err := r.db.NamedExecContext(ctx, `INSERT INTO cafe
		(user_id, name, map_url, img_url, location, has_toilet, has_wifi, has_sockets, can_take_calls, seats, coffee_price)
		VALUES
		(:user_id, :name, :map_url, :img_url, :location, :has_toilet, :has_wifi, :has_sockets, :can_take_calls, :seats, :coffee_price)`,
		cafe)
	if err != nil {
		return wrapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetCafeByID(ctx, id)
	if err != nil {
		return err
	}
	*cafe = *stored
	return nil
}

// GetCafeByID retrieves a cafe by ID.
func (r *Repository) GetCafeByID(ctx context.Context, id int64) (*models.Cafe, error) {
	var cafe models.Cafe
	if err := r.db.GetContext(ctx, &cafe, `SELECT `+cafeColumns+` FROM cafe WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &cafe, nil
}

// ListCafes returns all cafes in store order.
func (r *Repository) ListCafes(ctx context.Context) ([]models.Cafe, error) {
	cafes := []models.Cafe{}
	if err := r.db.SelectContext(ctx, &cafes, `SELECT `+cafeColumns+` FROM cafe ORDER BY id`); err != nil {
		return nil, err
	}
	return cafes, nil
}

// ListCafesByUser returns the cafes submitted by a user.
func (r *Repository) ListCafesByUser(ctx context.Context, userID int64) ([]models.Cafe, error) {
	cafes := []models.Cafe{}
	if err := r.db.SelectContext(ctx, &cafes, `SELECT `+cafeColumns+` FROM cafe WHERE user_id = ? ORDER BY id`, userID); err != nil {
		return nil, err
	}
	return cafes, nil
}

// FindCafesByName returns cafes whose name contains s, ignoring case.
func (r *Repository) FindCafesByName(ctx context.Context, s string) ([]models.Cafe, error) {
	return r.findCafesLike(ctx, "name", s)
}

// FindCafesByLocation returns cafes whose location contains s, ignoring case.
func (r *Repository) FindCafesByLocation(ctx context.Context, s string) ([]models.Cafe, error) {
	return r.findCafesLike(ctx, "location", s)
}

// column is one of the fixed identifiers above, never user input.
func (r *Repository) findCafesLike(ctx context.Context, column, s string) ([]models.Cafe, error) {
	cafes := []models.Cafe{}
	query := `SELECT ` + cafeColumns + ` FROM cafe WHERE ` + column + ` LIKE ? ESCAPE '\' ORDER BY id`
	if err := r.db.SelectContext(ctx, &cafes, query, likePattern(s)); err != nil {
		return nil, err
	}
	return cafes, nil
}

// DeleteCafe deletes a cafe by ID.
func (r *Repository) DeleteCafe(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cafe WHERE id = ?`, id)
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountCafes returns the total number of cafes.
func (r *Repository) CountCafes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM cafe`)
	return count, err
}
