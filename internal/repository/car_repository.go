package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/car-listing-api/internal/model"
)

type CarRepo struct{ DB *sql.DB }

func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{DB: db} }

const carColumns = "id,brand,model,year,color,price,mileage,description,favorite,category,image_url,created_at"

// Sort parameters pass through a fixed whitelist; anything outside it
// silently resolves to the default instead of erroring, so untrusted
// input never reaches the query text.
var (
	sortableColumns = map[string]bool{
		"id": true, "brand": true, "model": true,
		"year": true, "price": true, "mileage": true,
	}
	sortDirections = map[string]bool{"ASC": true, "DESC": true}
)

// ResolveSort maps untrusted sortBy/order values onto the whitelist,
// falling back to year DESC.
func ResolveSort(sortBy, order string) (string, string) {
	col := "year"
	if sortableColumns[sortBy] {
		col = sortBy
	}
	dir := "DESC"
	if up := strings.ToUpper(order); sortDirections[up] {
		dir = up
	}
	return col, dir
}

// List returns one page of cars ordered by a whitelisted column and
// direction, plus the resolved sort values so the handler can echo them.
func (r *CarRepo) List(ctx context.Context, page, limit int, sortBy, order string) ([]model.Car, string, string, error) {
	col, dir := ResolveSort(sortBy, order)
	offset := (page - 1) * limit

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+carColumns+" FROM cars ORDER BY "+col+" "+dir+" LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, col, dir, err
	}
	defer rows.Close()

	cars, err := scanCars(rows, limit)
	return cars, col, dir, err
}

// SearchQuery holds the optional filters for Search. Zero values mean
// "no constraint"; string filters are raw query-param text and numeric
// ones are pointers so 0 remains a usable bound.
type SearchQuery struct {
	Brand    string
	Model    string
	MinYear  *int
	MaxYear  *int
	MinPrice *float64
	MaxPrice *float64
	Category string
}

// Search builds the query conjunctively from the filters that are present.
// Every value travels as a bound parameter; only fixed fragments are
// concatenated into the SQL text.
func (r *CarRepo) Search(ctx context.Context, q SearchQuery) ([]model.Car, error) {
	where := []string{}
	args := []any{}

	if q.Brand != "" {
		where = append(where, "brand LIKE ?")
		args = append(args, "%"+q.Brand+"%")
	}
	if q.Model != "" {
		where = append(where, "model LIKE ?")
		args = append(args, "%"+q.Model+"%")
	}
	if q.MinYear != nil {
		where = append(where, "year >= ?")
		args = append(args, *q.MinYear)
	}
	if q.MaxYear != nil {
		where = append(where, "year <= ?")
		args = append(args, *q.MaxYear)
	}
	if q.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *q.MaxPrice)
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+carColumns+" FROM cars WHERE "+cond+" ORDER BY year DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCars(rows, 0)
}

// Favorites returns every car with the favorite flag set, ordered by brand.
func (r *CarRepo) Favorites(ctx context.Context) ([]model.Car, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+carColumns+" FROM cars WHERE favorite = 1 ORDER BY brand ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCars(rows, 0)
}

// GetByID fetches one car; ErrNotFound when the id does not exist.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (model.Car, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+carColumns+" FROM cars WHERE id = ?", id)
	c, err := scanCar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Car{}, ErrNotFound
	}
	return c, err
}

// Create inserts a car and reads the stored row back so the response
// carries the assigned id and creation timestamp.
func (r *CarRepo) Create(ctx context.Context, in model.CarInput) (model.Car, error) {
	favorite := 0
	if in.Favorite != nil && *in.Favorite {
		favorite = 1
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO cars (brand, model, year, color, price, mileage, description, favorite, category, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Brand, in.Model, in.Year, in.Color, in.Price, in.Mileage,
		in.Description, favorite, in.Category, in.ImageURL)
	if err != nil {
		return model.Car{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Car{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update replaces every mutable field in one statement. Two concurrent
// updates race with last write wins; there is no optimistic locking.
func (r *CarRepo) Update(ctx context.Context, id uint64, in model.CarInput) (model.Car, error) {
	favorite := 0
	if in.Favorite != nil && *in.Favorite {
		favorite = 1
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE cars
		 SET brand = ?, model = ?, year = ?, color = ?, price = ?, mileage = ?, description = ?, favorite = ?, category = ?, image_url = ?
		 WHERE id = ?`,
		in.Brand, in.Model, in.Year, in.Color, in.Price, in.Mileage,
		in.Description, favorite, in.Category, in.ImageURL, id)
	if err != nil {
		return model.Car{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a car; ErrNotFound when zero rows were affected.
func (r *CarRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cars WHERE id = ?", id)
	if err != nil {
		return err
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

// SetImageURL records an uploaded image path on a car; ErrNotFound when
// the id does not exist.
func (r *CarRepo) SetImageURL(ctx context.Context, id uint64, url string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE cars SET image_url = ? WHERE id = ?", url, id)
	if err != nil {
		return err
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

func scanCar(row *sql.Row) (model.Car, error) {
	var c model.Car
	var favorite int
	err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Color, &c.Price,
		&c.Mileage, &c.Description, &favorite, &c.Category, &c.ImageURL, &c.CreatedAt)
	c.Favorite = favorite != 0
	return c, err
}

func scanCars(rows *sql.Rows, capHint int) ([]model.Car, error) {
	out := make([]model.Car, 0, capHint)
	for rows.Next() {
		var c model.Car
		var favorite int
		if err := rows.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Color, &c.Price,
			&c.Mileage, &c.Description, &favorite, &c.Category, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Favorite = favorite != 0
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
