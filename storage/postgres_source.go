package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"

	_ "github.com/lib/pq"
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads listings from a PostgreSQL table with the listings file columns
type PostgresSource struct {
	db     *sql.DB
	table  string
	logger *utils.Logger
}

// NewPostgresSource opens the database and pings it
func NewPostgresSource(ctx context.Context, connStr, table string, logger *utils.Logger) (*PostgresSource, error) {
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresSource{db: db, table: table, logger: logger}, nil
}

func (s *PostgresSource) Name() string { return "postgres:" + s.table }

// selectQuery lists the columns in file order, ordered by listing id
func (s *PostgresSource) selectQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(models.Columns, ", "), s.table)
}

// Load reads the whole table
func (s *PostgresSource) Load(ctx context.Context) ([]*models.Listing, error) {
	rows, err := s.db.QueryContext(ctx, s.selectQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		var (
			l                     models.Listing
			name, hostName, group sql.NullString
		)
		err := rows.Scan(
			&l.ID,
			&name,
			&l.HostID,
			&hostName,
			&group,
			&l.Neighbourhood,
			&l.Latitude,
			&l.Longitude,
			&l.RoomType,
			&l.Price,
			&l.MinimumNights,
			&l.NumberOfReviews,
			&l.LastReview,
			&l.ReviewsPerMonth,
			&l.HostListingsCount,
			&l.Availability365,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		l.Name = name.String
		l.HostName = hostName.String
		l.NeighbourhoodGroup = group.String
		if err := checkFinite(&l); err != nil {
			return nil, err
		}
		listings = append(listings, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listing rows: %w", err)
	}
	if len(listings) == 0 {
		return nil, ErrEmptyDataset
	}

	s.logger.Info("Read %d listings from PostgreSQL table %s", len(listings), s.table)
	return listings, nil
}

// Close closes the database connection
func (s *PostgresSource) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}
