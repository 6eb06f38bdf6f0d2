// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/lettertool/internal/platform/constants"
	"github.com/taibuivan/lettertool/internal/platform/database/schema"
	"github.com/taibuivan/lettertool/internal/platform/dberr"
	"github.com/taibuivan/lettertool/pkg/pointer"
	"github.com/taibuivan/lettertool/pkg/uuid"
)

// Pool is the part of [*pgxpool.Pool] the repository needs.
type Pool interface {
	Begin(context context.Context) (pgx.Tx, error)
	Query(context context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores targets in PostgreSQL.
type PostgresRepository struct {
	pool      Pool
	batchSize int
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(pool Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool, batchSize: constants.TargetInsertBatchSize}
}

// WithBatchSize overrides the number of rows per INSERT statement.
func (repository *PostgresRepository) WithBatchSize(size int) *PostgresRepository {
	if size > 0 {
		repository.batchSize = size
	}
	return repository
}

/*
Replace deletes every target of the campaign and inserts targets in its place.

Description: Runs in one transaction. Rows are inserted in sequential
multi-value batches; if any statement fails the transaction is rolled back
and the previous list is left untouched.
*/
func (repository *PostgresRepository) Replace(context context.Context, campaignID string, targets []Target) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_replace_targets")
	}
	// No-op after a successful commit.
	defer func() { _ = transaction.Rollback(context) }()

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CampaignTarget.Table, schema.CampaignTarget.CampaignID)
	if _, err := transaction.Exec(context, deleteQuery, campaignID); err != nil {
		return dberr.Wrap(err, "delete_targets")
	}

	for start := 0; start < len(targets); start += repository.batchSize {
		end := min(start+repository.batchSize, len(targets))
		query, args := insertBatch(campaignID, targets[start:end], start)
		if _, err := transaction.Exec(context, query, args...); err != nil {
			return dberr.Wrap(err, fmt.Sprintf("insert_targets_batch_%d", start/repository.batchSize))
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_replace_targets")
	}
	return nil
}

// insertBatch builds one multi-value INSERT. Positions continue from offset.
func insertBatch(campaignID string, batch []Target, offset int) (string, []any) {
	columns := schema.CampaignTarget.InsertColumns()

	placeholders := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*len(columns))

	for i, target := range batch {
		marks := make([]string, len(columns))
		for j := range columns {
			marks[j] = fmt.Sprintf("$%d", i*len(columns)+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")

		id := target.ID
		if !uuid.Valid(id) {
			id = uuid.New()
		}

		args = append(args,
			id,
			campaignID,
			offset+i,
			target.Name,
			target.Email,
			target.PostalCode,
			pointer.NonZero(target.City),
			pointer.NonZero(target.Region),
			pointer.NonZero(target.CountryCode),
			pointer.NonZero(target.Category),
			pointer.NonZero(target.ImageURL),
			target.Latitude,
			target.Longitude,
		)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`,
		schema.CampaignTarget.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, args
}

// List returns one page of targets ordered by position.
func (repository *PostgresRepository) List(context context.Context, campaignID string, limit, offset int) ([]Target, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`,
		schema.CampaignTarget.ID, schema.CampaignTarget.CampaignID, schema.CampaignTarget.Position,
		schema.CampaignTarget.Name, schema.CampaignTarget.Email, schema.CampaignTarget.PostalCode,
		schema.CampaignTarget.City, schema.CampaignTarget.Region, schema.CampaignTarget.CountryCode,
		schema.CampaignTarget.Category, schema.CampaignTarget.ImageURL,
		schema.CampaignTarget.Latitude, schema.CampaignTarget.Longitude, schema.CampaignTarget.CreatedAt,
		schema.CampaignTarget.Table,
		schema.CampaignTarget.CampaignID,
		schema.CampaignTarget.Position,
	)

	rows, err := repository.pool.Query(context, query, campaignID, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "list_targets")
	}
	defer rows.Close()

	targets := make([]Target, 0)
	for rows.Next() {
		var (
			target                                     Target
			city, region, countryCode, category, image *string
		)
		if err := rows.Scan(
			&target.ID, &target.CampaignID, &target.Position,
			&target.Name, &target.Email, &target.PostalCode,
			&city, &region, &countryCode, &category, &image,
			&target.Latitude, &target.Longitude, &target.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_target")
		}

		target.City = pointer.Val(city)
		target.Region = pointer.Val(region)
		target.CountryCode = pointer.Val(countryCode)
		target.Category = pointer.Val(category)
		target.ImageURL = pointer.Val(image)
		targets = append(targets, target)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_targets")
	}
	return targets, nil
}

// Count returns the number of targets of a campaign.
func (repository *PostgresRepository) Count(context context.Context, campaignID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.CampaignTarget.Table, schema.CampaignTarget.CampaignID)

	var total int
	if err := repository.pool.QueryRow(context, query, campaignID).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_targets")
	}
	return total, nil
}
