// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/devscholar/pkg/types"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over title, abstract,
	// authors, and venue.
	Query string

	// Type filters by identifier namespace.
	Type types.IdentifierType

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Retrieve queries the index with optional full-text search and a type
// filter. Full-text queries are ranked by relevance; structured-only
// queries sort by key.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.Metadata, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	const cols = `r.type, r.id, r.title, r.authors, r.abstract, r.published, r.venue,
			r.doi, r.abstract_url, r.pdf_url, r.citation_count, r.categories, r.fetched_at`

	if useFTS {
		qb.WriteString(`SELECT ` + cols + `
			FROM refs_fts
			JOIN refs r ON r.rowid = refs_fts.rowid
			WHERE refs_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + cols + `
			FROM refs r
			WHERE 1=1`)
	}

	if opts.Type != "" {
		qb.WriteString(` AND r.type = ?`)
		args = append(args, string(opts.Type))
	}

	if useFTS {
		qb.WriteString(` ORDER BY refs_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.key`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []types.Metadata
	for rows.Next() {
		var (
			m              types.Metadata
			idType         string
			authorsJSON    sql.NullString
			categoriesJSON sql.NullString
		)

		if err := rows.Scan(
			&idType, &m.ID, &m.Title, &authorsJSON, &m.Abstract, &m.Published, &m.Venue,
			&m.DOI, &m.AbstractURL, &m.PDFURL, &m.CitationCount, &categoriesJSON, &m.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		m.Type = types.IdentifierType(idType)
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &m.Authors)
		}
		if categoriesJSON.Valid {
			json.Unmarshal([]byte(categoriesJSON.String), &m.Categories)
		}
		if m.DOI != "" {
			m.DOIURL = "https://doi.org/" + m.DOI
		}

		results = append(results, m)
	}

	return results, rows.Err()
}
