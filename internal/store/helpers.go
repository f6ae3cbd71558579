package store

import (
	"database/sql"
	"fmt"

	"github.com/univelcity/unibot/internal/models"
)

// leadColumns is the column order shared by every lead query.
const leadColumns = "id, phone, name, course, status, last_response, source, created_at, updated_at"

// leadScanner abstracts sql.Row and sql.Rows for scanLead.
type leadScanner interface {
	Scan(dest ...interface{}) error
}

// scanLead scans one lead row in leadColumns order.
func scanLead(row leadScanner) (models.Lead, error) {
	var lead models.Lead
	var status string
	err := row.Scan(
		&lead.ID, &lead.Phone, &lead.Name, &lead.Course, &status,
		&lead.LastResponse, &lead.Source, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return lead, err
	}
	lead.Status = models.LeadStatus(status)
	return lead, nil
}

// leadUpdateColumns flattens the non-nil fields of an update into column
// names and values, so each backend can render its own placeholder style.
func leadUpdateColumns(updates models.FieldUpdates) ([]string, []interface{}) {
	var cols []string
	var args []interface{}
	if updates.Name != nil {
		cols = append(cols, "name")
		args = append(args, *updates.Name)
	}
	if updates.Course != nil {
		cols = append(cols, "course")
		args = append(args, *updates.Course)
	}
	if updates.Status != nil {
		cols = append(cols, "status")
		args = append(args, string(*updates.Status))
	}
	if updates.LastResponse != nil {
		cols = append(cols, "last_response")
		args = append(args, *updates.LastResponse)
	}
	return cols, args
}

// collectLeads drains a lead query result set.
func collectLeads(rows *sql.Rows) ([]models.Lead, error) {
	defer rows.Close()
	var leads []models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lead rows: %w", err)
	}
	return leads, nil
}
