package store

import (
	"context"
	"database/sql"
)

// CreateOrganizationSectionParams holds the fields for CreateOrganizationSection.
type CreateOrganizationSectionParams struct {
	OrderNum    int64
	Code        string
	Title       string
	Description sql.NullString
	IsRequired  bool
	Icon        sql.NullString
}

// CreateOrganizationSection inserts a mandated information section.
func (q *Queries) CreateOrganizationSection(ctx context.Context, arg CreateOrganizationSectionParams) (OrganizationSection, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO organization_sections (order_num, code, title, description, is_required, icon)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.OrderNum, arg.Code, arg.Title, arg.Description, arg.IsRequired, arg.Icon,
	)
	if err != nil {
		return OrganizationSection{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return OrganizationSection{}, err
	}
	return q.GetOrganizationSectionByID(ctx, id)
}

// GetOrganizationSectionByID fetches a section by primary key.
func (q *Queries) GetOrganizationSectionByID(ctx context.Context, id int64) (OrganizationSection, error) {
	var s OrganizationSection
	err := q.db.QueryRowContext(ctx,
		`SELECT id, order_num, code, title, description, is_required, icon
		 FROM organization_sections WHERE id = ?`, id,
	).Scan(&s.ID, &s.OrderNum, &s.Code, &s.Title, &s.Description, &s.IsRequired, &s.Icon)
	return s, err
}

// ListOrganizationSections returns all sections in display order.
func (q *Queries) ListOrganizationSections(ctx context.Context) ([]OrganizationSection, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, order_num, code, title, description, is_required, icon
		 FROM organization_sections ORDER BY order_num`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []OrganizationSection
	for rows.Next() {
		var s OrganizationSection
		if err := rows.Scan(&s.ID, &s.OrderNum, &s.Code, &s.Title, &s.Description, &s.IsRequired, &s.Icon); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// CountOrganizationSections returns the total number of sections.
func (q *Queries) CountOrganizationSections(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM organization_sections").Scan(&n)
	return n, err
}

// ListOrganizationItems returns a section's published items in display order.
func (q *Queries) ListOrganizationItems(ctx context.Context, sectionID int64) ([]OrganizationItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, section_id, order_num, title, content, file_path, file_name, file_size, is_published, created_at, updated_at
		 FROM organization_items
		 WHERE section_id = ? AND is_published = 1
		 ORDER BY order_num`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrganizationItem
	for rows.Next() {
		var it OrganizationItem
		if err := rows.Scan(&it.ID, &it.SectionID, &it.OrderNum, &it.Title, &it.Content,
			&it.FilePath, &it.FileName, &it.FileSize, &it.IsPublished, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
