package db

import (
	"context"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
)

const categoryColumns = `id, slug, name, description, parent_id, sort_order, created_at`

// GetCategoryList returns top-level categories when parentID is zero,
// otherwise the children of parentID.
func (s *DB) GetCategoryList(ctx context.Context, parentID int64) (_ []entity.DocumentCategory, err error) {
	ctx, span := s.startSpan(ctx, "GetCategoryList")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + categoryColumns + ` FROM document_categories WHERE parent_id IS NULL ORDER BY sort_order, name`
	args := []any{}
	if parentID != 0 {
		query = `SELECT ` + categoryColumns + ` FROM document_categories WHERE parent_id = $1 ORDER BY sort_order, name`
		args = append(args, parentID)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.DocumentCategory
	for rows.Next() {
		var cat entity.DocumentCategory
		if err = rows.Scan(&cat.ID, &cat.Slug, &cat.Name, &cat.Description, &cat.ParentID, &cat.SortOrder, &cat.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, cat)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return out, nil
}

func (s *DB) GetCategoryByID(ctx context.Context, id int64) (_ *entity.DocumentCategory, err error) {
	ctx, span := s.startSpan(ctx, "GetCategoryByID")
	defer func() { s.endSpan(span, err) }()

	var cat entity.DocumentCategory
	err = s.conn.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM document_categories WHERE id = $1`, id,
	).Scan(&cat.ID, &cat.Slug, &cat.Name, &cat.Description, &cat.ParentID, &cat.SortOrder, &cat.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &cat, nil
}

func (s *DB) CreateCategory(ctx context.Context, in entity.DocumentCategory) (err error) {
	ctx, span := s.startSpan(ctx, "CreateCategory")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO document_categories (id, slug, name, description, parent_id, sort_order) VALUES ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.Slug, in.Name, in.Description, in.ParentID, in.SortOrder)
	return s.mapError(err)
}

const documentColumns = `id, category_id, title, file_name, object_key, content_type, size_bytes, uploaded_by, created_at`

func (s *DB) GetDocumentByID(ctx context.Context, id int64) (_ *entity.Document, err error) {
	ctx, span := s.startSpan(ctx, "GetDocumentByID")
	defer func() { s.endSpan(span, err) }()

	var doc entity.Document
	err = s.conn.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id,
	).Scan(&doc.ID, &doc.CategoryID, &doc.Title, &doc.FileName, &doc.ObjectKey,
		&doc.ContentType, &doc.SizeBytes, &doc.UploadedBy, &doc.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &doc, nil
}

func (s *DB) GetDocumentListByCategory(ctx context.Context, categoryID int64) (_ []entity.Document, err error) {
	ctx, span := s.startSpan(ctx, "GetDocumentListByCategory")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE category_id = $1 ORDER BY title`, categoryID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.Document
	for rows.Next() {
		var doc entity.Document
		if err = rows.Scan(&doc.ID, &doc.CategoryID, &doc.Title, &doc.FileName, &doc.ObjectKey,
			&doc.ContentType, &doc.SizeBytes, &doc.UploadedBy, &doc.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return out, nil
}

func (s *DB) CreateDocument(ctx context.Context, in entity.Document) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDocument")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO documents (id, category_id, title, file_name, object_key, content_type, size_bytes, uploaded_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		in.ID, in.CategoryID, in.Title, in.FileName, in.ObjectKey, in.ContentType, in.SizeBytes, in.UploadedBy)
	return s.mapError(err)
}

func (s *DB) DeleteDocument(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteDocument")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return s.mapError(err)
}
