package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC (default)
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, defaultField otherwise
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowed[trimmed] {
		return trimmed
	}
	return defaultField
}

// listSpec describes how a repository exposes a table to list queries.
// Only whitelisted columns ever reach SQL.
type listSpec struct {
	sortFields   map[string]bool
	defaultSort  string
	filterFields map[string]bool
	searchFields []string
	dateField    string
}

func fields(names ...string) map[string]bool {
	m := make(map[string]bool, len(names)+2)
	m["created_at"] = true
	m["updated_at"] = true
	for _, n := range names {
		m[n] = true
	}
	return m
}

// applyFilter adds equality filters, search and date range to q
func (s listSpec) applyFilter(q *gorm.DB, f shared.Filter) *gorm.DB {
	for key, value := range f.Filters {
		if !s.filterFields[key] {
			continue
		}
		if str, ok := value.(string); ok && str == "" {
			continue
		}
		q = q.Where(fmt.Sprintf("%s = ?", key), value)
	}

	if term := strings.TrimSpace(f.Search); term != "" && len(s.searchFields) > 0 {
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(s.searchFields))
		args := make([]any, len(s.searchFields))
		for i, col := range s.searchFields {
			clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
			args[i] = pattern
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	dateField := s.dateField
	if dateField == "" {
		dateField = "created_at"
	}
	if f.From != nil {
		q = q.Where(fmt.Sprintf("%s >= ?", dateField), *f.From)
	}
	if f.To != nil {
		q = q.Where(fmt.Sprintf("%s <= ?", dateField), *f.To)
	}
	return q
}

// page applies ordering and pagination to q
func (s listSpec) page(q *gorm.DB, f shared.Filter) *gorm.DB {
	def := s.defaultSort
	if def == "" {
		def = "created_at"
	}
	field := ValidateSortField(f.OrderBy, s.sortFields, def)
	return q.Order(fmt.Sprintf("%s %s", field, ValidateSortOrder(f.OrderDir))).
		Offset(f.Offset()).
		Limit(f.Limit())
}

// list counts the filtered rows and loads the requested page
func list[T any](q *gorm.DB, f shared.Filter, spec listSpec, preloads ...string) ([]T, int64, error) {
	q = spec.applyFilter(q.Model(new(T)), f)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}

	q = spec.page(q, f)
	for _, p := range preloads {
		q = q.Preload(p, orderedPreload(p))
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list: %w", err)
	}
	return items, total, nil
}

// first loads a single row, translating record-not-found to shared.ErrNotFound
func first[T any](q *gorm.DB, conds ...any) (*T, error) {
	var out T
	if err := q.First(&out, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// duplicateKey replaces a unique-constraint violation with dup. Other errors
// pass through. Requires TranslateError on the gorm config.
func duplicateKey(err error, dup *shared.DomainError) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return dup
	}
	return err
}

// findForTenant loads a row by id only when it belongs to tenantID
func findForTenant[T any](ctx context.Context, db *gorm.DB, tenantID, id uuid.UUID, preloads ...string) (*T, error) {
	q := db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id)
	for _, p := range preloads {
		q = q.Preload(p, orderedPreload(p))
	}
	return first[T](q)
}

// deleteByID removes a row by primary key, reporting shared.ErrNotFound when
// nothing matched
func deleteByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// exists reports whether any row matches the query
func exists(q *gorm.DB) (bool, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// orderedPreload returns a preload condition that sorts child rows by their
// natural order column
func orderedPreload(association string) func(*gorm.DB) *gorm.DB {
	var order string
	switch association {
	case "Items":
		order = "line_no ASC"
	case "Subtasks":
		order = "position ASC"
	case "History":
		order = "created_at ASC"
	}
	return func(db *gorm.DB) *gorm.DB {
		if order == "" {
			return db
		}
		return db.Order(order)
	}
}
