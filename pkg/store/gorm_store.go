package store

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/entities"
	"Recipe-Generator/internal/metrics"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type gormStore struct {
	db      *gorm.DB
	backend string
}

// NewGormStore keeps every table in the single "records" relation. It
// mirrors the Airtable contract closely enough for the services to run
// against PostgreSQL or SQLite unchanged.
func NewGormStore(db *gorm.DB) RecordStore {
	return &gormStore{db: db, backend: db.Dialector.Name()}
}

func newRecordID() string {
	return "rec" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

func (s *gormStore) observe(table, op string, start time.Time, errp *error) {
	err := *errp
	metrics.ObserveStore(s.backend, table, op, start, err)
	if err != nil {
		log.Errorw("record store query failed", "backend", s.backend, "op", op, "table", table, "error", err)
	}
}

func (s *gormStore) List(ctx context.Context, table string, opts ListOptions) (records []entities.Record, err error) {
	defer s.observe(table, "list", time.Now(), &err)

	f, err := parseFormula(opts.FilterByFormula)
	if err != nil {
		return nil, storeError("list", table, http.StatusUnprocessableEntity, "INVALID_FILTER_BY_FORMULA", err)
	}

	var rows []entities.StoredRecord
	if err = s.db.WithContext(ctx).
		Where("table_name = ?", table).
		Order("created_time asc").
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, storeError("list", table, 0, "", err)
	}

	records = make([]entities.Record, 0, len(rows))
	for _, row := range rows {
		if f.match(row.Fields) {
			records = append(records, row.ToRecord())
		}
	}

	if len(opts.Sort) > 0 {
		sort.SliceStable(records, func(i, j int) bool {
			return lessBy(opts.Sort, records[i].Fields, records[j].Fields)
		})
	}

	if opts.MaxRecords > 0 && len(records) > opts.MaxRecords {
		records = records[:opts.MaxRecords]
	}
	return records, nil
}

func (s *gormStore) Get(ctx context.Context, table, id string) (rec entities.Record, err error) {
	defer s.observe(table, "get", time.Now(), &err)

	row, err := s.find(ctx, s.db, table, id)
	if err != nil {
		return entities.Record{}, wrapOp(err, "get")
	}
	return row.ToRecord(), nil
}

func (s *gormStore) Create(ctx context.Context, table string, fields entities.Fields) (rec entities.Record, err error) {
	defer s.observe(table, "create", time.Now(), &err)

	row, err := newStoredRecord(table, fields)
	if err != nil {
		return entities.Record{}, storeError("create", table, http.StatusUnprocessableEntity, "INVALID_VALUE_FOR_COLUMN", err)
	}
	if err = s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Record{}, storeError("create", table, 0, "", err)
	}
	return row.ToRecord(), nil
}

func (s *gormStore) CreateMany(ctx context.Context, table string, fields []entities.Fields) (created []entities.Record, err error) {
	created = make([]entities.Record, 0, len(fields))
	if len(fields) == 0 {
		return created, nil
	}
	defer s.observe(table, "create_many", time.Now(), &err)

	for _, batch := range chunks(fields, BatchSize) {
		rows := make([]entities.StoredRecord, 0, len(batch))
		for _, f := range batch {
			row, rErr := newStoredRecord(table, f)
			if rErr != nil {
				err = storeError("create_many", table, http.StatusUnprocessableEntity, "INVALID_VALUE_FOR_COLUMN", rErr)
				return created, err
			}
			rows = append(rows, row)
		}
		if err = s.db.WithContext(ctx).Create(&rows).Error; err != nil {
			err = storeError("create_many", table, 0, "", err)
			return created, err
		}
		for _, row := range rows {
			created = append(created, row.ToRecord())
		}
	}
	return created, nil
}

// Update merges fields into the stored ones; a nil value clears the field.
func (s *gormStore) Update(ctx context.Context, table, id string, fields entities.Fields) (rec entities.Record, err error) {
	defer s.observe(table, "update", time.Now(), &err)

	normalized, err := normalizeFields(fields)
	if err != nil {
		return entities.Record{}, storeError("update", table, http.StatusUnprocessableEntity, "INVALID_VALUE_FOR_COLUMN", err)
	}

	var updated entities.StoredRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, fErr := s.find(ctx, tx, table, id)
		if fErr != nil {
			return fErr
		}
		merged := datatypes.JSONMap{}
		for k, v := range row.Fields {
			merged[k] = v
		}
		for k, v := range normalized {
			if v == nil {
				delete(merged, k)
				continue
			}
			merged[k] = v
		}
		if uErr := tx.Model(&row).Update("fields", merged).Error; uErr != nil {
			return storeError("update", table, 0, "", uErr)
		}
		row.Fields = merged
		updated = row
		return nil
	})
	if err != nil {
		return entities.Record{}, wrapOp(err, "update")
	}
	return updated.ToRecord(), nil
}

func (s *gormStore) Delete(ctx context.Context, table, id string) (err error) {
	defer s.observe(table, "delete", time.Now(), &err)

	if id == "" {
		return &domain.ValidationError{Field: "id", Constraint: "required"}
	}
	res := s.db.WithContext(ctx).
		Where("table_name = ? AND id = ?", table, id).
		Delete(&entities.StoredRecord{})
	if res.Error != nil {
		return storeError("delete", table, 0, "", res.Error)
	}
	if res.RowsAffected == 0 {
		return storeError("delete", table, http.StatusNotFound, "NOT_FOUND", nil)
	}
	return nil
}

// DeleteMany removes ids in batches; a batch with an unknown id is rejected
// as a whole, matching the hosted API.
func (s *gormStore) DeleteMany(ctx context.Context, table string, ids []string) (err error) {
	if len(ids) == 0 {
		return nil
	}
	defer s.observe(table, "delete_many", time.Now(), &err)

	for _, batch := range chunks(ids, BatchSize) {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Where("table_name = ? AND id IN ?", table, batch).Delete(&entities.StoredRecord{})
			if res.Error != nil {
				return storeError("delete_many", table, 0, "", res.Error)
			}
			if int(res.RowsAffected) != len(batch) {
				return storeError("delete_many", table, http.StatusNotFound, "NOT_FOUND", nil)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *gormStore) find(ctx context.Context, db *gorm.DB, table, id string) (entities.StoredRecord, error) {
	var row entities.StoredRecord
	if id == "" {
		return row, &domain.ValidationError{Field: "id", Constraint: "required"}
	}
	err := db.WithContext(ctx).Where("table_name = ? AND id = ?", table, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, storeError("", table, http.StatusNotFound, "NOT_FOUND", nil)
	}
	if err != nil {
		return row, storeError("", table, 0, "", err)
	}
	return row, nil
}

func wrapOp(err error, op string) error {
	var se *domain.StoreError
	if errors.As(err, &se) && se.Op == "" {
		se.Op = op
	}
	return err
}

func newStoredRecord(table string, fields entities.Fields) (entities.StoredRecord, error) {
	normalized, err := normalizeFields(fields)
	if err != nil {
		return entities.StoredRecord{}, err
	}
	for k, v := range normalized {
		if v == nil {
			delete(normalized, k)
		}
	}
	return entities.StoredRecord{
		ID:        newRecordID(),
		Table:     table,
		Fields:    datatypes.JSONMap(normalized),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// normalizeFields gives written values the same shapes a read returns:
// numbers as float64, lists as []any.
func normalizeFields(fields entities.Fields) (map[string]any, error) {
	out := map[string]any{}
	if len(fields) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func lessBy(keys []SortField, a, b map[string]any) bool {
	for _, key := range keys {
		c := compareValues(a[key.Field], b[key.Field])
		if c == 0 {
			continue
		}
		if key.Direction == Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// compareValues orders missing values first, then numbers, then text.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(scalarText(a)), strings.ToLower(scalarText(b)))
}
