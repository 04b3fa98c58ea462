// Package materialddb stores learning materials and bookmarks in DynamoDB.
//
// Tables:
//
//	materials: hash id; gsi1 (gsi1_pk, last_updated)
//	bookmarks: hash user_id, range material_id
package materialddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guregu/dynamo/v2"
	"github.com/snbtku/backend/conf"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/material/materialdomain"
	"github.com/snbtku/backend/material/materialsrvc"
)

type DynamoDbMaterialRepo struct {
	client        ddbutil.UpdateItemAPI
	materialTable string
	materials     dynamo.Table
	bookmarks     dynamo.Table
}

// NewDynamoDbMaterialRepo takes the raw client as well for the counter
// updates.
func NewDynamoDbMaterialRepo(db *dynamo.DB, client ddbutil.UpdateItemAPI, tables conf.Tables) *DynamoDbMaterialRepo {
	return &DynamoDbMaterialRepo{
		client:        client,
		materialTable: tables.Materials,
		materials:     db.Table(tables.Materials),
		bookmarks:     db.Table(tables.Bookmarks),
	}
}

var _ materialsrvc.Repo = (*DynamoDbMaterialRepo)(nil)

type materialRow struct {
	ID          string `dynamo:"id,hash"`
	Gsi1Pk      string `dynamo:"gsi1_pk" index:"gsi1,hash"`
	LastUpdated int64  `dynamo:"last_updated" index:"gsi1,range"`
	Type        string `dynamo:"type"`
	Subtest     string `dynamo:"subtest"`
	Difficulty  string `dynamo:"difficulty"`
	Topic       string `dynamo:"topic"`
	Views       int    `dynamo:"views"`
	Downloads   int    `dynamo:"downloads"`
	// Doc is the material's JSON form with zeroed counters.
	Doc string `dynamo:"doc"`
}

func fromMaterial(m materialdomain.Material) (materialRow, error) {
	views, downloads := m.Views(), m.Downloads()
	m.IsBookmarked = false
	doc, err := json.Marshal(m.WithCounts(0, 0))
	if err != nil {
		return materialRow{}, fmt.Errorf("marshal material %s: %w", m.ID, err)
	}
	return materialRow{
		ID:          m.ID,
		Gsi1Pk:      ddbutil.GlobalPartition,
		LastUpdated: ddbutil.Millis(m.LastUpdated),
		Type:        string(m.Kind()),
		Subtest:     string(m.Subtest),
		Difficulty:  string(m.Difficulty),
		Topic:       m.Topic,
		Views:       views,
		Downloads:   downloads,
		Doc:         string(doc),
	}, nil
}

func (row materialRow) toMaterial() (materialdomain.Material, error) {
	var m materialdomain.Material
	if err := json.Unmarshal([]byte(row.Doc), &m); err != nil {
		return m, fmt.Errorf("unmarshal material %s: %w", row.ID, err)
	}
	m.ID = row.ID
	m.LastUpdated = ddbutil.FromMillis(row.LastUpdated)
	return m.WithCounts(row.Views, row.Downloads), nil
}

func toMaterials(rows []materialRow) ([]materialdomain.Material, error) {
	out := make([]materialdomain.Material, 0, len(rows))
	for _, row := range rows {
		m, err := row.toMaterial()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *DynamoDbMaterialRepo) GetMaterial(ctx context.Context, id string) (*materialdomain.Material, error) {
	var row materialRow
	err := r.materials.Get("id", id).One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get material %s: %w", id, err)
	}
	m, err := row.toMaterial()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *DynamoDbMaterialRepo) GetMaterials(ctx context.Context, ids []string) (map[string]materialdomain.Material, error) {
	out := make(map[string]materialdomain.Material, len(ids))
	keys := make([]dynamo.Keyed, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			keys = append(keys, dynamo.Keys{id})
		}
	}
	if len(keys) == 0 {
		return out, nil
	}
	var rows []materialRow
	err := r.materials.Batch("id").Get(keys...).All(ctx, &rows)
	if err != nil && !errors.Is(err, dynamo.ErrNotFound) {
		return nil, fmt.Errorf("batch get materials: %w", err)
	}
	for _, row := range rows {
		m, err := row.toMaterial()
		if err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	return out, nil
}

func (r *DynamoDbMaterialRepo) ListMaterials(ctx context.Context, f materialdomain.Filter, cursor string, limit int) ([]materialdomain.Material, string, error) {
	start, err := ddbutil.DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	f = f.Normalized()

	q := r.materials.Get("gsi1_pk", ddbutil.GlobalPartition).
		Index("gsi1").
		Order(dynamo.Descending).
		Limit(limit)
	if f.Subtest != "" {
		q = q.Filter("$ = ?", "subtest", f.Subtest)
	}
	if f.Type != "" {
		q = q.Filter("$ = ?", "type", f.Type)
	}
	if f.Difficulty != "" {
		q = q.Filter("$ = ?", "difficulty", f.Difficulty)
	}
	if f.Topic != "" {
		q = q.Filter("$ = ?", "topic", f.Topic)
	}
	if start != nil {
		q = q.StartFrom(start)
	}

	var rows []materialRow
	lek, err := q.AllWithLastEvaluatedKey(ctx, &rows)
	if err != nil {
		return nil, "", fmt.Errorf("query materials: %w", err)
	}
	next, err := ddbutil.EncodeCursor(lek)
	if err != nil {
		return nil, "", err
	}
	out, err := toMaterials(rows)
	if err != nil {
		return nil, "", err
	}
	return out, next, nil
}

func (r *DynamoDbMaterialRepo) ListAll(ctx context.Context) ([]materialdomain.Material, error) {
	var rows []materialRow
	if err := r.materials.Scan().All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("scan materials: %w", err)
	}
	return toMaterials(rows)
}

func (r *DynamoDbMaterialRepo) CreateMaterial(ctx context.Context, m materialdomain.Material) error {
	row, err := fromMaterial(m)
	if err != nil {
		return err
	}
	return r.materials.Put(row).If("attribute_not_exists($)", "id").Run(ctx)
}

func (r *DynamoDbMaterialRepo) UpdateMaterial(ctx context.Context, m materialdomain.Material) error {
	row, err := fromMaterial(m)
	if err != nil {
		return err
	}
	err = r.materials.Update("id", m.ID).
		Set("last_updated", row.LastUpdated).
		Set("type", row.Type).
		Set("subtest", row.Subtest).
		Set("difficulty", row.Difficulty).
		Set("topic", row.Topic).
		Set("doc", row.Doc).
		If("attribute_exists($)", "id").
		Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return materialsrvc.ErrMaterialMissing
	}
	if err != nil {
		return fmt.Errorf("update material %s: %w", m.ID, err)
	}
	return nil
}

func (r *DynamoDbMaterialRepo) DeleteMaterial(ctx context.Context, id string) error {
	return r.materials.Delete("id", id).Run(ctx)
}

func (r *DynamoDbMaterialRepo) Increment(ctx context.Context, id string, c materialsrvc.Counter, delta int) error {
	err := ddbutil.Increment(ctx, r.client, r.materialTable, "id", id, string(c), delta)
	if errors.Is(err, ddbutil.ErrItemMissing) {
		return materialsrvc.ErrMaterialMissing
	}
	return err
}

type bookmarkRow struct {
	UserID     string `dynamo:"user_id,hash"`
	MaterialID string `dynamo:"material_id,range"`
	CreatedAt  int64  `dynamo:"created_at"`
}

func (r *DynamoDbMaterialRepo) IsBookmarked(ctx context.Context, userID, materialID string) (bool, error) {
	var row bookmarkRow
	err := r.bookmarks.Get("user_id", userID).
		Range("material_id", dynamo.Equal, materialID).
		One(ctx, &row)
	if errors.Is(err, dynamo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get bookmark %s/%s: %w", userID, materialID, err)
	}
	return true, nil
}

func (r *DynamoDbMaterialRepo) PutBookmark(ctx context.Context, userID, materialID string) error {
	return r.bookmarks.Put(bookmarkRow{
		UserID:     userID,
		MaterialID: materialID,
		CreatedAt:  ddbutil.Millis(time.Now()),
	}).Run(ctx)
}

func (r *DynamoDbMaterialRepo) DeleteBookmark(ctx context.Context, userID, materialID string) error {
	return r.bookmarks.Delete("user_id", userID).Range("material_id", materialID).Run(ctx)
}

func (r *DynamoDbMaterialRepo) ListBookmarks(ctx context.Context, userID string) ([]string, error) {
	var rows []bookmarkRow
	if err := r.bookmarks.Get("user_id", userID).All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("query bookmarks of %s: %w", userID, err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.MaterialID)
	}
	return ids, nil
}
