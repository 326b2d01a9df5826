// ABOUTME: SurrealDB implementation of the cloud Backend interface.
// ABOUTME: Talks to the remote over the websocket RPC driver.
package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/harperreed/maestro/internal/models"
)

const profileTable = "profile"

// SurrealConfig holds connection settings for the remote backend.
type SurrealConfig struct {
	URL       string // e.g. ws://localhost:8000/rpc
	Namespace string
	Database  string
	Username  string
	Password  string
}

// Surreal is a Backend backed by a SurrealDB instance. Row ownership
// is enforced server-side by the authenticated scope; the client only
// ever sees its own rows.
type Surreal struct {
	db *surrealdb.DB
}

var _ Backend = (*Surreal)(nil)

// ConnectSurreal opens a websocket connection, signs in, and selects
// the configured namespace and database.
func ConnectSurreal(cfg SurrealConfig) (*Surreal, error) {
	db, err := surrealdb.New(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL, err)
	}

	if _, err := db.Signin(map[string]any{
		"user": cfg.Username,
		"pass": cfg.Password,
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("signin: %w", err)
	}

	if _, err := db.Use(cfg.Namespace, cfg.Database); err != nil {
		db.Close()
		return nil, fmt.Errorf("use %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}

	return &Surreal{db: db}, nil
}

// Close closes the websocket connection.
func (s *Surreal) Close() {
	s.db.Close()
}

// query runs a statement while honoring context cancellation. The
// driver itself has no context support, so a timed-out call is
// abandoned rather than cancelled on the wire.
func (s *Surreal) query(ctx context.Context, sql string, vars map[string]any) (any, error) {
	type result struct {
		res any
		err error
	}
	ch := make(chan result, 1)
	go func() {
		res, err := s.db.Query(sql, vars)
		ch <- result{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.res, r.err
	}
}

// Upsert implements Backend.Upsert.
func (s *Surreal) Upsert(ctx context.Context, table string, entity any) error {
	row, err := toRow(entity)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", table, err)
	}
	id, _ := row["id"].(string)
	if id == "" {
		return fmt.Errorf("%s row has no id", table)
	}

	_, err = s.query(ctx, "UPDATE type::thing($tb, $id) CONTENT $data", map[string]any{
		"tb":   table,
		"id":   id,
		"data": row,
	})
	if err != nil {
		return fmt.Errorf("upsert %s:%s: %w", table, id, err)
	}
	return nil
}

// Delete implements Backend.Delete.
func (s *Surreal) Delete(ctx context.Context, table, id string) error {
	_, err := s.query(ctx, "DELETE type::thing($tb, $id)", map[string]any{
		"tb": table,
		"id": id,
	})
	if err != nil {
		return fmt.Errorf("delete %s:%s: %w", table, id, err)
	}
	return nil
}

// UpsertAll implements Backend.UpsertAll. Rows are written one by one;
// the first failure aborts and is returned to the caller.
func (s *Surreal) UpsertAll(ctx context.Context, table string, entities any) error {
	rows, err := toRows(entities)
	if err != nil {
		return fmt.Errorf("encode %s rows: %w", table, err)
	}
	for _, row := range rows {
		if err := s.Upsert(ctx, table, row); err != nil {
			return err
		}
	}
	return nil
}

// FetchAll implements Backend.FetchAll.
func (s *Surreal) FetchAll(ctx context.Context, table string, out any) error {
	res, err := s.query(ctx, "SELECT * FROM type::table($tb)", map[string]any{
		"tb": table,
	})
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}

	rows, err := firstResult(res)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	for _, r := range rows {
		normalizeRecordID(r, table)
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	return json.Unmarshal(data, out)
}

// FetchProfile implements Backend.FetchProfile.
func (s *Surreal) FetchProfile(ctx context.Context) (*models.Profile, error) {
	var profiles []models.Profile
	if err := s.FetchAll(ctx, profileTable, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// UpsertProfile implements Backend.UpsertProfile.
func (s *Surreal) UpsertProfile(ctx context.Context, p models.Profile) error {
	return s.Upsert(ctx, profileTable, p)
}

// DeleteAllUserData implements Backend.DeleteAllUserData.
func (s *Surreal) DeleteAllUserData(ctx context.Context) error {
	tables := append([]string{}, MirroredTables...)
	tables = append(tables, profileTable)
	for _, table := range tables {
		if _, err := s.query(ctx, "DELETE type::table($tb)", map[string]any{
			"tb": table,
		}); err != nil {
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}
	return nil
}

// toRow converts an entity to a generic row via its JSON form.
func toRow(entity any) (map[string]any, error) {
	if row, ok := entity.(map[string]any); ok {
		return row, nil
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	var row map[string]any
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// toRows converts a slice of entities to generic rows.
func toRows(entities any) ([]map[string]any, error) {
	data, err := json.Marshal(entities)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// firstResult unwraps the driver's response envelope for the first
// statement: [{"result": [...], "status": "OK", ...}].
func firstResult(res any) ([]map[string]any, error) {
	stmts, ok := res.([]any)
	if !ok || len(stmts) == 0 {
		return nil, fmt.Errorf("unexpected response shape %T", res)
	}
	stmt, ok := stmts[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected statement shape %T", stmts[0])
	}
	if status, _ := stmt["status"].(string); status != "" && status != "OK" {
		return nil, fmt.Errorf("statement status %s", status)
	}

	var rows []map[string]any
	switch v := stmt["result"].(type) {
	case nil:
		return nil, nil
	case []any:
		for _, item := range v {
			if row, ok := item.(map[string]any); ok {
				rows = append(rows, row)
			}
		}
	case map[string]any:
		rows = append(rows, v)
	}
	return rows, nil
}

// normalizeRecordID rewrites SurrealDB's table-qualified record id
// ("blocks:⟨uuid⟩") back to the bare entity id used everywhere else.
func normalizeRecordID(row map[string]any, table string) {
	raw, ok := row["id"].(string)
	if !ok {
		return
	}
	id := strings.TrimPrefix(raw, table+":")
	id = strings.Trim(id, "⟨⟩`")
	row["id"] = id
}
