package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/joshkgarber/incontext/core"
)

// CreateList inserts a list owned by creatorID. The description is optional.
func (s *Store) CreateList(ctx context.Context, creatorID int64, name, description string) (core.List, error) {
	if name == "" {
		return core.List{}, &core.ValidationError{Fields: []string{"name"}}
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO lists(creator_id, created_at_unix_ms, name, description) VALUES(?, ?, ?, ?)`,
		creatorID, now.UnixMilli(), name, description)
	if err != nil {
		return core.List{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.List{}, err
	}
	return core.List{ID: id, CreatorID: creatorID, Created: now, Name: name, Description: description}, nil
}

// GetList returns the list with the given id.
func (s *Store) GetList(ctx context.Context, id int64) (core.List, error) {
	var l core.List
	var createdMs int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, creator_id, created_at_unix_ms, name, description FROM lists WHERE id = ?`, id).
		Scan(&l.ID, &l.CreatorID, &createdMs, &l.Name, &l.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.List{}, &core.NotFoundError{Kind: core.KindList, ID: id}
		}
		return core.List{}, err
	}
	l.Created = time.UnixMilli(createdMs)
	return l, nil
}

// ListLists returns the lists created by the given user, newest first.
func (s *Store) ListLists(ctx context.Context, creatorID int64) ([]core.List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, creator_id, created_at_unix_ms, name, description
		 FROM lists WHERE creator_id = ? ORDER BY created_at_unix_ms DESC, id DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLists(rows)
}

// UpdateList replaces the name and description of a list.
func (s *Store) UpdateList(ctx context.Context, id int64, name, description string) error {
	if name == "" {
		return &core.ValidationError{Fields: []string{"name"}}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE lists SET name = ?, description = ? WHERE id = ?`, name, description, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Kind: core.KindList, ID: id}
	}
	return nil
}

// CreateItem inserts a new item into a list and backfills an empty content
// cell for every detail the list already carries, keeping the sparse matrix
// invariant intact.
func (s *Store) CreateItem(ctx context.Context, listID int64, name string) (core.Item, error) {
	if name == "" {
		return core.Item{}, &core.ValidationError{Fields: []string{"name"}}
	}
	if _, err := s.GetList(ctx, listID); err != nil {
		return core.Item{}, err
	}

	var item core.Item
	err := s.WithTx(ctx, func(tx *Tx) error {
		res, err := tx.tx.ExecContext(ctx, `INSERT INTO items(name) VALUES(?)`, name)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		item = core.Item{ID: id, Name: name}
		if _, err := tx.tx.ExecContext(ctx,
			`INSERT INTO list_item_relations(list_id, item_id) VALUES(?, ?)`, listID, id); err != nil {
			return err
		}
		return tx.backfillItemCells(ctx, listID, id)
	})
	if err != nil {
		return core.Item{}, err
	}
	return item, nil
}

// AttachItemToList places an existing item into another list, backfilling
// content cells for that list's details.
func (s *Store) AttachItemToList(ctx context.Context, listID, itemID int64) error {
	if _, err := s.GetList(ctx, listID); err != nil {
		return err
	}
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO list_item_relations(list_id, item_id) VALUES(?, ?)`, listID, itemID); err != nil {
			return err
		}
		return tx.backfillItemCells(ctx, listID, itemID)
	})
}

// CreateDetail adds a new detail column to a list and backfills an empty
// content cell for every item already in the list.
func (s *Store) CreateDetail(ctx context.Context, listID int64, name, description string) (core.Detail, error) {
	if name == "" {
		return core.Detail{}, &core.ValidationError{Fields: []string{"name"}}
	}
	if _, err := s.GetList(ctx, listID); err != nil {
		return core.Detail{}, err
	}

	var detail core.Detail
	err := s.WithTx(ctx, func(tx *Tx) error {
		res, err := tx.tx.ExecContext(ctx, `INSERT INTO details(name, description) VALUES(?, ?)`, name, description)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		detail = core.Detail{ID: id, Name: name, Description: description}
		if _, err := tx.tx.ExecContext(ctx,
			`INSERT INTO list_detail_relations(list_id, detail_id) VALUES(?, ?)`, listID, id); err != nil {
			return err
		}
		return tx.backfillDetailCells(ctx, listID, id)
	})
	if err != nil {
		return core.Detail{}, err
	}
	return detail, nil
}

// AttachDetailToList applies an existing detail column to another list,
// backfilling content cells for that list's items.
func (s *Store) AttachDetailToList(ctx context.Context, listID, detailID int64) error {
	if _, err := s.GetList(ctx, listID); err != nil {
		return err
	}
	if _, err := s.GetDetail(ctx, detailID); err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO list_detail_relations(list_id, detail_id) VALUES(?, ?)`, listID, detailID); err != nil {
			return err
		}
		return tx.backfillDetailCells(ctx, listID, detailID)
	})
}

// GetItem returns the item with the given id.
func (s *Store) GetItem(ctx context.Context, id int64) (core.Item, error) {
	var it core.Item
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM items WHERE id = ?`, id).Scan(&it.ID, &it.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Item{}, &core.NotFoundError{Kind: core.KindItem, ID: id}
		}
		return core.Item{}, err
	}
	return it, nil
}

// GetDetail returns the detail with the given id.
func (s *Store) GetDetail(ctx context.Context, id int64) (core.Detail, error) {
	var d core.Detail
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM details WHERE id = ?`, id).Scan(&d.ID, &d.Name, &d.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Detail{}, &core.NotFoundError{Kind: core.KindDetail, ID: id}
		}
		return core.Detail{}, err
	}
	return d, nil
}

// UpdateItem renames an item.
func (s *Store) UpdateItem(ctx context.Context, id int64, name string) error {
	if name == "" {
		return &core.ValidationError{Fields: []string{"name"}}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE items SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Kind: core.KindItem, ID: id}
	}
	return nil
}

// UpdateDetail replaces the name and description of a detail.
func (s *Store) UpdateDetail(ctx context.Context, id int64, name, description string) error {
	if name == "" {
		return &core.ValidationError{Fields: []string{"name"}}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE details SET name = ?, description = ? WHERE id = ?`, name, description, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Kind: core.KindDetail, ID: id}
	}
	return nil
}

// SetItemDetailContent updates the content cell for an (item, detail) pair.
// A valid pair always has a cell, so a missing row after both entities
// resolve is an integrity violation.
func (s *Store) SetItemDetailContent(ctx context.Context, itemID, detailID int64, content string) error {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return err
	}
	if _, err := s.GetDetail(ctx, detailID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE item_detail_relations SET content = ? WHERE item_id = ? AND detail_id = ?`,
		content, itemID, detailID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.IntegrityError{Msg: fmt.Sprintf("item %d and detail %d share no content cell", itemID, detailID)}
	}
	return nil
}

// ListListItems returns the items of a list in insertion order.
func (s *Store) ListListItems(ctx context.Context, listID int64) ([]core.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.name FROM items i
		 JOIN list_item_relations r ON r.item_id = i.id
		 WHERE r.list_id = ? ORDER BY i.id`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Item
	for rows.Next() {
		var it core.Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListListDetails returns the detail columns applied to a list.
func (s *Store) ListListDetails(ctx context.Context, listID int64) ([]core.Detail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.name, d.description FROM details d
		 JOIN list_detail_relations r ON r.detail_id = d.id
		 WHERE r.list_id = ? ORDER BY d.id`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Detail
	for rows.Next() {
		var d core.Detail
		if err := rows.Scan(&d.ID, &d.Name, &d.Description); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListItemCells returns the content cells of an item across all details.
func (s *Store) ListItemCells(ctx context.Context, itemID int64) ([]core.ItemDetailRelation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, detail_id, content FROM item_detail_relations
		 WHERE item_id = ? ORDER BY detail_id`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.ItemDetailRelation
	for rows.Next() {
		var c core.ItemDetailRelation
		if err := rows.Scan(&c.ItemID, &c.DetailID, &c.Content); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListOwnerIDsForItem returns the distinct creators of every list that
// contains the item. Empty means the item is unreachable for non-admins.
func (s *Store) ListOwnerIDsForItem(ctx context.Context, itemID int64) ([]int64, error) {
	return s.ownerIDs(ctx,
		`SELECT DISTINCT l.creator_id FROM lists l
		 JOIN list_item_relations r ON r.list_id = l.id
		 WHERE r.item_id = ?`, itemID)
}

// ListOwnerIDsForDetail returns the distinct creators of every list the
// detail applies to.
func (s *Store) ListOwnerIDsForDetail(ctx context.Context, detailID int64) ([]int64, error) {
	return s.ownerIDs(ctx,
		`SELECT DISTINCT l.creator_id FROM lists l
		 JOIN list_detail_relations r ON r.list_id = l.id
		 WHERE r.detail_id = ?`, detailID)
}

func (s *Store) ownerIDs(ctx context.Context, query string, id int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var owner int64
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		out = append(out, owner)
	}
	return out, rows.Err()
}

// backfillItemCells creates missing empty cells pairing one item with every
// detail of the list.
func (tx *Tx) backfillItemCells(ctx context.Context, listID, itemID int64) error {
	_, err := tx.tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO item_detail_relations(item_id, detail_id, content)
		 SELECT ?, detail_id, '' FROM list_detail_relations WHERE list_id = ?`, itemID, listID)
	return err
}

// backfillDetailCells creates missing empty cells pairing one detail with
// every item of the list.
func (tx *Tx) backfillDetailCells(ctx context.Context, listID, detailID int64) error {
	_, err := tx.tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO item_detail_relations(item_id, detail_id, content)
		 SELECT item_id, ?, '' FROM list_item_relations WHERE list_id = ?`, detailID, listID)
	return err
}

func collectLists(rows *sql.Rows) ([]core.List, error) {
	var out []core.List
	for rows.Next() {
		var l core.List
		var createdMs int64
		if err := rows.Scan(&l.ID, &l.CreatorID, &createdMs, &l.Name, &l.Description); err != nil {
			return nil, err
		}
		l.Created = time.UnixMilli(createdMs)
		out = append(out, l)
	}
	return out, rows.Err()
}
