// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.etcd.io/bbolt"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

// On-disk layout under the profile data directory.
const (
	indexFile = "index.db"   // bbolt: vector arena + position→key map
	statsFile = "profile.json" // aggregate statistics
	itemsFile = "profile.db"   // sqlite: one row per reference document
)

var (
	bucketVectors = []byte("vectors")
	bucketKeys    = []byte("keys")
	bucketMeta    = []byte("meta")

	metaDimension = []byte("dimension")
)

// Save writes a built profile to dataDir: the vector index and key map
// into a bbolt file, statistics as JSON, and the source documents as
// flat rows in a SQLite database. An existing profile is replaced
// wholesale; a partially written profile is never left visible to a
// concurrent load because each file is replaced, not patched in place.
func Save(p *Profile, documents []types.ReferenceDocument, dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := saveIndex(p, filepath.Join(dataDir, indexFile)); err != nil {
		return err
	}
	if err := saveStats(p.Stats, filepath.Join(dataDir, statsFile)); err != nil {
		return err
	}
	return saveDocuments(documents, filepath.Join(dataDir, itemsFile))
}

func saveIndex(p *Profile, path string) error {
	// Remove any previous index so stale positions cannot survive a rebuild.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing old index: %w", err)
	}

	db, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		return fmt.Errorf("opening index file: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		if err := meta.Put(metaDimension, encodeUint64(uint64(p.Index.Dimension()))); err != nil {
			return err
		}

		vectors, err := tx.CreateBucketIfNotExists(bucketVectors)
		if err != nil {
			return err
		}
		keys, err := tx.CreateBucketIfNotExists(bucketKeys)
		if err != nil {
			return err
		}

		for pos := 0; pos < p.Index.Count(); pos++ {
			posKey := encodeUint64(uint64(pos))
			if err := vectors.Put(posKey, encodeVector(p.Index.Vector(pos))); err != nil {
				return err
			}
			if err := keys.Put(posKey, []byte(p.Keys[pos])); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveStats(stats types.ProfileStatistics, path string) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling statistics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing statistics: %w", err)
	}
	return nil
}

func saveDocuments(documents []types.ReferenceDocument, path string) error {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("opening item database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS items (
		key TEXT PRIMARY KEY,
		item_type TEXT,
		title TEXT,
		abstract TEXT,
		creators TEXT,
		date TEXT,
		venue TEXT,
		doi TEXT,
		url TEXT,
		tags TEXT,
		date_added TEXT,
		date_modified TEXT
	)`); err != nil {
		return fmt.Errorf("creating item schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Full rebuild: clear and reinsert.
	if _, err := tx.Exec(`DELETE FROM items`); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO items
		(key, item_type, title, abstract, creators, date, venue, doi, url, tags, date_added, date_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range documents {
		creatorsJSON, _ := json.Marshal(doc.Creators)
		tagsJSON, _ := json.Marshal(doc.Tags)
		if _, err := stmt.Exec(
			doc.Key, doc.ItemType, doc.Title, doc.Abstract, string(creatorsJSON),
			doc.Date, doc.Venue, doc.DOI, doc.URL, string(tagsJSON),
			doc.DateAdded, doc.DateModified,
		); err != nil {
			return fmt.Errorf("inserting item %s: %w", doc.Key, err)
		}
	}

	return tx.Commit()
}

// Load reads a previously built profile from dataDir. A missing index
// file yields an empty profile, not an error: a ranking pass with no
// profile simply produces zero semantic scores. When expectedDim is
// positive and disagrees with the stored dimension, Load fails with
// ErrDimensionMismatch; there is no recovery short of a rebuild.
func Load(dataDir string, expectedDim int) (*Profile, error) {
	p := &Profile{Index: NewIndex(expectedDim)}

	if data, err := os.ReadFile(filepath.Join(dataDir, statsFile)); err == nil {
		if err := json.Unmarshal(data, &p.Stats); err != nil {
			return nil, fmt.Errorf("parsing statistics: %w", err)
		}
	}

	indexPath := filepath.Join(dataDir, indexFile)
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return p, nil
	}

	db, err := bbolt.Open(indexPath, 0o644, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer db.Close()

	err = db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return fmt.Errorf("index file has no meta bucket: corrupted index")
		}
		dimBytes := meta.Get(metaDimension)
		if len(dimBytes) != 8 {
			return fmt.Errorf("index file has no dimension record: corrupted index")
		}
		dim := int(binary.BigEndian.Uint64(dimBytes))
		if expectedDim > 0 && dim != expectedDim {
			return fmt.Errorf("%w: index built with dimension %d, provider produces %d",
				ErrDimensionMismatch, dim, expectedDim)
		}
		p.Index = NewIndex(dim)

		vectors := tx.Bucket(bucketVectors)
		keys := tx.Bucket(bucketKeys)
		if vectors == nil || keys == nil {
			return nil
		}

		// Positions are big-endian uint64 keys, so cursor order is arena order.
		return vectors.ForEach(func(k, v []byte) error {
			vec, err := decodeVector(v, dim)
			if err != nil {
				return err
			}
			if err := p.Index.Add(vec); err != nil {
				return err
			}
			p.Keys = append(p.Keys, string(keys.Get(k)))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// LoadDocuments reads stored reference documents from the item database,
// in insertion order. limit <= 0 returns all rows.
func LoadDocuments(dataDir string, limit int) ([]types.ReferenceDocument, error) {
	path := filepath.Join(dataDir, itemsFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening item database: %w", err)
	}
	defer db.Close()

	query := `SELECT key, item_type, title, abstract, creators, date, venue, doi, url, tags, date_added, date_modified
		FROM items ORDER BY rowid`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var docs []types.ReferenceDocument
	for rows.Next() {
		var doc types.ReferenceDocument
		var creatorsJSON, tagsJSON string
		if err := rows.Scan(
			&doc.Key, &doc.ItemType, &doc.Title, &doc.Abstract, &creatorsJSON,
			&doc.Date, &doc.Venue, &doc.DOI, &doc.URL, &tagsJSON,
			&doc.DateAdded, &doc.DateModified,
		); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		json.Unmarshal([]byte(creatorsJSON), &doc.Creators)
		json.Unmarshal([]byte(tagsJSON), &doc.Tags)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// encodeVector packs a float32 slice as little-endian bytes.
func encodeVector(v []float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}

func decodeVector(b []byte, dim int) ([]float32, error) {
	if len(b) != 4*dim {
		return nil, fmt.Errorf("vector record is %d bytes, expected %d: corrupted index", len(b), 4*dim)
	}
	v := make([]float32, dim)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
