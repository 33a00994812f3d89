package minimp3

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// ConversionDB remembers which sources have already been converted so a
// batch run can skip them.
type ConversionDB struct {
	db *sql.DB
}

// NewConversionDB opens or creates the database in file.
func NewConversionDB(file string) (*ConversionDB, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, source TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, output TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &ConversionDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *ConversionDB) Close() error {
	return db.db.Close()
}

// UpToDate reports whether source was last converted from content with the
// given checksum into output, and output still exists.
func (db *ConversionDB) UpToDate(source, sum, output string) (bool, error) {
	var oldSum, oldOutput string
	switch err := db.db.QueryRow("SELECT sha1, output FROM conversion WHERE source = ?", source).Scan(&oldSum, &oldOutput); err {
	case sql.ErrNoRows:
		return false, nil
	case nil:
		if oldSum != sum || oldOutput != output {
			return false, nil
		}
		if _, err := os.Stat(output); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// Record stores the checksum and output of a successful conversion.
func (db *ConversionDB) Record(source, sum, output string) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO conversion (source, sha1, output) VALUES (?, ?, ?)", source, sum, output); err != nil {
		return err
	}
	return nil
}

func sha1File(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}
