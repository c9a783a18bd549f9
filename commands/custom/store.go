package custom

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/tidwall/buntdb"
)

const keyPrefix = "command:"

// Command is a reply-only prefix command created from the dashboard
type Command struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Usage       string    `json:"usage"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store persists custom commands in a buntdb file. ":memory:" keeps them in memory only.
type Store struct {
	db *buntdb.DB
}

func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create command store directory")
		}
	}

	db, err := buntdb.Open(path)
	if err != nil {
		return nil, errors.WithDetails(errors.Wrap(err, "open command store"), "path", path)
	}

	if err := db.CreateIndex("commands", keyPrefix+"*", buntdb.IndexString); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create command index")
	}

	return &Store{db: db}, nil
}

func key(name string) string {
	return keyPrefix + strings.ToLower(name)
}

// Save stores cmd, replacing any command with the same name
func (s *Store) Save(cmd Command) error {
	encoded, err := json.Marshal(cmd)
	if err != nil {
		return errors.WithStack(err)
	}

	err = s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key(cmd.Name), string(encoded), nil)
		return err
	})
	return errors.Wrap(err, "save command")
}

func (s *Store) Get(name string) (Command, bool, error) {
	var cmd Command
	var raw string

	err := s.db.View(func(tx *buntdb.Tx) error {
		var err error
		raw, err = tx.Get(key(name))
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return cmd, false, nil
	}
	if err != nil {
		return cmd, false, errors.Wrap(err, "get command")
	}

	if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
		return cmd, false, errors.WithStack(err)
	}
	return cmd, true, nil
}

// Delete reports whether a command was removed
func (s *Store) Delete(name string) (bool, error) {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key(name))
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "delete command")
	}
	return true, nil
}

// List returns every stored command sorted by name
func (s *Store) List() ([]Command, error) {
	var out []Command
	var decodeErr error

	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("commands", func(k, v string) bool {
			var cmd Command
			if err := json.Unmarshal([]byte(v), &cmd); err != nil {
				decodeErr = errors.WithDetails(errors.WithStack(err), "key", k)
				return false
			}
			out = append(out, cmd)
			return true
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list commands")
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
