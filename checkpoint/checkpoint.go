// Package checkpoint saves intermediate sweep results to a bolt
// database, so long-running sweeps survive restarts.
package checkpoint

import (
	"encoding/json"
	"fmt"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// main is the bucket name for all sweep checkpoints.
var main = []byte("sweep")

// SweepData stores a snapshot of a complexity sweep.
type SweepData struct {
	// Names are the already swept model names in sweep order.
	Names []string `json:"names"`
	// Cost is the aggregate cost by model name.
	Cost map[string]float64 `json:"cost"`
	// Penalty is the aggregate penalty by model name.
	Penalty map[string]float64 `json:"penalty"`
	// LogLikelihood is the aggregate log-likelihood by model name.
	LogLikelihood map[string]float64 `json:"logLikelihood"`
	// NParameters is the parameter count by model name.
	NParameters map[string]int `json:"nParameters"`
	// Done marks a completed sweep.
	Done bool `json:"done"`
	// PID is the process id which produced the snapshot.
	PID int `json:"pid"`
}

// SweepIO saves and loads sweep checkpoints.
type SweepIO struct {
	db  *bolt.DB
	key []byte
}

// Open opens (creating if necessary) a checkpoint database.
func Open(path string) (*bolt.DB, error) {
	return bolt.Open(path, 0666, nil)
}

// NewSweepIO creates a new SweepIO for a save key and a process id;
// the process id disambiguates concurrent runs sharing a database.
func NewSweepIO(db *bolt.DB, saveKey string, pid int) *SweepIO {
	return &SweepIO{
		db:  db,
		key: []byte(fmt.Sprintf("%s-%d", saveKey, pid)),
	}
}

// Save saves a sweep snapshot to the database.
func (s *SweepIO) Save(data *SweepData) error {
	dataB, err := json.Marshal(data)
	if err != nil {
		log.Error("Error serializing checkpoint", err)
		return err
	}
	err = saveData(s.db, s.key, dataB)
	if err != nil {
		log.Error("Error saving checkpoint", err)
	}
	return err
}

// Load returns the saved sweep snapshot, or nil if there is none.
func (s *SweepIO) Load() (*SweepData, error) {
	b, err := loadData(s.db, s.key)
	if err != nil || b == nil {
		return nil, err
	}

	var data *SweepData
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	if data == nil || len(data.Names) == 0 {
		return nil, nil
	}

	if data.Done {
		log.Noticef("Found finished sweep checkpoint (%d models)", len(data.Names))
	} else {
		log.Noticef("Found unfinished sweep checkpoint (%d models)", len(data.Names))
	}
	return data, nil
}

// saveData saves a value in the bolt database.
func saveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(main)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// loadData loads a value from the bolt database.
func loadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(main)
		if b == nil {
			return nil
		}
		v := b.Get(key)
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
