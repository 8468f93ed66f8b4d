package vault

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	configBucket  = []byte("config")  // KDF params, timestamps, vault ID - unencrypted
	itemsBucket   = []byte("items")   // Encrypted item records keyed by id
	privateBucket = []byte("private") // Encrypted password checksum
)

// Config keys
var (
	keyVersion  = []byte("version")
	keyCreated  = []byte("created")
	keyModified = []byte("modified")
	keySalt     = []byte("salt")
	keyIters    = []byte("iterations")
	keyVaultID  = []byte("vault_id")
	keyCheck    = []byte("checksum")
)

// store is the raw BBolt layer beneath the vault.
type store struct {
	db *bolt.DB
}

func openStore(path string) (*store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &store{db: db}, nil
}

func (s *store) close() error {
	return s.db.Close()
}

// initialize creates the bucket structure and writes the KDF parameters for
// a fresh vault.
func (s *store) initialize(salt []byte, iterations uint32, vaultID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{configBucket, itemsBucket, privateBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(configBucket)
		if err := config.Put(keyVersion, []byte("1")); err != nil {
			return err
		}

		now, _ := time.Now().MarshalBinary()
		if err := config.Put(keyCreated, now); err != nil {
			return err
		}
		if err := config.Put(keyModified, now); err != nil {
			return err
		}

		if err := config.Put(keyVaultID, []byte(vaultID)); err != nil {
			return err
		}
		return s.putKDFLocked(config, salt, iterations)
	})
}

func (s *store) putKDFLocked(config *bolt.Bucket, salt []byte, iterations uint32) error {
	if err := config.Put(keySalt, salt); err != nil {
		return err
	}
	iters := make([]byte, 4)
	binary.BigEndian.PutUint32(iters, iterations)
	return config.Put(keyIters, iters)
}

// setKDF replaces the KDF parameters during a password change.
func (s *store) setKDF(salt []byte, iterations uint32) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return s.putKDFLocked(tx.Bucket(configBucket), salt, iterations)
	})
}

// isInitialized reports whether the bucket structure has been created.
func (s *store) isInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(configBucket)
		if config != nil && config.Get(keyVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

func (s *store) configValue(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(configBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(key)
		if data == nil {
			return fmt.Errorf("%s not found", key)
		}
		// Copy - the slice is only valid during the transaction
		value = append([]byte(nil), data...)
		return nil
	})
	return value, err
}

func (s *store) salt() ([]byte, error) {
	return s.configValue(keySalt)
}

func (s *store) iterations() (uint32, error) {
	data, err := s.configValue(keyIters)
	if err != nil {
		return 0, err
	}
	if len(data) != 4 {
		return 0, fmt.Errorf("malformed iterations value")
	}
	return binary.BigEndian.Uint32(data), nil
}

func (s *store) vaultID() (string, error) {
	data, err := s.configValue(keyVaultID)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *store) modified() (time.Time, error) {
	data, err := s.configValue(keyModified)
	if err != nil {
		return time.Time{}, err
	}
	var modified time.Time
	if err := modified.UnmarshalBinary(data); err != nil {
		return time.Time{}, err
	}
	return modified, nil
}

func (s *store) touchModified() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		now, _ := time.Now().MarshalBinary()
		return tx.Bucket(configBucket).Put(keyModified, now)
	})
}

// putCheck stores the encrypted password verification checksum.
func (s *store) putCheck(data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(privateBucket).Put(keyCheck, data)
	})
}

func (s *store) getCheck() ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		private := tx.Bucket(privateBucket)
		if private == nil {
			return fmt.Errorf("private bucket not found")
		}
		check := private.Get(keyCheck)
		if check == nil {
			return fmt.Errorf("checksum not found")
		}
		data = append([]byte(nil), check...)
		return nil
	})
	return data, err
}

func (s *store) putItem(id string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(itemsBucket).Put([]byte(id), data)
	})
}

// getItem returns the encrypted item record, or nil if the id is unknown.
func (s *store) getItem(id string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		items := tx.Bucket(itemsBucket)
		if items == nil {
			return fmt.Errorf("items bucket not found")
		}
		if record := items.Get([]byte(id)); record != nil {
			data = append([]byte(nil), record...)
		}
		return nil
	})
	return data, err
}

// deleteItem removes an item record. Reports whether the id existed.
func (s *store) deleteItem(id string) (bool, error) {
	var existed bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		items := tx.Bucket(itemsBucket)
		if items.Get([]byte(id)) == nil {
			return nil
		}
		existed = true
		return items.Delete([]byte(id))
	})
	return existed, err
}

// itemIDs returns all stored item ids in key order.
func (s *store) itemIDs() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		items := tx.Bucket(itemsBucket)
		if items == nil {
			return nil
		}
		return items.ForEach(func(k, v []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

func (s *store) itemCount() (int, error) {
	ids, err := s.itemIDs()
	return len(ids), err
}

// compact creates a compacted copy of the database and atomically replaces
// the original. Useful after removing items or a password change.
func (s *store) compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})
	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}
	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	return nil
}
