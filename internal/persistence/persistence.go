// Package persistence implements the reserved dump_to_file checkpoint
// hook (spec.md §6) as a SQLite-backed store via gorm. It writes snapshots
// of account and position state; the only read-back is the timestamp of
// the latest checkpoint, and no ledger is restored from a snapshot.
package persistence

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahlstrom-labs/simbroker/internal/account"
	"github.com/ahlstrom-labs/simbroker/internal/position"
)

// PositionRecord is the gorm model one position row is stored as,
// flattened out of position.Position's optional-pointer fields.
type PositionRecord struct {
	ID             string `gorm:"primaryKey"`
	AccountUUID    string `gorm:"index"`
	State          string
	CreationTime   uint64
	SymbolIndex    int
	Size           uint64
	IntendedPrice  *int64
	Long           bool
	Stop           *int64
	TakeProfit     *int64
	ExecutionTime  *uint64
	ExecutionPrice *int64
	ExitTime       *uint64
	ExitPrice      *int64
	ClosureReason  string
}

// AccountRecord stores one account's checkpointed balance.
type AccountRecord struct {
	UUID    string `gorm:"primaryKey"`
	Live    bool
	Balance uint64
}

// CheckpointRecord records when a checkpoint was taken: the simulated
// timestamp and the wall-clock time. Rows are keyed by an auto-incremented
// ID, one per Dump call.
type CheckpointRecord struct {
	ID        uint `gorm:"primaryKey"`
	Timestamp uint64
	TakenAt   time.Time
}

// Store opens (creating if absent) a SQLite checkpoint database at path.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite file at path and migrates its schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&PositionRecord{}, &AccountRecord{}, &CheckpointRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Dump persists a full snapshot of accounts — the reserved dump_to_file
// hook from spec.md §6, given a concrete SQLite implementation. Existing
// rows are replaced within one transaction so a checkpoint is always
// internally consistent.
func (s *Store) Dump(accounts *account.Registry, timestamp uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&PositionRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&AccountRecord{}).Error; err != nil {
			return err
		}

		for _, acct := range accounts.All() {
			snap := acct.Ledger.Clone()
			if err := tx.Create(&AccountRecord{
				UUID:    acct.UUID.String(),
				Live:    acct.Live,
				Balance: snap.Balance(),
			}).Error; err != nil {
				return err
			}

			if err := dumpPositions(tx, acct.UUID.String(), snap.Pending(), "pending"); err != nil {
				return err
			}
			if err := dumpPositions(tx, acct.UUID.String(), snap.Open(), "open"); err != nil {
				return err
			}
			if err := dumpPositions(tx, acct.UUID.String(), snap.Closed(), "closed"); err != nil {
				return err
			}
		}

		return tx.Create(&CheckpointRecord{Timestamp: timestamp, TakenAt: time.Now()}).Error
	})
}

func dumpPositions(tx *gorm.DB, accountUUID string, positions map[uuid.UUID]position.Position, state string) error {
	for id, pos := range positions {
		record := PositionRecord{
			ID:             id.String(),
			AccountUUID:    accountUUID,
			State:          state,
			CreationTime:   pos.CreationTime,
			SymbolIndex:    pos.SymbolIndex,
			Size:           pos.Size,
			IntendedPrice:  pos.IntendedPrice,
			Long:           pos.Long,
			Stop:           pos.Stop,
			TakeProfit:     pos.TakeProfit,
			ExecutionTime:  pos.ExecutionTime,
			ExecutionPrice: pos.ExecutionPrice,
			ExitTime:       pos.ExitTime,
			ExitPrice:      pos.ExitPrice,
			ClosureReason:  string(pos.ClosureReason),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}

// LastCheckpoint returns the most recently taken checkpoint's timestamp,
// or ok=false if none has been taken yet.
func (s *Store) LastCheckpoint() (timestamp uint64, ok bool, err error) {
	var rec CheckpointRecord
	result := s.db.Order("id desc").First(&rec)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return 0, false, nil
		}
		return 0, false, result.Error
	}
	return rec.Timestamp, true, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

