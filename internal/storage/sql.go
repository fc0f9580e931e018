package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

type RunRecord struct {
	gorm.Model
	RunID       string    `gorm:"size:127;uniqueIndex"`
	Scenario    string    `gorm:"size:64"`
	StartedAt   time.Time `gorm:"index"`
	Seed        int64
	Dt          float64
	Steps       int
	ReportFreq  int
	NumBodies   int
	FinalBodies int
	Metrics     map[string]float64 `gorm:"serializer:json"`
	Merges      []sim.MergeEvent   `gorm:"serializer:json"`
	InitialL    [3]float64         `gorm:"serializer:json"`
	FinalL      [3]float64         `gorm:"serializer:json"`
	Lineages    []LineageRecord    `gorm:"foreignKey:RunRecordID;constraint:OnDelete:CASCADE;"`
}

type LineageRecord struct {
	gorm.Model
	RunRecordID uint            `gorm:"index"`
	BodyID      uint64          `gorm:"index"`
	Name        string          `gorm:"size:127"`
	MergedFrom  []dynamo.BodyID `gorm:"serializer:json"`
	StartStep   int
	EndStep     int
	Samples     []SampleRecord `gorm:"foreignKey:LineageRecordID;constraint:OnDelete:CASCADE;"`
}

type SampleRecord struct {
	ID              uint `gorm:"primarykey"`
	LineageRecordID uint `gorm:"index"`
	Step            int
	X, Y, Z         float64
}

// SQLStore keeps runs in a SQLite database. An empty path opens a private
// in-memory database.
type SQLStore struct {
	path string
	db   *gorm.DB
}

func NewSQLStore(path string) *SQLStore {
	return &SQLStore{path: path}
}

func (s *SQLStore) Init() error {
	dsn := s.path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", dsn, err)
	}

	if dsn == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA foreign_keys = ON;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("error setting %q: %w", pragma, err)
		}
	}

	if err := db.AutoMigrate(&RunRecord{}, &LineageRecord{}, &SampleRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta = complete(meta, result)

	run := RunRecord{
		RunID:       meta.ID,
		Scenario:    meta.Scenario,
		StartedAt:   meta.Timestamp,
		Seed:        meta.Seed,
		Dt:          meta.Dt,
		Steps:       meta.Steps,
		ReportFreq:  meta.ReportFreq,
		NumBodies:   meta.NumBodies,
		FinalBodies: meta.FinalBodies,
		Metrics:     meta.Metrics,
		Merges:      meta.Merges,
		InitialL:    meta.InitialL,
		FinalL:      meta.FinalL,
		Lineages:    make([]LineageRecord, len(result.Histories)),
	}

	for i, h := range result.Histories {
		lineage := LineageRecord{
			BodyID:     uint64(h.ID),
			Name:       h.Name,
			MergedFrom: h.MergedFrom,
			StartStep:  h.StartStep,
			EndStep:    h.EndStep,
			Samples:    make([]SampleRecord, h.Len()),
		}
		for j := 0; j < h.Len(); j++ {
			lineage.Samples[j] = SampleRecord{Step: h.Steps[j], X: h.Xs[j], Y: h.Ys[j], Z: h.Zs[j]}
		}
		run.Lineages[i] = lineage
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&run).Error
	})
	if err != nil {
		return "", fmt.Errorf("save run %s: %w", meta.ID, err)
	}

	return meta.ID, nil
}

func (s *SQLStore) List() ([]RunMetadata, error) {
	var runs []RunRecord
	if err := s.db.Order("started_at").Find(&runs).Error; err != nil {
		return nil, err
	}

	out := make([]RunMetadata, len(runs))
	for i := range runs {
		out[i] = runs[i].metadata()
	}
	return out, nil
}

func (s *SQLStore) find(runID string) (*RunRecord, error) {
	var run RunRecord
	err := s.db.Where("run_id = ?", runID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *SQLStore) Load(runID string) (*RunMetadata, error) {
	run, err := s.find(runID)
	if err != nil {
		return nil, err
	}
	meta := run.metadata()
	return &meta, nil
}

func (s *SQLStore) LoadHistories(runID string) ([]*dynamo.History, error) {
	run, err := s.find(runID)
	if err != nil {
		return nil, err
	}

	var lineages []LineageRecord
	err = s.db.
		Where("run_record_id = ?", run.ID).
		Order("id").
		Preload("Samples", func(db *gorm.DB) *gorm.DB { return db.Order("step") }).
		Find(&lineages).Error
	if err != nil {
		return nil, err
	}

	histories := make([]*dynamo.History, len(lineages))
	for i, l := range lineages {
		h := Lineage{
			ID:         dynamo.BodyID(l.BodyID),
			Name:       l.Name,
			MergedFrom: l.MergedFrom,
			StartStep:  l.StartStep,
			EndStep:    l.EndStep,
		}.history()
		for _, sample := range l.Samples {
			h.Append(sample.Step, dynamo.Vec3{X: sample.X, Y: sample.Y, Z: sample.Z})
		}
		histories[i] = h
	}

	return histories, nil
}

func (r *RunRecord) metadata() RunMetadata {
	return RunMetadata{
		ID:          r.RunID,
		Scenario:    r.Scenario,
		Timestamp:   r.StartedAt,
		Seed:        r.Seed,
		Dt:          r.Dt,
		Steps:       r.Steps,
		ReportFreq:  r.ReportFreq,
		NumBodies:   r.NumBodies,
		FinalBodies: r.FinalBodies,
		Metrics:     r.Metrics,
		Merges:      r.Merges,
		InitialL:    r.InitialL,
		FinalL:      r.FinalL,
	}
}
