package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RunsDB struct {
	Conn *gorm.DB
}

func NewRunsDB(db *gorm.DB) *RunsDB {
	return &RunsDB{Conn: db.Table("runs")}
}

// Run is one archived analysis: the aggregate over all items collected for
// one token at one point in time, plus what was published about it.
type Run struct {
	ID               uuid.UUID      `gorm:"primaryKey;type:uuid;not null;" json:"id"`
	Token            string         `gorm:"size:32;index;not null;" json:"token"`         // Token query the run analyzed (e.g. "btc")
	MeanScore        float64        `gorm:"not null;" json:"mean_score"`                  // Aggregate sentiment in [-1,1]
	ItemCount        int            `gorm:"not null;" json:"item_count"`                  // Total items collected
	PositiveCount    int            `json:"positive_count"`                               // Items labeled positive
	NegativeCount    int            `json:"negative_count"`                               // Items labeled negative
	NeutralCount     int            `json:"neutral_count"`                                // Items labeled neutral
	SourceStats      datatypes.JSON `gorm:"" json:"source_stats"`                         // Per-source mean/count breakdown
	PriceUSD         float64        `json:"price_usd"`                                    // Spot price at run time
	PriceChange24hPc float64        `json:"price_change_24h_pc"`                          // 24h price change, percent
	FearGreedValue   int            `json:"fear_greed_value"`                             // Market fear/greed index 0-100
	Grade            string         `gorm:"size:2" json:"grade"`                          // Letter grade (A+ .. F)
	PublicationID    string         `gorm:"size:64" json:"publication_id"`                // ID of the published digest (draft or message ID)
	PostedAt         time.Time      `gorm:"default:null" json:"posted_at"`                // When the digest was published
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

func (r *Run) Validate() error {
	if r.Token == "" {
		return ErrTokenEmpty
	}

	if len(r.Token) > 32 {
		return ErrTokenTooLong
	}

	if len(r.Grade) > 2 {
		return ErrGradeTooLong
	}

	if len(r.PublicationID) > 64 {
		return ErrPubIDTooLong
	}

	if r.ItemCount != r.PositiveCount+r.NegativeCount+r.NeutralCount {
		return ErrItemCountInvalid
	}

	return nil
}

func (r *Run) BeforeCreate(*gorm.DB) error {
	// Create UUID ID.
	r.ID = uuid.New()

	return r.Validate()
}

func (db *RunsDB) Create(ctx context.Context, runs []*Run) error {
	res := db.Conn.WithContext(ctx).Create(&runs)
	if res.Error != nil {
		return errors.Join(ErrRunCreation, res.Error)
	}

	return nil
}

// Update saves publication metadata set after the digest was posted.
func (db *RunsDB) Update(ctx context.Context, run *Run) error {
	res := db.Conn.WithContext(ctx).Save(run)
	if res.Error != nil {
		return errors.Join(ErrRunUpdate, res.Error)
	}

	return nil
}

// FindRecentByToken returns the latest runs for a token, newest first.
func (db *RunsDB) FindRecentByToken(ctx context.Context, token string, limit int) ([]*Run, error) {
	var runs []*Run
	res := db.Conn.WithContext(ctx).
		Where("token = ?", token).
		Order("created_at desc").
		Limit(limit).
		Find(&runs)
	if res.Error != nil {
		return nil, errors.Join(ErrFindRecentRuns, res.Error)
	}

	return runs, nil
}
