// Package sweeper reclaims invitation rows whose 24-hour window has
// passed. The invitation handlers still check expiry on every read;
// the sweeper only keeps the table from accumulating dead rows.
package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/thullo-dev/thullo/internal/models"
	"github.com/thullo-dev/thullo/internal/types"
	"gorm.io/gorm"
)

type Sweeper struct {
	db       *gorm.DB
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(db *gorm.DB, interval time.Duration) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		db:       db,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the sweep loop until Stop is called.
func (s *Sweeper) Start() {
	log.Println("Starting invitation sweeper...")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.Sweep(); err != nil {
					log.Printf("Invitation sweep failed: %v", err)
				}
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	log.Println("Stopping invitation sweeper...")
	s.cancel()
}

// Sweep deletes every invitation older than the expiry window.
func (s *Sweeper) Sweep() error {
	cutoff := time.Now().Add(-types.InvitationTTL)

	result := s.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.Invitation{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Swept %d expired invitations", result.RowsAffected)
	}

	return nil
}
