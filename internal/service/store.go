package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/apperr"
)

// store is the database handle shared by the resource services.
// Every operation runs under its own deadline.
type store struct {
	db       *gorm.DB
	logger   *zap.Logger
	resource string
	timeout  time.Duration
}

func newStore(db *gorm.DB, logger *zap.Logger, resource string, timeout time.Duration) store {
	return store{
		db:       db,
		logger:   logger.With(zap.String("resource", resource)),
		resource: resource,
		timeout:  timeout,
	}
}

func (s store) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.timeout <= 0 {
		ctx, cancel := context.WithCancel(ctx)
		return s.db.WithContext(ctx), cancel
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// fail classifies err and logs it when it will surface as an internal error.
func (s store) fail(op string, err error, slug string) error {
	classified := classify(err, s.resource, slug)
	if apperr.KindOf(classified) == apperr.KindInternal {
		s.logger.Error("Store operation failed", zap.String("op", op), zap.Error(err))
	}
	return classified
}
