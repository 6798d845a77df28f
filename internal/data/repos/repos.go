package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/data/repos/health"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

type WearableRecordRepo = health.WearableRecordRepo
type UploadSessionRepo = health.UploadSessionRepo
type MigraineDayRepo = health.MigraineDayRepo
type DailySummaryRepo = health.DailySummaryRepo
type CorrelationPatternRepo = health.CorrelationPatternRepo
type MigraineProfileRepo = health.MigraineProfileRepo

func NewWearableRecordRepo(db *gorm.DB, baseLog *logger.Logger) WearableRecordRepo {
	return health.NewWearableRecordRepo(db, baseLog)
}
func NewUploadSessionRepo(db *gorm.DB, baseLog *logger.Logger) UploadSessionRepo {
	return health.NewUploadSessionRepo(db, baseLog)
}
func NewMigraineDayRepo(db *gorm.DB, baseLog *logger.Logger) MigraineDayRepo {
	return health.NewMigraineDayRepo(db, baseLog)
}
func NewDailySummaryRepo(db *gorm.DB, baseLog *logger.Logger) DailySummaryRepo {
	return health.NewDailySummaryRepo(db, baseLog)
}
func NewCorrelationPatternRepo(db *gorm.DB, baseLog *logger.Logger) CorrelationPatternRepo {
	return health.NewCorrelationPatternRepo(db, baseLog)
}
func NewMigraineProfileRepo(db *gorm.DB, baseLog *logger.Logger) MigraineProfileRepo {
	return health.NewMigraineProfileRepo(db, baseLog)
}

// IsUniqueViolation re-exports the pgconn-backed conflict check for callers
// that branch on insert races.
func IsUniqueViolation(err error, constraint string) bool {
	return health.IsUniqueViolation(err, constraint)
}
