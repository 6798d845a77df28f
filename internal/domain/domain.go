package domain

import (
	"github.com/yungbote/auratrack-backend/internal/domain/health"
	"github.com/yungbote/auratrack-backend/internal/domain/user"
)

type User = user.User

type WearableRecord = health.WearableRecord
type UploadSession = health.UploadSession
type MigraineDay = health.MigraineDay
type DailySummary = health.DailySummary
type RiskFactor = health.RiskFactor
type CorrelationPattern = health.CorrelationPattern
type MigraineProfile = health.MigraineProfile

const (
	SourceOura         = health.SourceOura
	SourceFitbit       = health.SourceFitbit
	SourceGarmin       = health.SourceGarmin
	SourceAppleWatch   = health.SourceAppleWatch
	SourceManualUpload = health.SourceManualUpload

	UploadStatusProcessing = health.UploadStatusProcessing
	UploadStatusCompleted  = health.UploadStatusCompleted
	UploadStatusPartial    = health.UploadStatusPartial
	UploadStatusFailed     = health.UploadStatusFailed

	TrendIncreasing = health.TrendIncreasing
	TrendStable     = health.TrendStable
	TrendDecreasing = health.TrendDecreasing

	PatternHighStress       = health.PatternHighStress
	PatternStressSpike      = health.PatternStressSpike
	PatternLowRecovery      = health.PatternLowRecovery
	PatternLowHRV           = health.PatternLowHRV
	PatternPoorSleep        = health.PatternPoorSleep
	PatternStressVolatility = health.PatternStressVolatility
)
