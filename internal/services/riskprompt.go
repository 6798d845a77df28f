package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/data/repos"
	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/modules/analytics/riskprompt"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

type RiskPromptService interface {
	BuildRiskPrompt(ctx context.Context, userID uuid.UUID, sample *riskprompt.Sample) (string, riskprompt.Meta, error)
}

type riskPromptService struct {
	db       *gorm.DB
	log      *logger.Logger
	records  repos.WearableRecordRepo
	patterns repos.CorrelationPatternRepo
	profiles repos.MigraineProfileRepo
}

func NewRiskPromptService(
	db *gorm.DB,
	log *logger.Logger,
	records repos.WearableRecordRepo,
	patterns repos.CorrelationPatternRepo,
	profiles repos.MigraineProfileRepo,
) RiskPromptService {
	return &riskPromptService{
		db:       db,
		log:      log.With("service", "RiskPromptService"),
		records:  records,
		patterns: patterns,
		profiles: profiles,
	}
}

// BuildRiskPrompt assembles the risk-analysis prompt from the last 24 hours
// of data. A non-nil sample switches to simulated mode: 24 synthetic hourly
// entries carrying the sample's metrics replace the stored records.
func (s *riskPromptService) BuildRiskPrompt(ctx context.Context, userID uuid.UUID, sample *riskprompt.Sample) (string, riskprompt.Meta, error) {
	dbc := dbctx.Context{Ctx: ctx}
	now := time.Now()

	var records []*types.WearableRecord
	simulated := sample != nil
	if simulated {
		records = riskprompt.SynthesizeHourly(*sample, now)
	} else {
		var err error
		records, err = s.records.ListByUserInRange(dbc, userID, now.Add(-24*time.Hour), now)
		if err != nil {
			return "", riskprompt.Meta{}, err
		}
	}

	patterns, err := s.patterns.ListByUser(dbc, userID)
	if err != nil {
		return "", riskprompt.Meta{}, err
	}
	profile, err := s.profiles.GetByUserID(dbc, userID)
	if err != nil {
		return "", riskprompt.Meta{}, err
	}

	prompt, meta := riskprompt.Build(riskprompt.Input{
		Records:   records,
		Patterns:  patterns,
		Profile:   profile,
		Now:       now,
		Simulated: simulated,
	})
	s.log.Debug("risk prompt built",
		"user_id", userID,
		"data_points", meta.DataPoints,
		"patterns_used", meta.PatternsUsed,
		"simulated", simulated,
	)
	return prompt, meta, nil
}
