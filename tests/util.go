package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
	logsvc "github.com/Diva-jaw/Frontend--sub001/services/logger"
)

// NewConfig returns the default configuration in test mode.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.TestMode = true
	conf.Debug = false
	conf.Server.DisableReqLogs = true
	return conf
}

func NewLogger() core.Logger {
	return logsvc.NewDiscardLogger()
}

func CreateLead(
	t *testing.T,
	repo enrollment.Repository,
	courseID, moduleID, levelID int,
	name, email string,
	createdAt ...time.Time,
) enrollment.Lead {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	lead := enrollment.Lead{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		ModuleID:  moduleID,
		LevelID:   levelID,
		Name:      name,
		Email:     email,
		PhoneNo:   "+254700000000",
		CreatedAt: tstamp,
	}
	lead, err := repo.CreateLead(context.Background(), lead)
	if err != nil {
		t.Fatalf("CreateLead() failed: %v", err)
	}
	return lead
}
