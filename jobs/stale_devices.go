package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bgbghq67-sys/banga-photobooth-admin/core"
	"github.com/bgbghq67-sys/banga-photobooth-admin/internal/ledger"
)

// StaleDevicesJob reports bound kiosks that have gone quiet. It only logs;
// bindings are never released automatically.
type StaleDevicesJob struct {
	Ledger *ledger.Ledger
	Logger *zap.SugaredLogger
	Config *core.Config
}

func (job StaleDevicesJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), job.Config.StoreTimeout)
	defer cancel()

	stale, err := job.Ledger.StaleDevices(ctx, job.Config.StaleAfter)
	if err != nil {
		job.Logger.Error("failed to sweep stale devices: " + err.Error())
		return
	}

	for _, device := range stale {
		lastSeen := time.UnixMilli(*device.LastSeen)
		job.Logger.Warnw("device has not reported in",
			"deviceId", device.ID,
			"name", device.Name,
			"lastSeen", lastSeen.UTC().Format(time.RFC3339),
			"remainingSessions", device.RemainingSessions,
		)
	}

	if len(stale) == 0 {
		job.Logger.Debug("no stale devices")
	}
}
