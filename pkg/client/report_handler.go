package client

import "github.com/lcdhost/cfa533driver/pkg/protocol"

// ReportHandler is the application-supplied sink for asynchronous
// reports (§4.I). Both methods are invoked from the engine's own report
// tasks, one call at a time per handler; implementations must not
// block, forwarding slow work to an application-owned queue instead.
type ReportHandler interface {
	OnKeyActivity(report protocol.KeyActivityReport)
	OnTemperature(report protocol.TemperatureReport)
}

// NopReportHandler discards every report. It is the default when a
// caller has no use for asynchronous reports.
type NopReportHandler struct{}

func (NopReportHandler) OnKeyActivity(protocol.KeyActivityReport) {}
func (NopReportHandler) OnTemperature(protocol.TemperatureReport) {}
