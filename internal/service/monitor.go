package service

import (
	"sync"
	"time"
)

// Monitor keeps in-process counters for checkout health. The admin API
// exposes a snapshot; nothing here blocks a request path.
type Monitor struct {
	mu sync.RWMutex

	GatewayErrors    int64
	SignatureRejects int64
	PaymentFailures  int64
	TotalMismatches  int64

	IntentsCreated  int64
	Settlements     int64
	ReplayedSettles int64

	WorkerProcessed int64
	WorkerFailed    int64
	StockShortfalls int64

	LastGatewayError    time.Time
	LastSignatureReject time.Time
	LastSettlement      time.Time
	LastWorkerRun       time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor returns the process-wide monitor.
func GetMonitor() *Monitor {
	return globalMonitor
}

func (m *Monitor) RecordGatewayError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GatewayErrors++
	m.LastGatewayError = time.Now()
}

func (m *Monitor) RecordSignatureReject() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignatureRejects++
	m.LastSignatureReject = time.Now()
}

func (m *Monitor) RecordPaymentFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PaymentFailures++
}

func (m *Monitor) RecordTotalMismatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalMismatches++
}

func (m *Monitor) RecordIntentCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IntentsCreated++
}

func (m *Monitor) RecordSettlement() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Settlements++
	m.LastSettlement = time.Now()
}

func (m *Monitor) RecordReplayedSettle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplayedSettles++
}

func (m *Monitor) RecordWorkerProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkerProcessed++
	m.LastWorkerRun = time.Now()
}

func (m *Monitor) RecordWorkerFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkerFailed++
	m.LastWorkerRun = time.Now()
}

func (m *Monitor) RecordStockShortfall() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StockShortfalls++
}

// MonitorSnapshot is a point-in-time copy of the counters.
type MonitorSnapshot struct {
	GatewayErrors    int64 `json:"gateway_errors"`
	SignatureRejects int64 `json:"signature_rejects"`
	PaymentFailures  int64 `json:"payment_failures"`
	TotalMismatches  int64 `json:"total_mismatches"`

	IntentsCreated  int64 `json:"intents_created"`
	Settlements     int64 `json:"settlements"`
	ReplayedSettles int64 `json:"replayed_settles"`

	WorkerProcessed int64 `json:"worker_processed"`
	WorkerFailed    int64 `json:"worker_failed"`
	StockShortfalls int64 `json:"stock_shortfalls"`

	LastGatewayError    time.Time `json:"last_gateway_error"`
	LastSignatureReject time.Time `json:"last_signature_reject"`
	LastSettlement      time.Time `json:"last_settlement"`
	LastWorkerRun       time.Time `json:"last_worker_run"`
}

// Snapshot copies the counters for reporting.
func (m *Monitor) Snapshot() MonitorSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MonitorSnapshot{
		GatewayErrors:       m.GatewayErrors,
		SignatureRejects:    m.SignatureRejects,
		PaymentFailures:     m.PaymentFailures,
		TotalMismatches:     m.TotalMismatches,
		IntentsCreated:      m.IntentsCreated,
		Settlements:         m.Settlements,
		ReplayedSettles:     m.ReplayedSettles,
		WorkerProcessed:     m.WorkerProcessed,
		WorkerFailed:        m.WorkerFailed,
		StockShortfalls:     m.StockShortfalls,
		LastGatewayError:    m.LastGatewayError,
		LastSignatureReject: m.LastSignatureReject,
		LastSettlement:      m.LastSettlement,
		LastWorkerRun:       m.LastWorkerRun,
	}
}
