package nbi

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/subsystem-services/internal/sim"
	"github.com/signalsfoundry/subsystem-services/timectrl"
)

var testEpoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func newSimADCS(t *testing.T) (*sim.ADCS, *timectrl.ManualClock) {
	t.Helper()
	clock := timectrl.NewManualClock(testEpoch)
	return sim.NewADCS(sim.ADCSOptions{Clock: clock}), clock
}

func newSimGNSS(t *testing.T) (*sim.GNSS, *timectrl.ManualClock) {
	t.Helper()
	clock := timectrl.NewManualClock(testEpoch)
	return sim.NewGNSS(sim.GNSSOptions{Clock: clock}), clock
}

func wantCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := status.Code(err); got != code {
		t.Fatalf("status code = %v, want %v (err=%v)", got, code, err)
	}
}

// syncBuffer is a bytes.Buffer safe for a logger writing from RPC goroutines.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}
