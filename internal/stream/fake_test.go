package stream

import (
	"time"

	"github.com/wagiedev/pipe-go/internal/config"
	"github.com/wagiedev/pipe-go/internal/errors"
)

// recvStep is one scripted Recv outcome.
type recvStep struct {
	data []byte
	err  error
}

// fakePipe replays scripted Recv results and records Send calls.
// Once the script is exhausted Recv times out, like a silent peer.
type fakePipe struct {
	timeout time.Duration

	recvs     []recvStep
	recvCalls int
	recvSizes []int

	// sendLimits caps the bytes accepted by each successive Send call.
	// Zero or a missing entry accepts the whole payload.
	sendLimits []int
	sendErr    error
	sendCalls  int
	sent       []byte

	// timeoutsSeen records the timeout active during each Recv.
	timeoutsSeen []time.Duration
}

var _ config.Pipe = (*fakePipe)(nil)

func newFakePipe(steps ...recvStep) *fakePipe {
	return &fakePipe{timeout: config.DefaultTimeout, recvs: steps}
}

func data(s string) recvStep {
	return recvStep{data: []byte(s)}
}

func eof() recvStep {
	return recvStep{data: []byte{}}
}

func fail(err error) recvStep {
	return recvStep{err: err}
}

func (f *fakePipe) Recv(n int) ([]byte, error) {
	f.recvCalls++
	f.recvSizes = append(f.recvSizes, n)
	f.timeoutsSeen = append(f.timeoutsSeen, f.timeout)

	if len(f.recvs) == 0 {
		return nil, errors.ErrTimeout
	}

	step := f.recvs[0]
	f.recvs = f.recvs[1:]

	if len(step.data) > n {
		f.recvs = append([]recvStep{{data: step.data[n:]}}, f.recvs...)
		step.data = step.data[:n]
	}

	return step.data, step.err
}

func (f *fakePipe) Send(b []byte) (int, error) {
	call := f.sendCalls
	f.sendCalls++

	if f.sendErr != nil {
		return 0, f.sendErr
	}

	n := len(b)
	if call < len(f.sendLimits) && f.sendLimits[call] >= 0 && f.sendLimits[call] < n {
		n = f.sendLimits[call]
	}

	f.sent = append(f.sent, b[:n]...)

	return n, nil
}

func (f *fakePipe) Close() error { return nil }

func (f *fakePipe) Timeout() time.Duration { return f.timeout }

func (f *fakePipe) SetTimeout(d time.Duration) { f.timeout = d }
