package supervisor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

// process is a server child owned by the supervisor. A single waiter
// goroutine reaps it and closes done.
type process struct {
	cmd     *exec.Cmd
	done    chan struct{}
	err     error
	closers []io.Closer
}

func startProcess(name string, args []string, quiet bool) (*process, error) {
	cmd := exec.Command(name, args...) //nolint:gosec

	p := &process{cmd: cmd, done: make(chan struct{})}
	if !quiet {
		stdout := log.WriterLevel(logrus.InfoLevel)
		stderr := log.WriterLevel(logrus.WarnLevel)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		p.closers = append(p.closers, stdout, stderr)
	}

	if err := cmd.Start(); err != nil {
		p.closeOutput()
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	go func() {
		p.err = cmd.Wait()
		p.closeOutput()
		close(p.done)
	}()

	return p, nil
}

func (p *process) pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *process) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// exitErr is only meaningful once exited returns true.
func (p *process) exitErr() error {
	if !p.exited() {
		return nil
	}
	if p.err == nil {
		return errors.New("process exited with status 0")
	}
	return p.err
}

// terminate interrupts the process, waits up to grace for it to exit and
// kills it otherwise. It returns once the process has been reaped.
func (p *process) terminate(grace time.Duration) {
	if p.exited() {
		return
	}

	if err := p.cmd.Process.Signal(os.Interrupt); err != nil {
		// interrupt is not deliverable on every platform
		log.Debugf("interrupt pid %d: %v", p.pid(), err)
	} else {
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-p.done:
			return
		case <-timer.C:
			log.Warnf("server pid %d ignored interrupt for %s, killing it", p.pid(), grace)
		}
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.Errorf("failed to kill server pid %d: %v", p.pid(), err)
	}
	<-p.done
}

func (p *process) closeOutput() {
	for _, c := range p.closers {
		_ = c.Close()
	}
	p.closers = nil
}
