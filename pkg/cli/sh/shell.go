// Package sh provides the operator shell of the receiver.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/navrx/pkg/framework"
	"github.com/robotalks/navrx/pkg/telemetry"
)

// Stack is what the shell operates on.
type Stack interface {
	fx.LoopControl
	Load() *telemetry.Snapshot
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	// Timeout bounds waiting for the loop to apply a command.
	Timeout time.Duration

	Shell *ishell.Shell
	Stack Stack
}

const (
	shellKey = "$shell"
	prompt   = "navrx > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&StatusCmd,
		&StatsCmd,
		&OffsetCmd,
		&CorrectionCmd,
		&PollCmd,
	}
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(stack Stack) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     time.Second,

		Shell: ishell.New(),
		Stack: stack,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// WaitSnapshot waits for a snapshot with timestamp later than afterMs.
func (s *Shell) WaitSnapshot(ctx context.Context, afterMs int64) (*telemetry.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		if snapshot := s.Stack.Load(); snapshot != nil && snapshot.TimestampMs > afterMs {
			return snapshot, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("no telemetry: %v", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Current waits for the first snapshot if there's none yet.
func (s *Shell) Current() (*telemetry.Snapshot, error) {
	return s.WaitSnapshot(context.Background(), -1)
}

// Post sends msg to the loop and waits for a snapshot reflecting it.
func (s *Shell) Post(msg fx.Message) (*telemetry.Snapshot, error) {
	s.Stack.PostMessage(msg)
	// a tick starting after this point has taken msg.
	posted := time.Now().UnixNano() / int64(time.Millisecond)
	s.Stack.TriggerNext()
	return s.WaitSnapshot(context.Background(), posted)
}

// Print writes v as JSON or using format.
func (s *Shell) Print(c *ishell.Context, v interface{}, format func() string) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(format())
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}
