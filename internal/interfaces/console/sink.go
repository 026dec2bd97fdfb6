package console

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ElMonstro/Lean/internal/application/port"
)

type Sink struct {
	out io.Writer
}

func NewSink() port.Sink { return &Sink{out: os.Stdout} }

func NewSinkTo(out io.Writer) port.Sink { return &Sink{out: out} }

func (s *Sink) WriteLine(ts time.Time, line string) error {
	_, err := fmt.Fprintf(s.out, "%s %s\n", ts.Format("2006-01-02 15:04:05"), line)
	return err
}

func (s *Sink) NewLine() error {
	_, err := fmt.Fprint(s.out, "\n")
	return err
}
