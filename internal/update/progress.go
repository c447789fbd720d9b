package update

import (
	"encoding/json"
	"io"

	clog "github.com/charmbracelet/log"
)

// Phase is a step of an update run.
type Phase string

const (
	PhaseWaiting     Phase = "waiting"
	PhaseDownloading Phase = "downloading"
	PhaseInstalling  Phase = "installing"
	PhaseRelaunching Phase = "relaunching"
)

func (p Phase) String() string {
	return string(p)
}

// Snapshot is one progress event.
type Snapshot struct {
	Phase   Phase  `json:"phase"`
	Percent int    `json:"percent"`
	Detail  string `json:"detail"`
}

// Observer receives snapshots in emission order.
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Observe(s Snapshot) {
	f(s)
}

// Broadcaster fans snapshots out to observers. The runner is its only writer.
type Broadcaster struct {
	observers []Observer
}

// NewBroadcaster creates a Broadcaster. Nil observers are ignored.
func NewBroadcaster(observers ...Observer) *Broadcaster {
	b := &Broadcaster{}
	for _, o := range observers {
		b.Add(o)
	}
	return b
}

func (b *Broadcaster) Add(o Observer) {
	if o != nil {
		b.observers = append(b.observers, o)
	}
}

func (b *Broadcaster) Emit(phase Phase, percent int, detail string) {
	s := Snapshot{Phase: phase, Percent: percent, Detail: detail}
	for _, o := range b.observers {
		o.Observe(s)
	}
}

// JSONObserver writes one JSON object per line.
func JSONObserver(w io.Writer) Observer {
	enc := json.NewEncoder(w)
	return ObserverFunc(func(s Snapshot) {
		_ = enc.Encode(s)
	})
}

// LogObserver logs each snapshot at info level.
func LogObserver(logger *clog.Logger) Observer {
	return ObserverFunc(func(s Snapshot) {
		logger.Info(s.Detail, "phase", s.Phase, "percent", s.Percent)
	})
}
