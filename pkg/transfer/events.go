package transfer

// Phase names a step of a listing walk or download batch.
type Phase string

const (
	PhaseConnect   Phase = "connect"
	PhaseReconnect Phase = "reconnect"
	PhaseList      Phase = "list"
	PhaseFileStart Phase = "file_start"
	PhaseFileSkip  Phase = "file_skip"
	PhaseFileDone  Phase = "file_done"
)

// Event is emitted through Hooks as transfers progress.
type Event struct {
	Phase   Phase
	Path    string
	Local   string
	Attempt int
	Bytes   int64
	Err     error
}

// Hooks lets callers observe a connection without coupling to it.
type Hooks struct {
	OnEvent func(Event)
}

func (h Hooks) emit(e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}
