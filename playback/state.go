package playback

// State of the playback loop
type State int

const (
	Running State = iota
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Command is the action requested by a key press
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdPause
	CmdSnapshot
)

const (
	// KeyEsc is the escape key code
	KeyEsc = 27
	// NoKey is returned by WaitKey when no key was pressed
	NoKey = -1
)

// CommandForKey maps a key code returned by WaitKey to a Command.  Unknown
// keys map to CmdNone.
func CommandForKey(key int) Command {

	if key < 0 {
		return CmdNone
	}

	// strip modifier flags some highgui backends report in the upper bits
	switch key & 0xFF {
	case KeyEsc, 'q', 'Q':
		return CmdQuit
	case ' ':
		return CmdPause
	case 's':
		return CmdSnapshot
	default:
		return CmdNone
	}
}
