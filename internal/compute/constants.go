package compute

// Command types
const (
	CommandGet      = "GET"
	CommandSet      = "SET"
	CommandDel      = "DEL"
	CommandRotate   = "ROTATE"
	CommandSegments = "SEGMENTS"
	CommandHelp     = "HELP"
)

// Response messages
const (
	ResponseOK    = "OK"
	ResponseEmpty = "(empty)"
)

// HelpMessage lists the available commands
const HelpMessage = `Available commands:
  SET <key> <value>  store a value
  GET <key>          read a value
  DEL <key>          delete a key
  ROTATE             start a new WAL segment
  SEGMENTS           list WAL segments in creation order
  HELP               show this message`
