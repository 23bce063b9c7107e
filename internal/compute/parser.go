package compute

import (
	"strings"
)

// Command is a parsed shell command
type Command struct {
	Type string
	Args []string
}

// ParseCommand parses an input line into a Command. The command name is case-insensitive.
func ParseCommand(input string) (Command, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return Command{}, ErrInvalidFormat
	}

	cmd := Command{
		Type: strings.ToUpper(parts[0]),
		Args: parts[1:],
	}

	if err := validateCommand(cmd); err != nil {
		return Command{}, err
	}

	return cmd, nil
}

func validateCommand(cmd Command) error {
	switch cmd.Type {
	case CommandSet:
		if len(cmd.Args) != 2 {
			return ErrInvalidSetFormat
		}
	case CommandGet, CommandDel:
		if len(cmd.Args) != 1 {
			return ErrInvalidFormat
		}
	case CommandRotate, CommandSegments, CommandHelp:
		if len(cmd.Args) != 0 {
			return ErrInvalidFormat
		}
	default:
		return ErrUnknownCommand
	}

	return nil
}
