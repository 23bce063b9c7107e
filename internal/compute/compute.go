package compute

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/8thgencore/ledgerkv/internal/storage"
)

// Handler is a struct that handles commands
type Handler struct {
	log   *slog.Logger
	store storage.Storage
}

// NewHandler creates a new Handler
func NewHandler(log *slog.Logger, store storage.Storage) *Handler {
	return &Handler{log: log, store: store}
}

// Handle handles a command
func (h *Handler) Handle(input string) (string, error) {
	h.log.Debug("Handling command", "input", input)

	cmd, err := ParseCommand(input)
	if err != nil {
		return "", err
	}

	switch cmd.Type {
	case CommandSet:
		if err := h.store.Set([]byte(cmd.Args[0]), []byte(cmd.Args[1])); err != nil {
			return "", err
		}
		return ResponseOK, nil

	case CommandGet:
		value, err := h.store.Get([]byte(cmd.Args[0]))
		if err != nil {
			return "", err
		}
		return string(value), nil

	case CommandDel:
		if err := h.store.Delete([]byte(cmd.Args[0])); err != nil {
			return "", err
		}
		return ResponseOK, nil

	case CommandRotate:
		return h.store.Rotate()

	case CommandSegments:
		ids, err := h.store.Segments()
		if err != nil {
			return "", err
		}
		if len(ids) == 0 {
			return ResponseEmpty, nil
		}
		return strings.Join(ids, "\n"), nil

	case CommandHelp:
		return HelpMessage, nil
	}

	return "", ErrUnknownCommand
}

// IsNotFound reports whether err means the key does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrKeyNotFound)
}
