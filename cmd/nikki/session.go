package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorewood/nikki/internal/config"
	"github.com/gorewood/nikki/internal/logging"
	"github.com/gorewood/nikki/internal/output"
)

// session holds what every command needs for one invocation.
type session struct {
	printer *output.Printer
	cfg     *config.Config
	loc     *time.Location
	logger  *zap.Logger
	now     time.Time
}

// newPrinter builds the printer for cmd from --json and --color.
func newPrinter(cmd *cobra.Command) (*output.Printer, error) {
	flag, _ := cmd.Flags().GetString("color")
	mode, err := output.ParseColorMode(flag)
	styled := mode.Styled(output.IsTTY(cmd.OutOrStdout()))
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), styled).WithStderr(cmd.ErrOrStderr())
	if err != nil {
		return printer, fail(printer, output.NewUserErrorWithCause(err.Error(), err))
	}
	return printer, nil
}

// newSession loads configuration and builds the printer and logger.
// Errors are printed before they are returned.
func newSession(cmd *cobra.Command) (*session, error) {
	printer, err := newPrinter(cmd)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logging.New(cmd.ErrOrStderr(), verbose)

	explicit, _ := cmd.Flags().GetString("config")
	cfg, loaded, err := config.Load(explicit)
	if err != nil {
		return nil, fail(printer, output.NewUserErrorWithCause(err.Error(), err))
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fail(printer, output.NewUserErrorWithCause(err.Error(), err))
	}
	logger.Debug("config loaded", zap.Strings("files", loaded), zap.String("timezone", cfg.TimeZone))

	return &session{
		printer: printer,
		cfg:     cfg,
		loc:     loc,
		logger:  logger,
		now:     time.Now(),
	}, nil
}

// fail prints err and returns it, so call sites can `return fail(...)`.
func fail(printer *output.Printer, err error) error {
	printer.Error(err)
	return err
}

func (s *session) fail(err error) error {
	return fail(s.printer, err)
}
