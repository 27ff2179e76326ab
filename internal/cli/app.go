package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/config"
	"github.com/dmitrijs2005/gophvault/internal/filex"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/vault"
)

const vaultExt = ".vault"

type App struct {
	config     *config.Config
	configPath string
	log        logging.Logger
	vm         *vault.Manager

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// newPrompter builds the REPL input source.
	newPrompter func() prompter
}

func NewApp(cfg *config.Config, configPath string, log logging.Logger, in io.Reader, out, errOut io.Writer) *App {
	a := &App{
		config:     cfg,
		configPath: configPath,
		log:        log,
		vm:         vault.NewManager(vault.WithParams(cfg.Params()), vault.WithLogger(log)),
		in:         bufio.NewReader(in),
		out:        out,
		errOut:     errOut,
	}
	a.newPrompter = a.defaultPrompter
	return a
}

func (a *App) defaultPrompter() prompter {
	if f, ok := a.out.(*os.File); ok && isTerminal(stdinFd()) && isTerminal(int(f.Fd())) {
		return newLinerPrompter()
	}
	return &readerPrompter{r: a.in, w: a.out}
}

// Dispatch runs cmd.
func (a *App) Dispatch(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case CommandCreate:
		return a.create(ctx, c)
	case CommandOpen:
		return a.open(ctx, c)
	case CommandConfigShow:
		return a.configShow(c)
	case CommandConfigSet:
		return a.configSet(ctx, c)
	case CommandConfigReset:
		return a.configReset(ctx)
	case CommandConfigPath:
		_, err := fmt.Fprintln(a.out, a.configPath)
		return err
	default:
		return fmt.Errorf("%w: unknown command %T", common.ErrInvalidInput, cmd)
	}
}

// vaultPath joins dir and name and appends the .vault extension when name
// has none.
func vaultPath(dir, name string) string {
	if filepath.Ext(name) == "" {
		name += vaultExt
	}
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func (a *App) create(ctx context.Context, c CommandCreate) error {
	if c.Name == "" {
		return fmt.Errorf("%w: vault name is empty", common.ErrInvalidInput)
	}
	path := vaultPath(c.Dir, c.Name)

	exists, err := filex.Exists(path)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	if exists {
		return fmt.Errorf("%s %w", path, common.ErrAlreadyExists)
	}
	if err := filex.CheckParentDir(path); err != nil {
		return err
	}

	pw, err := a.newPassword(ctx)
	if err != nil {
		return err
	}

	stop := startSpinner(a.errOut, "Deriving key...")
	err = a.vm.Regenerate(ctx, pw)
	if err == nil {
		err = a.vm.Save(ctx, path)
	}
	stop()
	defer a.vm.Close()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, successStyle.Sprint("✓"), "Created", pathStyle.Sprint(path))
	return nil
}

// newPassword asks for a password twice and returns it once both entries
// match.
func (a *App) newPassword(ctx context.Context) ([]byte, error) {
	pw, err := GetPassword(ctx, a.in, "New password: ", a.out)
	if err != nil {
		return nil, err
	}
	confirm, err := GetPassword(ctx, a.in, "Repeat password: ", a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	switch {
	case len(pw) == 0:
		return nil, fmt.Errorf("%w: password is empty", common.ErrInvalidInput)
	case string(pw) != string(confirm):
		common.WipeByteArray(pw)
		return nil, fmt.Errorf("%w: passwords do not match", common.ErrInvalidInput)
	}
	return pw, nil
}

func (a *App) open(ctx context.Context, c CommandOpen) error {
	pw, err := GetPassword(ctx, a.in, "Password: ", a.out)
	if err != nil {
		return err
	}

	stop := startSpinner(a.errOut, "Unlocking...")
	err = a.vm.InitializeFromFile(ctx, c.Path, pw)
	stop()
	if err != nil {
		if errors.Is(err, common.ErrAuthentication) {
			return fmt.Errorf("wrong password or damaged file: %w", err)
		}
		return err
	}
	defer a.vm.Close()

	p := a.newPrompter()
	defer p.Close()

	s := newSession(a.vm, c.Path, p, a.log)
	fmt.Fprintln(a.out, "Opened", pathStyle.Sprint(c.Path), mutedStyle.Sprint("(type 'help' for commands)"))
	runREPL(ctx, s, s.status, p)
	return nil
}

func (a *App) configShow(c CommandConfigShow) error {
	b, err := a.config.Marshal(c.JSON)
	if err != nil {
		return err
	}
	_, err = a.out.Write(b)
	return err
}

func (a *App) configSet(ctx context.Context, c CommandConfigSet) error {
	if err := a.config.Set(c.Key, c.Value); err != nil {
		return err
	}
	if err := a.config.Save(a.configPath); err != nil {
		return err
	}
	v, _ := a.config.Get(c.Key)
	a.log.Info(ctx, "config updated", "key", c.Key, "path", a.configPath)
	fmt.Fprintln(a.out, successStyle.Sprint("✓"), c.Key, "=", v)
	return nil
}

func (a *App) configReset(ctx context.Context) error {
	a.config.LoadDefaults()
	if err := a.config.Save(a.configPath); err != nil {
		return err
	}
	a.log.Info(ctx, "config reset", "path", a.configPath)
	fmt.Fprintln(a.out, successStyle.Sprint("✓"), "Defaults written to", pathStyle.Sprint(a.configPath))
	return nil
}
