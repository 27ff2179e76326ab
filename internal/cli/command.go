package cli

// Command is one top-level CLI action. The set of implementations is
// closed; Dispatch handles each of them.
type Command interface {
	command()
}

// CommandCreate creates a new vault file called Name inside Dir.
type CommandCreate struct {
	Name string
	Dir  string
}

// CommandOpen opens the vault at Path and starts the REPL.
type CommandOpen struct {
	Path string
}

// CommandConfigShow prints the effective configuration.
type CommandConfigShow struct {
	JSON bool
}

// CommandConfigSet stores Key=Value in the config file.
type CommandConfigSet struct {
	Key   string
	Value string
}

// CommandConfigReset writes the defaults to the config file.
type CommandConfigReset struct{}

// CommandConfigPath prints the config file location.
type CommandConfigPath struct{}

func (CommandCreate) command() {}
func (CommandOpen) command() {}
func (CommandConfigShow) command() {}
func (CommandConfigSet) command() {}
func (CommandConfigReset) command() {}
func (CommandConfigPath) command() {}
